// Package mongo stores progress in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	DefaultDatabase           = "cycle"
	DefaultProgressCollection = "progress"
	DefaultActivityCollection = "activity"
)

// Options configures the connection.
type Options struct {
	URI                string
	Database           string
	ProgressCollection string
	ActivityCollection string
	ConnectTimeout     time.Duration
	MaxConnIdleTime    time.Duration
}

func (o Options) withDefaults() Options {
	if o.Database == "" {
		o.Database = DefaultDatabase
	}
	if o.ProgressCollection == "" {
		o.ProgressCollection = DefaultProgressCollection
	}
	if o.ActivityCollection == "" {
		o.ActivityCollection = DefaultActivityCollection
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 10 * time.Second
	}
	return o
}

// DB owns a client connection. Callers close it when done.
type DB struct {
	client *mongodriver.Client
	db     *mongodriver.Database
	opts   Options
}

// Connect dials the deployment and verifies it with a ping.
func Connect(ctx context.Context, opts Options) (*DB, error) {
	if opts.URI == "" {
		return nil, errors.New("mongo: URI is required")
	}
	opts = opts.withDefaults()

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(opts.ConnectTimeout)
	if opts.MaxConnIdleTime > 0 {
		clientOpts.SetMaxConnIdleTime(opts.MaxConnIdleTime)
	}

	client, err := mongodriver.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &DB{client: client, db: client.Database(opts.Database), opts: opts}, nil
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Progress returns a repository over the progress collection.
func (d *DB) Progress() *ProgressRepository {
	return NewProgressRepository(d.db.Collection(d.opts.ProgressCollection))
}

// Activity returns a repository over the activity collection.
func (d *DB) Activity() *ActivityRepository {
	return NewActivityRepository(d.db.Collection(d.opts.ActivityCollection))
}
