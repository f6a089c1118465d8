// Package app wires a configured store, the domain services and the
// HTTP and MCP surfaces into one runnable unit.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/cycletrack/internal/config"
	"github.com/rpggio/cycletrack/internal/domain/activity"
	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/domain/schedule"
	"github.com/rpggio/cycletrack/internal/localstore"
	"github.com/rpggio/cycletrack/internal/mcp"
	"github.com/rpggio/cycletrack/internal/mongo"
	"github.com/rpggio/cycletrack/internal/sqlite"
	"github.com/rpggio/cycletrack/internal/transport"
	"github.com/rpggio/cycletrack/internal/web"
)

// Version is reported to MCP clients.
var Version = "dev"

// App holds the services and the resources backing them.
type App struct {
	Progress *progress.Service
	Activity *activity.Service
	MCP      *sdkmcp.Server

	cfg     config.Config
	logger  *slog.Logger
	closers []func(context.Context) error
}

// Option configures an App.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used to start the cycle.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New opens the configured backend and builds the services.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	cycle := schedule.Default()
	if err := cycle.Validate(); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, logger: logger}
	progressRepo, activityRepo, err := a.openStore(ctx, cycle)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	a.Activity = activity.NewService(activityRepo, logger)
	a.Progress = progress.NewService(progressRepo, cycle, logger,
		progress.WithClock(o.now),
		progress.WithActivity(a.Activity),
	)
	a.MCP = mcp.NewServer(mcp.Config{
		Services: mcp.Services{Progress: a.Progress, Activity: a.Activity},
		Version:  Version,
		Logger:   logger,
	})
	return a, nil
}

// openStore returns a nil activity repository for the local backend.
func (a *App) openStore(ctx context.Context, cycle *schedule.Cycle) (progress.Repository, activity.Repository, error) {
	switch a.cfg.Store.Backend {
	case "mongo":
		db, err := mongo.Connect(ctx, mongo.Options{
			URI:             a.cfg.Mongo.URI,
			Database:        a.cfg.Mongo.Database,
			ConnectTimeout:  a.cfg.Mongo.ConnectTimeout,
			MaxConnIdleTime: a.cfg.Mongo.MaxIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.logger.Info("store opened", "backend", "mongo", "database", a.cfg.Mongo.Database)
		return db.Progress(), db.Activity(), nil

	case "sqlite":
		if err := ensureDir(a.cfg.SQLite.Path); err != nil {
			return nil, nil, fmt.Errorf("failed to prepare database path: %w", err)
		}
		db, err := sqlite.New(a.cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		if err := db.RunMigrations(); err != nil {
			return nil, nil, err
		}
		a.logger.Info("store opened", "backend", "sqlite", "path", a.cfg.SQLite.Path)
		return sqlite.NewProgressRepository(db), sqlite.NewActivityRepository(db), nil

	case "local":
		kv, err := a.openKV(ctx)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Info("store opened", "backend", "local", "driver", a.cfg.Local.Driver)
		return localstore.NewStore(kv, cycle, a.logger), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", a.cfg.Store.Backend)
}

func (a *App) openKV(ctx context.Context) (localstore.KV, error) {
	if a.cfg.Local.Driver == "redis" {
		client, err := localstore.DialRedis(ctx, a.cfg.Local.RedisAddr, a.cfg.Local.RedisPassword, a.cfg.Local.RedisDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		return localstore.NewRedisKV(client), nil
	}
	return localstore.NewFileKV(a.cfg.Local.Dir)
}

// Handler returns the HTTP surface: JSON API, page, and MCP at /mcp.
func (a *App) Handler() http.Handler {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return a.MCP },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
	return transport.NewServer(transport.Config{
		Progress:  a.Progress,
		Activity:  a.Activity,
		Page:      web.NewHandler(a.Progress, a.logger),
		MCP:       mcpHandler,
		AuthToken: a.cfg.Server.AuthToken,
		Logger:    a.logger,
	})
}

// Close releases the store in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func ensureDir(path string) error {
	if path == "" || path == ":memory:" || filepath.Dir(path) == "." {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
