package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/cycletrack/internal/domain/activity"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type activityDoc struct {
	ID        string    `bson:"_id"`
	Type      string    `bson:"type"`
	Day       int       `bson:"day,omitempty"`
	Summary   string    `bson:"summary"`
	CreatedAt time.Time `bson:"createdAt"`
}

// ActivityRepository implements activity.Repository on a collection.
type ActivityRepository struct {
	coll *mongodriver.Collection
}

// NewActivityRepository creates a repository over coll.
func NewActivityRepository(coll *mongodriver.Collection) *ActivityRepository {
	return &ActivityRepository{coll: coll}
}

// Log inserts one entry.
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	doc := activityDoc{
		ID:        entry.ID,
		Type:      string(entry.Type),
		Day:       entry.Day,
		Summary:   entry.Summary,
		CreatedAt: entry.CreatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

// List returns matching entries, newest first.
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	filter := bson.D{}
	if opts.Day != nil {
		filter = append(filter, bson.E{Key: "day", Value: *opts.Day})
	}
	if opts.Type != nil {
		filter = append(filter, bson.E{Key: "type", Value: string(*opts.Type)})
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cur, err := r.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	var docs []activityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode activity: %w", err)
	}

	entries := make([]activity.Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, activity.Entry{
			ID:        d.ID,
			Type:      activity.Type(d.Type),
			Day:       d.Day,
			Summary:   d.Summary,
			CreatedAt: d.CreatedAt,
		})
	}
	return entries, nil
}
