package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// singletonID is the _id of the only progress document.
const singletonID = "singleton"

// capsulesDoc reads counters as doubles; older documents hold fractional values.
type capsulesDoc struct {
	Osta float64 `bson:"osta"`
	Rad  float64 `bson:"rad"`
	Card float64 `bson:"card"`
}

type progressDoc struct {
	ID            string                 `bson:"_id"`
	CheckedDays   map[string]bool        `bson:"checkedDays"`
	DailyCapsules map[string]capsulesDoc `bson:"dailyCapsules"`
	StartDate     string                 `bson:"startDate,omitempty"`
	UpdatedAt     time.Time              `bson:"updatedAt"`
}

// ProgressRepository implements progress.Repository on a collection.
type ProgressRepository struct {
	coll *mongodriver.Collection
}

// NewProgressRepository creates a repository over coll.
func NewProgressRepository(coll *mongodriver.Collection) *ProgressRepository {
	return &ProgressRepository{coll: coll}
}

// Fetch returns the singleton document or repository.ErrNotFound.
func (r *ProgressRepository) Fetch(ctx context.Context) (*progress.Progress, error) {
	var doc progressDoc
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: singletonID}}).Decode(&doc)
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find progress: %w", err)
	}
	return fromDoc(doc), nil
}

// Upsert writes every field of p onto the singleton document.
func (r *ProgressRepository) Upsert(ctx context.Context, p *progress.Progress) error {
	p.Normalize()

	set := bson.D{
		{Key: "checkedDays", Value: checkedToDoc(p.CheckedDays)},
		{Key: "dailyCapsules", Value: capsulesToDoc(p.DailyCapsules)},
		{Key: "updatedAt", Value: p.UpdatedAt.UTC()},
	}
	update := bson.D{}
	if p.StartDate != "" {
		set = append(set, bson.E{Key: "startDate", Value: p.StartDate})
		update = append(update, bson.E{Key: "$set", Value: set})
	} else {
		update = append(update,
			bson.E{Key: "$set", Value: set},
			bson.E{Key: "$unset", Value: bson.D{{Key: "startDate", Value: ""}}},
		)
	}

	_, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: singletonID}},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

func checkedToDoc(in map[int]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for day, v := range in {
		out[strconv.Itoa(day)] = v
	}
	return out
}

func capsulesToDoc(in map[int]progress.Capsules) map[string]capsulesDoc {
	out := make(map[string]capsulesDoc, len(in))
	for day, c := range in {
		out[strconv.Itoa(day)] = capsulesDoc{Osta: float64(c.Osta), Rad: float64(c.Rad), Card: float64(c.Card)}
	}
	return out
}

// fromDoc drops keys that are not day numbers.
func fromDoc(doc progressDoc) *progress.Progress {
	p := progress.Empty()
	for key, v := range doc.CheckedDays {
		if day, err := strconv.Atoi(key); err == nil {
			p.CheckedDays[day] = v
		}
	}
	for key, c := range doc.DailyCapsules {
		if day, err := strconv.Atoi(key); err == nil {
			p.DailyCapsules[day] = progress.Capsules{Osta: count(c.Osta), Rad: count(c.Rad), Card: count(c.Card)}
		}
	}
	p.StartDate = doc.StartDate
	p.UpdatedAt = doc.UpdatedAt
	return p
}

// count rounds a stored counter and clamps it to [0, progress.MaxCapsules].
func count(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return int(min(math.Round(v), progress.MaxCapsules))
}
