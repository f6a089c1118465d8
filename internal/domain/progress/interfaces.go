package progress

import (
	"context"

	"github.com/rpggio/cycletrack/internal/domain/activity"
)

// Repository persists the singleton progress record.
// Fetch returns repository.ErrNotFound when no record has been written yet.
type Repository interface {
	Fetch(ctx context.Context) (*Progress, error)
	Upsert(ctx context.Context, p *Progress) error
}

// ActivityLogger records progress mutations.
type ActivityLogger interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
