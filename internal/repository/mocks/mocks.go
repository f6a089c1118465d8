package mocks

import (
	"context"

	"github.com/rpggio/cycletrack/internal/domain/activity"
	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/stretchr/testify/mock"
)

// ProgressRepository is a mock for progress.Repository.
type ProgressRepository struct {
	mock.Mock
}

func (m *ProgressRepository) Fetch(ctx context.Context) (*progress.Progress, error) {
	args := m.Called(ctx)
	if p, ok := args.Get(0).(*progress.Progress); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressRepository) Upsert(ctx context.Context, p *progress.Progress) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
