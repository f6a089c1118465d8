// Package localstore persists progress in a local key-value store. Reads and
// writes never fail the caller: problems are logged and treated as absence.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/domain/schedule"
	"github.com/rpggio/cycletrack/internal/repository"
)

// Key is the fixed storage key.
const Key = "cycle-progress-v1"

// Store reads and writes the progress snapshot under Key.
type Store struct {
	kv     KV
	cycle  *schedule.Cycle
	logger *slog.Logger
}

// NewStore creates a store. The cycle sanitises what is read back.
func NewStore(kv KV, cycle *schedule.Cycle, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{kv: kv, cycle: cycle, logger: logger}
}

// Load returns the stored snapshot, or false when it is missing or unreadable.
func (s *Store) Load(ctx context.Context) (*progress.Progress, bool) {
	data, err := s.kv.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("local progress read failed", "error", err)
		}
		return nil, false
	}
	p, err := progress.Decode(s.cycle, data)
	if err != nil {
		s.logger.Warn("local progress unreadable", "error", err)
		return nil, false
	}
	return p, true
}

// Save writes the snapshot. Failures are logged and dropped.
func (s *Store) Save(ctx context.Context, p *progress.Progress) {
	data, err := json.Marshal(p)
	if err != nil {
		s.logger.Warn("local progress encode failed", "error", err)
		return
	}
	if err := s.kv.Set(ctx, Key, data); err != nil {
		s.logger.Warn("local progress write failed", "error", err)
	}
}

// Fetch implements progress.Repository.
func (s *Store) Fetch(ctx context.Context) (*progress.Progress, error) {
	p, ok := s.Load(ctx)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

// Upsert implements progress.Repository and never fails.
func (s *Store) Upsert(ctx context.Context, p *progress.Progress) error {
	s.Save(ctx, p)
	return nil
}
