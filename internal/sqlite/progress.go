package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/repository"
)

// singletonID keys the only progress row.
const singletonID = "singleton"

// ProgressRepository implements progress.Repository for SQLite
type ProgressRepository struct {
	db *DB
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Fetch returns the stored record or repository.ErrNotFound.
func (r *ProgressRepository) Fetch(ctx context.Context) (*progress.Progress, error) {
	query := `
		SELECT checked_days, daily_capsules, start_date, updated_at
		FROM progress
		WHERE id = ?
	`

	var checked, capsules string
	var startDate sql.NullString
	var updatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, singletonID).Scan(&checked, &capsules, &startDate, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	p := progress.Empty()
	if err := json.Unmarshal([]byte(checked), &p.CheckedDays); err != nil {
		return nil, fmt.Errorf("failed to decode checked days: %w", err)
	}
	if err := json.Unmarshal([]byte(capsules), &p.DailyCapsules); err != nil {
		return nil, fmt.Errorf("failed to decode daily capsules: %w", err)
	}
	if startDate.Valid {
		p.StartDate = startDate.String
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}

	return p.Normalize(), nil
}

// Upsert replaces the stored record, creating the row on first write.
func (r *ProgressRepository) Upsert(ctx context.Context, p *progress.Progress) error {
	p.Normalize()

	checked, err := json.Marshal(p.CheckedDays)
	if err != nil {
		return fmt.Errorf("failed to encode checked days: %w", err)
	}
	capsules, err := json.Marshal(p.DailyCapsules)
	if err != nil {
		return fmt.Errorf("failed to encode daily capsules: %w", err)
	}

	var startDate sql.NullString
	if p.StartDate != "" {
		startDate = sql.NullString{String: p.StartDate, Valid: true}
	}

	query := `
		INSERT INTO progress (id, checked_days, daily_capsules, start_date, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			checked_days = excluded.checked_days,
			daily_capsules = excluded.daily_capsules,
			start_date = excluded.start_date,
			updated_at = excluded.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		singletonID,
		string(checked),
		string(capsules),
		startDate,
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}

	return nil
}
