package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/cycletrack/internal/domain/activity"
	"github.com/rpggio/cycletrack/internal/domain/schedule"
	"github.com/rpggio/cycletrack/internal/repository"
)

// Service handles progress operations.
type Service struct {
	repo     Repository
	cycle    *schedule.Cycle
	activity ActivityLogger
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates a new progress service.
func NewService(repo Repository, cycle *schedule.Cycle, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		cycle:  cycle,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cycle returns the schedule the service merges against.
func (s *Service) Cycle() *schedule.Cycle {
	return s.cycle
}

// Fetch returns the stored record, or an empty one if nothing was written yet.
func (s *Service) Fetch(ctx context.Context) (*Progress, error) {
	p, err := s.repo.Fetch(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching progress: %w", err)
	}
	return p.Normalize(), nil
}

// Replace overwrites the whole record and stamps a fresh write time.
func (s *Service) Replace(ctx context.Context, p *Progress) error {
	if p == nil {
		return ErrInvalidBody
	}
	rec := p.Clone().Normalize()
	rec.UpdatedAt = s.now().UTC()
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("replacing progress: %w", err)
	}
	s.record(ctx, &activity.Entry{
		Type:    activity.TypeProgressReplaced,
		Summary: fmt.Sprintf("replaced progress: %d days complete", rec.CompletedDays()),
	})
	return nil
}

// ToggleDay marks a day complete or incomplete.
func (s *Service) ToggleDay(ctx context.Context, day int, checked bool) (*Progress, error) {
	if !s.cycle.ValidDay(day) {
		return nil, ErrInvalidDay
	}
	p, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	hadStart := p.StartDate
	p.Toggle(day, checked, s.now())
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}

	entry := &activity.Entry{Type: activity.TypeDayUnchecked, Day: day, Summary: fmt.Sprintf("day %d marked incomplete", day)}
	if checked {
		entry = &activity.Entry{Type: activity.TypeDayChecked, Day: day, Summary: fmt.Sprintf("day %d marked complete", day)}
	}
	s.record(ctx, entry)
	switch {
	case hadStart == "" && p.StartDate != "":
		s.record(ctx, &activity.Entry{Type: activity.TypeStartDateSet, Day: day, Summary: "cycle started " + p.StartDate})
	case hadStart != "" && p.StartDate == "":
		s.record(ctx, &activity.Entry{Type: activity.TypeStartDateCleared, Day: day, Summary: "start date cleared"})
	}
	return p, nil
}

// SetCapsules records how many capsules of one compound were used on a day.
func (s *Service) SetCapsules(ctx context.Context, day int, compound string, count int) (*Progress, error) {
	if !s.cycle.ValidDay(day) {
		return nil, ErrInvalidDay
	}
	c, ok := schedule.ParseCompound(compound)
	if !ok {
		return nil, ErrInvalidCompound
	}
	p, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	p.SetCapsules(day, c, count, s.cycle.DefaultCapsules(day))
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	s.record(ctx, &activity.Entry{
		Type:    activity.TypeCapsulesChanged,
		Day:     day,
		Summary: fmt.Sprintf("day %d %s set to %d", day, c, p.DailyCapsules[day].Get(c)),
	})
	return p, nil
}

// SetStartDate sets the date of day 1. An empty date clears it.
func (s *Service) SetStartDate(ctx context.Context, date string) (*Progress, error) {
	if date != "" {
		if _, err := schedule.ParseDate(date); err != nil {
			return nil, ErrInvalidDate
		}
	}
	p, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	p.StartDate = date
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	if date == "" {
		s.record(ctx, &activity.Entry{Type: activity.TypeStartDateCleared, Summary: "start date cleared"})
	} else {
		s.record(ctx, &activity.Entry{Type: activity.TypeStartDateSet, Summary: "start date set to " + date})
	}
	return p, nil
}

// View returns the merged per-day view of the current record.
func (s *Service) View(ctx context.Context) (*View, error) {
	p, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return BuildView(s.cycle, p), nil
}

func (s *Service) save(ctx context.Context, p *Progress) error {
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("saving progress: %w", err)
	}
	return nil
}

func (s *Service) record(ctx context.Context, entry *activity.Entry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Log(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("activity log failed", "type", entry.Type, "error", err)
	}
}
