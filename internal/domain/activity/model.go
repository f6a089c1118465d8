package activity

import "time"

// Type is the kind of change an entry records.
type Type string

const (
	TypeDayChecked       Type = "day_checked"
	TypeDayUnchecked     Type = "day_unchecked"
	TypeCapsulesChanged  Type = "capsules_changed"
	TypeStartDateSet     Type = "start_date_set"
	TypeStartDateCleared Type = "start_date_cleared"
	TypeProgressReplaced Type = "progress_replaced"
)

// Entry is one change to the tracked progress.
type Entry struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Day       int       `json:"day,omitempty"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
