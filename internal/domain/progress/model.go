package progress

import (
	"time"

	"github.com/rpggio/cycletrack/internal/domain/schedule"
)

// Capsules is the per-day capsule usage for the tracked compounds.
type Capsules = schedule.Capsules

// Progress is the singleton tracked state. Absent start date is the empty string.
type Progress struct {
	CheckedDays   map[int]bool     `json:"checkedDays"`
	DailyCapsules map[int]Capsules `json:"dailyCapsules"`
	StartDate     string           `json:"startDate,omitempty"`
	UpdatedAt     time.Time        `json:"-"`
}

// Empty returns a record with empty maps and no start date.
func Empty() *Progress {
	return &Progress{
		CheckedDays:   map[int]bool{},
		DailyCapsules: map[int]Capsules{},
	}
}

// Normalize replaces nil maps with empty ones.
func (p *Progress) Normalize() *Progress {
	if p.CheckedDays == nil {
		p.CheckedDays = map[int]bool{}
	}
	if p.DailyCapsules == nil {
		p.DailyCapsules = map[int]Capsules{}
	}
	return p
}

// Clone returns a deep copy.
func (p *Progress) Clone() *Progress {
	out := &Progress{
		CheckedDays:   make(map[int]bool, len(p.CheckedDays)),
		DailyCapsules: make(map[int]Capsules, len(p.DailyCapsules)),
		StartDate:     p.StartDate,
		UpdatedAt:     p.UpdatedAt,
	}
	for k, v := range p.CheckedDays {
		out.CheckedDays[k] = v
	}
	for k, v := range p.DailyCapsules {
		out.DailyCapsules[k] = v
	}
	return out
}

// Toggle sets the completion flag for day. Completing any day while no start
// date is set starts the cycle today; un-completing day 1 clears the start
// date. No other toggle touches the start date.
func (p *Progress) Toggle(day int, checked bool, today time.Time) {
	p.Normalize()
	p.CheckedDays[day] = checked
	if checked && p.StartDate == "" {
		p.StartDate = today.Format(schedule.DateLayout)
	}
	if !checked && day == 1 {
		p.StartDate = ""
	}
}

// MaxCapsules bounds a single day's counter for one compound.
const MaxCapsules = 1000

// SetCapsules records a count for one compound on day, seeding the other
// counters from base when the day has no entry yet. Counts clamp to
// [0, MaxCapsules].
func (p *Progress) SetCapsules(day int, compound schedule.Compound, count int, base Capsules) {
	p.Normalize()
	count = max(0, min(count, MaxCapsules))
	caps, ok := p.DailyCapsules[day]
	if !ok {
		caps = base
	}
	p.DailyCapsules[day] = caps.Set(compound, count)
}

// EffectiveCapsules is the persisted value for day, else the schedule
// default for the containing week, else zero.
func (p *Progress) EffectiveCapsules(cycle *schedule.Cycle, day int) Capsules {
	if caps, ok := p.DailyCapsules[day]; ok {
		return caps
	}
	return cycle.DefaultCapsules(day)
}

// Remaining returns supply minus the effective usage over every cycle day.
func (p *Progress) Remaining(cycle *schedule.Cycle) Capsules {
	var used Capsules
	for day := 1; day <= cycle.TotalDays(); day++ {
		caps := p.EffectiveCapsules(cycle, day)
		used.Osta += caps.Osta
		used.Rad += caps.Rad
		used.Card += caps.Card
	}
	return Capsules{
		Osta: cycle.Supply(schedule.Osta) - used.Osta,
		Rad:  cycle.Supply(schedule.Rad) - used.Rad,
		Card: cycle.Supply(schedule.Card) - used.Card,
	}
}

// CompletedDays counts days marked complete.
func (p *Progress) CompletedDays() int {
	n := 0
	for _, done := range p.CheckedDays {
		if done {
			n++
		}
	}
	return n
}
