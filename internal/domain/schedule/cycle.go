package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the calendar date format used for start dates.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidTable indicates a schedule table that fails its consistency checks.
	ErrInvalidTable = errors.New("invalid schedule table")
	// ErrInvalidDate indicates a start date not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
)

// Cycle is the ordered schedule table plus the capsule supply on hand.
type Cycle struct {
	weeks  []Week
	supply map[Compound]int
	total  int
}

// New builds a cycle, assigning each week a contiguous block of days that
// starts right after the previous week's block.
func New(weeks []Week, supply map[Compound]int) *Cycle {
	c := &Cycle{
		weeks:  make([]Week, len(weeks)),
		supply: make(map[Compound]int, len(supply)),
	}
	day := 1
	for i, w := range weeks {
		w.StartDay = day
		w.EndDay = day + w.Days - 1
		day += w.Days
		c.weeks[i] = w
	}
	c.total = day - 1
	for k, v := range supply {
		c.supply[k] = v
	}
	return c
}

// Weeks returns a copy of the schedule rows.
func (c *Cycle) Weeks() []Week {
	out := make([]Week, len(c.weeks))
	copy(out, c.weeks)
	return out
}

// TotalDays is the length of the whole cycle.
func (c *Cycle) TotalDays() int {
	return c.total
}

// ValidDay reports whether day falls inside the cycle.
func (c *Cycle) ValidDay(day int) bool {
	return day >= 1 && day <= c.total
}

// WeekForDay returns the week containing day.
func (c *Cycle) WeekForDay(day int) (Week, bool) {
	for _, w := range c.weeks {
		if day >= w.StartDay && day <= w.EndDay {
			return w, true
		}
	}
	return Week{}, false
}

// DefaultCapsules returns the schedule-derived counts for day, or zeros
// when the day is outside the cycle.
func (c *Cycle) DefaultCapsules(day int) Capsules {
	w, ok := c.WeekForDay(day)
	if !ok {
		return Capsules{}
	}
	return w.Defaults()
}

// Supply returns the number of capsules on hand for a compound.
func (c *Cycle) Supply(compound Compound) int {
	return c.supply[compound]
}

// Validate checks that day ranges are gapless and that every printed dose
// label still leads with its default capsule count.
func (c *Cycle) Validate() error {
	next := 1
	for _, w := range c.weeks {
		if w.Days <= 0 {
			return fmt.Errorf("%w: week %d has no days", ErrInvalidTable, w.Number)
		}
		if w.StartDay != next {
			return fmt.Errorf("%w: week %d starts at day %d, want %d", ErrInvalidTable, w.Number, w.StartDay, next)
		}
		next = w.EndDay + 1
		for _, comp := range Compounds {
			dose, ok := w.Doses[comp]
			if !ok {
				return fmt.Errorf("%w: week %d missing %s dose", ErrInvalidTable, w.Number, comp)
			}
			if got := ParseLeadingCount(dose.Label()); got != dose.Default() {
				return fmt.Errorf("%w: week %d %s label %q reads as %d, want %d",
					ErrInvalidTable, w.Number, comp, dose.Label(), got, dose.Default())
			}
		}
	}
	if next-1 != c.total {
		return fmt.Errorf("%w: total %d does not match week sum %d", ErrInvalidTable, c.total, next-1)
	}
	return nil
}

var leadingInt = regexp.MustCompile(`\d+`)

// ParseLeadingCount returns the first integer token in a free-text label,
// or 0 when the label has no digits.
func ParseLeadingCount(label string) int {
	m := leadingInt.FindString(label)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// ParseDate parses a YYYY-MM-DD start date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DayDate returns the calendar date of a cycle day given the start date of day 1.
func DayDate(start string, day int) (time.Time, error) {
	base, err := ParseDate(start)
	if err != nil {
		return time.Time{}, err
	}
	return base.AddDate(0, 0, day-1), nil
}

// TableRow is a week with its printed labels resolved.
type TableRow struct {
	Week
	Labels   map[Compound]string `json:"labels"`
	Defaults Capsules            `json:"defaults"`
}

// Table is the serialisable form of a cycle.
type Table struct {
	TotalDays int              `json:"totalDays"`
	Supply    map[Compound]int `json:"supply"`
	Weeks     []TableRow       `json:"weeks"`
}

// Table returns the schedule as served to clients.
func (c *Cycle) Table() Table {
	t := Table{
		TotalDays: c.total,
		Supply:    make(map[Compound]int, len(c.supply)),
	}
	for k, v := range c.supply {
		t.Supply[k] = v
	}
	for _, w := range c.weeks {
		row := TableRow{Week: w, Labels: make(map[Compound]string, len(Compounds)), Defaults: w.Defaults()}
		for _, comp := range Compounds {
			row.Labels[comp] = w.Label(comp)
		}
		t.Weeks = append(t.Weeks, row)
	}
	return t
}
