package schedule

import (
	"fmt"
	"strconv"
)

// Compound identifies one of the capsule compounds tracked per day.
type Compound string

const (
	Osta Compound = "osta"
	Rad  Compound = "rad"
	Card Compound = "card"
)

// Compounds lists the tracked compounds in display order.
var Compounds = []Compound{Osta, Rad, Card}

// ParseCompound validates a compound key.
func ParseCompound(s string) (Compound, bool) {
	switch Compound(s) {
	case Osta, Rad, Card:
		return Compound(s), true
	}
	return "", false
}

// Name returns the display name of the compound.
func (c Compound) Name() string {
	switch c {
	case Osta:
		return "Ostarine"
	case Rad:
		return "RAD-140"
	case Card:
		return "Cardarine"
	}
	return string(c)
}

// Short is the abbreviation used on day cards.
func (c Compound) Short() string {
	switch c {
	case Osta:
		return "Osta"
	case Rad:
		return "RAD"
	case Card:
		return "Card"
	}
	return string(c)
}

// Phase is the intensity band a week belongs to.
type Phase string

const (
	PhaseTolerance Phase = "Tolerance Check"
	PhaseRampUp    Phase = "Ramp Up"
	PhasePeak      Phase = "Peak Phase"
	PhaseTaper     Phase = "Taper"
)

// Dose is a daily capsule dose. Max equals Min unless the week allows a range.
type Dose struct {
	Min      int     `json:"min"`
	Max      int     `json:"max"`
	PerCapMg float64 `json:"perCapMg"`
}

// Default is the capsule count assumed for a day with no recorded value.
func (d Dose) Default() int {
	return d.Min
}

// Label renders the dose the way it is printed on the schedule, e.g. "2 caps (30mg)".
func (d Dose) Label() string {
	hi := d.Max
	if hi < d.Min {
		hi = d.Min
	}
	unit := "caps"
	if hi == 1 {
		unit = "cap"
	}
	if hi == d.Min {
		return fmt.Sprintf("%d %s (%smg)", d.Min, unit, mg(float64(d.Min)*d.PerCapMg))
	}
	return fmt.Sprintf("%d-%d %s (%s-%smg)", d.Min, hi, unit,
		mg(float64(d.Min)*d.PerCapMg), mg(float64(hi)*d.PerCapMg))
}

// Amount is a non-capsule supplement dose range, e.g. 300-500mcg.
type Amount struct {
	Low  int    `json:"low"`
	High int    `json:"high"`
	Unit string `json:"unit"`
}

func (a Amount) Label() string {
	if a.High <= a.Low {
		return fmt.Sprintf("%d%s", a.Low, a.Unit)
	}
	return fmt.Sprintf("%d-%d%s", a.Low, a.High, a.Unit)
}

// Capsules holds one counter per compound.
type Capsules struct {
	Osta int `json:"osta"`
	Rad  int `json:"rad"`
	Card int `json:"card"`
}

// Get returns the counter for c.
func (c Capsules) Get(compound Compound) int {
	switch compound {
	case Osta:
		return c.Osta
	case Rad:
		return c.Rad
	case Card:
		return c.Card
	}
	return 0
}

// Set returns a copy with the counter for compound replaced.
func (c Capsules) Set(compound Compound, n int) Capsules {
	switch compound {
	case Osta:
		c.Osta = n
	case Rad:
		c.Rad = n
	case Card:
		c.Card = n
	}
	return c
}

// Week is one row of the schedule table.
type Week struct {
	Number   int               `json:"week"`
	Days     int               `json:"days"`
	Phase    Phase             `json:"intensity"`
	Doses    map[Compound]Dose `json:"doses"`
	Selank   Amount            `json:"selank"`
	NAC      Amount            `json:"nac"`
	StartDay int               `json:"startDay"`
	EndDay   int               `json:"endDay"`
}

// DayNumbers lists the cycle days covered by the week.
func (w Week) DayNumbers() []int {
	days := make([]int, 0, w.Days)
	for d := w.StartDay; d <= w.EndDay; d++ {
		days = append(days, d)
	}
	return days
}

// Label returns the printed dose label for a compound.
func (w Week) Label(c Compound) string {
	return w.Doses[c].Label()
}

// Defaults returns the per-day capsule defaults for the week.
func (w Week) Defaults() Capsules {
	var caps Capsules
	for _, c := range Compounds {
		caps = caps.Set(c, w.Doses[c].Default())
	}
	return caps
}

func mg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
