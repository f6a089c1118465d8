package progress

import (
	"github.com/rpggio/cycletrack/internal/domain/schedule"
)

// NoStartDateLabel is shown in place of a calendar date before the cycle starts.
const NoStartDateLabel = "Set start date"

// DayView is one day card with persisted state merged over schedule defaults.
type DayView struct {
	Day       int      `json:"day"`
	DateLabel string   `json:"dateLabel"`
	Checked   bool     `json:"checked"`
	Capsules  Capsules `json:"capsules"`
}

// DoseLabel pairs a compound with its printed dose.
type DoseLabel struct {
	Compound schedule.Compound `json:"compound"`
	Name     string            `json:"name"`
	Short    string            `json:"short"`
	Label    string            `json:"label"`
}

// WeekView is a schedule row with its day cards.
type WeekView struct {
	Number   int            `json:"week"`
	Phase    schedule.Phase `json:"intensity"`
	StartDay int            `json:"startDay"`
	EndDay   int            `json:"endDay"`
	Doses    []DoseLabel    `json:"doses"`
	Selank   string         `json:"selank"`
	NAC      string         `json:"nac"`
	Days     []DayView      `json:"days"`
}

// SupplyView is the supply and remaining count of one compound.
type SupplyView struct {
	Compound  schedule.Compound `json:"compound"`
	Name      string            `json:"name"`
	Supply    int               `json:"supply"`
	Remaining int               `json:"remaining"`
}

// View is the fully merged state rendered by the page, CLI and MCP tools.
type View struct {
	StartDate string       `json:"startDate,omitempty"`
	TotalDays int          `json:"totalDays"`
	Completed int          `json:"completed"`
	Supply    []SupplyView `json:"supply"`
	Weeks     []WeekView   `json:"weeks"`
}

// BuildView merges p over the cycle's defaults.
func BuildView(cycle *schedule.Cycle, p *Progress) *View {
	remaining := p.Remaining(cycle)
	v := &View{
		StartDate: p.StartDate,
		TotalDays: cycle.TotalDays(),
		Completed: p.CompletedDays(),
	}
	for _, c := range schedule.Compounds {
		v.Supply = append(v.Supply, SupplyView{
			Compound:  c,
			Name:      c.Name(),
			Supply:    cycle.Supply(c),
			Remaining: remaining.Get(c),
		})
	}

	for _, w := range cycle.Weeks() {
		wv := WeekView{
			Number:   w.Number,
			Phase:    w.Phase,
			StartDay: w.StartDay,
			EndDay:   w.EndDay,
			Selank:   w.Selank.Label(),
			NAC:      w.NAC.Label(),
		}
		for _, c := range []schedule.Compound{schedule.Osta, schedule.Card, schedule.Rad} {
			wv.Doses = append(wv.Doses, DoseLabel{
				Compound: c,
				Name:     c.Name(),
				Short:    c.Short(),
				Label:    w.Label(c),
			})
		}
		for _, day := range w.DayNumbers() {
			wv.Days = append(wv.Days, DayView{
				Day:       day,
				DateLabel: dateLabel(p.StartDate, day),
				Checked:   p.CheckedDays[day],
				Capsules:  p.EffectiveCapsules(cycle, day),
			})
		}
		v.Weeks = append(v.Weeks, wv)
	}
	return v
}

func dateLabel(start string, day int) string {
	if start == "" {
		return NoStartDateLabel
	}
	d, err := schedule.DayDate(start, day)
	if err != nil {
		return NoStartDateLabel
	}
	return d.Format("Jan 2, 2006")
}
