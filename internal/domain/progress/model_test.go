package progress_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/domain/schedule"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)

func TestToggle_FirstCheckStartsCycle(t *testing.T) {
	p := progress.Empty()
	p.Toggle(5, true, today)

	require.True(t, p.CheckedDays[5])
	require.Equal(t, "2026-03-14", p.StartDate)
}

func TestToggle_ExistingStartDateKept(t *testing.T) {
	p := progress.Empty()
	p.StartDate = "2026-01-01"
	p.Toggle(2, true, today)

	require.Equal(t, "2026-01-01", p.StartDate)
}

func TestToggle_UncheckDayOneClearsStartDate(t *testing.T) {
	p := progress.Empty()
	p.Toggle(1, true, today)
	require.NotEmpty(t, p.StartDate)

	p.Toggle(1, false, today)
	require.False(t, p.CheckedDays[1])
	require.Empty(t, p.StartDate)
}

func TestToggle_OtherDaysNeverClearStartDate(t *testing.T) {
	for day := 2; day <= 63; day++ {
		p := progress.Empty()
		p.StartDate = "2026-01-01"
		p.Toggle(day, false, today)
		require.Equal(t, "2026-01-01", p.StartDate, "day %d", day)
		p.Toggle(day, true, today)
		require.Equal(t, "2026-01-01", p.StartDate, "day %d", day)
	}
}

func TestToggle_UncheckWithoutStartDate(t *testing.T) {
	p := progress.Empty()
	p.Toggle(4, false, today)
	require.Empty(t, p.StartDate)
	require.False(t, p.CheckedDays[4])
}

func TestEffectiveCapsules(t *testing.T) {
	cycle := schedule.Default()
	p := progress.Empty()
	p.DailyCapsules[22] = progress.Capsules{Osta: 0, Rad: 3, Card: 1}

	require.Equal(t, progress.Capsules{Osta: 0, Rad: 3, Card: 1}, p.EffectiveCapsules(cycle, 22))
	require.Equal(t, progress.Capsules{Osta: 2, Rad: 1, Card: 1}, p.EffectiveCapsules(cycle, 23))
	require.Equal(t, progress.Capsules{}, p.EffectiveCapsules(cycle, 99))
}

func TestSetCapsules_SeedsFromBaseAndClamps(t *testing.T) {
	cycle := schedule.Default()
	p := progress.Empty()

	p.SetCapsules(29, schedule.Rad, 5, cycle.DefaultCapsules(29))
	require.Equal(t, progress.Capsules{Osta: 2, Rad: 5, Card: 1}, p.DailyCapsules[29])

	p.SetCapsules(29, schedule.Osta, -4, cycle.DefaultCapsules(29))
	require.Equal(t, progress.Capsules{Osta: 0, Rad: 5, Card: 1}, p.DailyCapsules[29])

	p.SetCapsules(29, schedule.Card, 1<<40, cycle.DefaultCapsules(29))
	require.Equal(t, progress.MaxCapsules, p.DailyCapsules[29].Card)
}

func TestRemaining_DefaultSchedule(t *testing.T) {
	cycle := schedule.Default()
	p := progress.Empty()

	// osta: 21*1 + 21*2 + 7*1 + 14*1 = 84; rad: 28 + 14*2 + 21 = 77; card: 63
	remaining := p.Remaining(cycle)
	require.Equal(t, progress.Capsules{Osta: 16, Rad: 13, Card: -3}, remaining)

	p.DailyCapsules[1] = progress.Capsules{}
	require.Equal(t, progress.Capsules{Osta: 17, Rad: 14, Card: -2}, p.Remaining(cycle))
}

func TestJSONShape(t *testing.T) {
	p := progress.Empty()
	p.CheckedDays[1] = true
	p.DailyCapsules[1] = progress.Capsules{Osta: 1, Rad: 1, Card: 1}
	p.UpdatedAt = today

	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.JSONEq(t, `{"checkedDays":{"1":true},"dailyCapsules":{"1":{"osta":1,"rad":1,"card":1}}}`, string(data))

	p.StartDate = "2026-03-14"
	data, err = json.Marshal(p)
	require.NoError(t, err)
	require.Contains(t, string(data), `"startDate":"2026-03-14"`)
}

func TestClone_IsDeep(t *testing.T) {
	p := progress.Empty()
	p.CheckedDays[1] = true
	c := p.Clone()
	c.CheckedDays[1] = false
	c.CheckedDays[2] = true

	require.True(t, p.CheckedDays[1])
	require.NotContains(t, p.CheckedDays, 2)
}
