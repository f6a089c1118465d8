package progress_test

import (
	"testing"

	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/domain/schedule"
	"github.com/stretchr/testify/require"
)

func TestDecode_FullBody(t *testing.T) {
	body := `{
		"checkedDays": {"1": true, "2": false},
		"dailyCapsules": {"1": {"osta": 1, "rad": 2, "card": 0}},
		"startDate": "2026-03-14"
	}`
	p, err := progress.Decode(schedule.Default(), []byte(body))
	require.NoError(t, err)
	require.Equal(t, map[int]bool{1: true, 2: false}, p.CheckedDays)
	require.Equal(t, map[int]progress.Capsules{1: {Osta: 1, Rad: 2, Card: 0}}, p.DailyCapsules)
	require.Equal(t, "2026-03-14", p.StartDate)
}

func TestDecode_NonObjectFieldsBecomeEmpty(t *testing.T) {
	tests := []string{
		`{"checkedDays": "not-an-object", "dailyCapsules": [1, 2]}`,
		`{"checkedDays": null, "dailyCapsules": 7}`,
		`{}`,
	}
	for _, body := range tests {
		p, err := progress.Decode(schedule.Default(), []byte(body))
		require.NoError(t, err, body)
		require.NotNil(t, p.CheckedDays)
		require.Empty(t, p.CheckedDays, body)
		require.NotNil(t, p.DailyCapsules)
		require.Empty(t, p.DailyCapsules, body)
	}
}

func TestDecode_NonStringStartDateIsAbsent(t *testing.T) {
	for _, body := range []string{
		`{"startDate": 20260314}`,
		`{"startDate": null}`,
		`{"startDate": {"y": 2026}}`,
	} {
		p, err := progress.Decode(schedule.Default(), []byte(body))
		require.NoError(t, err)
		require.Empty(t, p.StartDate, body)
	}
}

func TestDecode_DropsEntriesOutsideCycle(t *testing.T) {
	body := `{
		"checkedDays": {"0": true, "64": true, "abc": true, "5": "yes", "6": true},
		"dailyCapsules": {"-1": {"osta": 1}, "70": {"osta": 1}, "7": "x"}
	}`
	p, err := progress.Decode(schedule.Default(), []byte(body))
	require.NoError(t, err)
	require.Equal(t, map[int]bool{6: true}, p.CheckedDays)
	require.Empty(t, p.DailyCapsules)
}

func TestDecode_CapsuleCountersDefaultAndClamp(t *testing.T) {
	body := `{"dailyCapsules": {"29": {"osta": -3, "card": "two"}}}`
	p, err := progress.Decode(schedule.Default(), []byte(body))
	require.NoError(t, err)
	// rad and card fall back to the week 5 defaults
	require.Equal(t, progress.Capsules{Osta: 0, Rad: 2, Card: 1}, p.DailyCapsules[29])

	// out-of-range and fractional counters fall back like non-numbers
	body = `{"dailyCapsules": {"1": {"osta": 1e20, "rad": 2.9, "card": 1}, "2": {"osta": -1e20, "rad": 1000, "card": 1001}}}`
	p, err = progress.Decode(schedule.Default(), []byte(body))
	require.NoError(t, err)
	require.Equal(t, progress.Capsules{Osta: 1, Rad: 1, Card: 1}, p.DailyCapsules[1])
	require.Equal(t, progress.Capsules{Osta: 0, Rad: 1000, Card: 1}, p.DailyCapsules[2])
	require.GreaterOrEqual(t, p.Remaining(schedule.Default()).Osta, 0)
}

func TestDecode_RejectsNonObjectBody(t *testing.T) {
	for _, body := range []string{`[]`, `"x"`, `null`, `{`, ``} {
		_, err := progress.Decode(schedule.Default(), []byte(body))
		require.ErrorIs(t, err, progress.ErrInvalidBody, body)
	}
}
