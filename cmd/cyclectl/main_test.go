package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/cycletrack/internal/client"
	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/testserver"
)

func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	ts := testserver.New(t, "secret")

	serverURL = ts.Server.URL
	authToken = "secret"
	jsonOutput = false
	timeout = 5 * time.Second
	activityLimit = 20
	t.Cleanup(func() {
		serverURL, authToken, jsonOutput = "", "", false
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetContext(context.Background())
	return &buf
}

func cmdWith(buf *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetContext(context.Background())
	return cmd
}

func TestCheckStartsCycle(t *testing.T) {
	buf := setup(t)
	cmd := cmdWith(buf)

	require.NoError(t, runCheck(cmd, []string{"3"}))
	require.Contains(t, buf.String(), "Day 3 marked complete (1 days done)")
	require.Contains(t, buf.String(), "Cycle started 2026-03-14")

	buf.Reset()
	require.NoError(t, runShow(cmd, nil))
	require.Contains(t, buf.String(), "Completed:  1/63 days")
	require.Contains(t, buf.String(), "Week 1  Tolerance Check  ..x....")
}

func TestUncheckDayOneClearsStart(t *testing.T) {
	buf := setup(t)
	cmd := cmdWith(buf)

	require.NoError(t, runCheck(cmd, []string{"1"}))
	buf.Reset()
	require.NoError(t, runUncheck(cmd, []string{"1"}))
	require.Equal(t, "Day 1 marked incomplete (0 days done)\n", buf.String())
}

func TestCaps(t *testing.T) {
	buf := setup(t)
	cmd := cmdWith(buf)

	require.NoError(t, runCaps(cmd, []string{"36", "RAD", "0"}))
	require.Equal(t, "Day 36: osta 2, rad 0, card 1\n", buf.String())

	require.ErrorContains(t, runCaps(cmd, []string{"36", "selank", "1"}), "unknown compound")
	require.ErrorContains(t, runCaps(cmd, []string{"x", "rad", "1"}), "day must be a number")
	require.ErrorContains(t, runCaps(cmd, []string{"36", "rad", "many"}), "count must be a number")
}

func TestStartDate(t *testing.T) {
	buf := setup(t)
	cmd := cmdWith(buf)

	require.NoError(t, runStartDate(cmd, []string{"2026-02-01"}))
	require.Equal(t, "Start date set to 2026-02-01\n", buf.String())

	buf.Reset()
	require.NoError(t, runStartDate(cmd, []string{"clear"}))
	require.Equal(t, "Start date cleared\n", buf.String())

	var apiErr *client.APIError
	require.ErrorAs(t, runStartDate(cmd, []string{"Feb 1"}), &apiErr)
}

func TestScheduleTable(t *testing.T) {
	buf := setup(t)
	require.NoError(t, runSchedule(cmdWith(buf), nil))

	out := buf.String()
	require.Contains(t, out, "WEEK")
	require.Contains(t, out, "Peak Phase")
	require.Contains(t, out, "300-500mcg")
}

func TestActivityAndJSON(t *testing.T) {
	buf := setup(t)
	cmd := cmdWith(buf)

	require.NoError(t, runActivity(cmd, nil))
	require.Equal(t, "No activity recorded\n", buf.String())

	require.NoError(t, runCheck(cmd, []string{"2"}))
	buf.Reset()
	require.NoError(t, runActivity(cmd, nil))
	require.Contains(t, buf.String(), "day_checked")

	jsonOutput = true
	buf.Reset()
	require.NoError(t, runCheck(cmd, []string{"4"}))
	var p progress.Progress
	require.NoError(t, json.Unmarshal(buf.Bytes(), &p))
	require.True(t, p.CheckedDays[2])
	require.True(t, p.CheckedDays[4])
}

func TestWrongToken(t *testing.T) {
	buf := setup(t)
	authToken = "nope"
	require.ErrorContains(t, runShow(cmdWith(buf), nil), "401")
}

func TestRootArgs(t *testing.T) {
	setup(t)
	rootCmd.SetArgs([]string{"check"})
	rootCmd.SetErr(&bytes.Buffer{})
	require.Error(t, rootCmd.Execute())
}

func TestExportImportRoundTrip(t *testing.T) {
	buf := setup(t)
	cmd := cmdWith(buf)

	require.NoError(t, runCheck(cmd, []string{"5"}))
	require.NoError(t, runCaps(cmd, []string{"5", "osta", "0"}))

	path := filepath.Join(t.TempDir(), "progress.json")
	buf.Reset()
	require.NoError(t, runExport(cmd, []string{path}))
	require.Equal(t, "Exported 1 checked days to "+path+"\n", buf.String())

	require.NoError(t, runUncheck(cmd, []string{"5"}))
	require.NoError(t, runStartDate(cmd, []string{"clear"}))

	buf.Reset()
	require.NoError(t, runImport(cmd, []string{path}))
	require.Equal(t, "Imported 1 checked days\n", buf.String())

	buf.Reset()
	require.NoError(t, runExport(cmd, nil))
	var p progress.Progress
	require.NoError(t, json.Unmarshal(buf.Bytes(), &p))
	require.True(t, p.CheckedDays[5])
	require.Equal(t, 0, p.DailyCapsules[5].Osta)
	require.Equal(t, "2026-03-14", p.StartDate)
}

func TestImportFromStdin(t *testing.T) {
	buf := setup(t)
	cmd := cmdWith(buf)
	cmd.SetIn(strings.NewReader(`{"checkedDays": "not-an-object", "dailyCapsules": {"2": {"osta": 2.9}}}`))

	require.NoError(t, runImport(cmd, []string{"-"}))
	require.Equal(t, "Imported 0 checked days\n", buf.String())

	cmd.SetIn(strings.NewReader(`[1, 2]`))
	require.ErrorIs(t, runImport(cmd, []string{"-"}), progress.ErrInvalidBody)

	require.ErrorIs(t, runImport(cmd, []string{filepath.Join(t.TempDir(), "missing.json")}), os.ErrNotExist)
}
