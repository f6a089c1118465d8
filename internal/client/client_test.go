package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/cycletrack/internal/client"
	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/testserver"
)

func TestClient_Workflow(t *testing.T) {
	ts := testserver.New(t, "tok")
	c := client.New(ts.Server.URL+"/", "tok")
	ctx := context.Background()

	p, err := c.Progress(ctx)
	require.NoError(t, err)
	require.Empty(t, p.CheckedDays)

	p, err = c.ToggleDay(ctx, 2, true)
	require.NoError(t, err)
	require.True(t, p.CheckedDays[2])
	require.Equal(t, "2026-03-14", p.StartDate)

	p, err = c.SetCapsules(ctx, 2, "osta", 0)
	require.NoError(t, err)
	require.Equal(t, progress.Capsules{Osta: 0, Rad: 1, Card: 1}, p.DailyCapsules[2])

	p, err = c.SetStartDate(ctx, "")
	require.NoError(t, err)
	require.Empty(t, p.StartDate)

	v, err := c.View(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, v.Completed)

	table, err := c.Schedule(ctx)
	require.NoError(t, err)
	require.Len(t, table.Weeks, 9)

	entries, err := c.Activity(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestClient_Replace(t *testing.T) {
	ts := testserver.New(t, "")
	c := client.New(ts.Server.URL, "")
	ctx := context.Background()

	in := progress.Empty()
	in.CheckedDays[10] = true
	in.StartDate = "2026-01-01"
	require.NoError(t, c.Replace(ctx, in))

	p, err := c.Progress(ctx)
	require.NoError(t, err)
	require.Equal(t, in.CheckedDays, p.CheckedDays)
	require.Equal(t, "2026-01-01", p.StartDate)
}

func TestClient_Errors(t *testing.T) {
	ts := testserver.New(t, "tok")
	ctx := context.Background()

	_, err := client.New(ts.Server.URL, "wrong").Progress(ctx)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, err = client.New(ts.Server.URL, "tok").ToggleDay(ctx, 99, true)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Contains(t, apiErr.Message, "day")
}
