package web

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/domain/schedule"
	"github.com/rpggio/cycletrack/internal/repository"
	"github.com/rpggio/cycletrack/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRender_NoStartDate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, progress.BuildView(schedule.Default(), progress.Empty())))

	html := buf.String()
	require.Contains(t, html, progress.NoStartDateLabel)
	require.Contains(t, html, "Week 9 (Days 57-63)")
	require.Contains(t, html, "0 of 63 days complete")
	require.Contains(t, html, "Remaining: -3")
}

func TestRender_CheckedDayWithDate(t *testing.T) {
	p := progress.Empty()
	p.StartDate = "2026-03-14"
	p.CheckedDays[1] = true

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, progress.BuildView(schedule.Default(), p)))

	html := buf.String()
	require.Contains(t, html, "Mar 14, 2026")
	require.Contains(t, html, `data-day="1" class="toggle" checked`)
	require.Contains(t, html, `value="2026-03-14"`)
}

func TestHandler_StoreFailure(t *testing.T) {
	repo := &mocks.ProgressRepository{}
	repo.On("Fetch", mock.Anything).Return(nil, context.DeadlineExceeded)

	h := NewHandler(progress.NewService(repo, schedule.Default(), nil), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_Renders(t *testing.T) {
	repo := &mocks.ProgressRepository{}
	repo.On("Fetch", mock.Anything).Return(nil, repository.ErrNotFound)

	h := NewHandler(progress.NewService(repo, schedule.Default(), nil), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "9-Week Cycle Calendar")
}
