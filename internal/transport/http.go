package transport

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rpggio/cycletrack/internal/domain/activity"
	"github.com/rpggio/cycletrack/internal/domain/progress"
)

// maxBodyBytes bounds request bodies; a full record is a few kilobytes.
const maxBodyBytes = 1 << 20

// Config wires the HTTP server.
type Config struct {
	Progress  *progress.Service
	Activity  *activity.Service
	Page      http.Handler
	MCP       http.Handler
	AuthToken string
	Logger    *slog.Logger
}

// Server holds the handlers.
type Server struct {
	progress *progress.Service
	activity *activity.Service
	logger   *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	act := cfg.Activity
	if act == nil {
		act = activity.NewService(nil, logger)
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	srv := &Server{progress: cfg.Progress, activity: act, logger: logger}

	r.Get("/health", srv.handleHealth)
	if cfg.Page != nil {
		r.Method(http.MethodGet, "/", cfg.Page)
	}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.AuthToken))

		r.Get("/progress", srv.handleGetProgress)
		r.Post("/progress", srv.handleReplaceProgress)
		r.Get("/progress/view", srv.handleView)
		r.Patch("/progress/days/{day}", srv.handleToggleDay)
		r.Put("/progress/days/{day}/capsules", srv.handleSetCapsules)
		r.Put("/progress/start-date", srv.handleSetStartDate)
		r.Get("/schedule", srv.handleSchedule)
		r.Get("/activity", srv.handleActivity)

		if cfg.MCP != nil {
			r.Handle("/mcp", cfg.MCP)
			r.Handle("/mcp/*", cfg.MCP)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.progress.Fetch(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleReplaceProgress(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body too large or unreadable")
		return
	}
	p, err := progress.Decode(s.progress.Cycle(), body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.progress.Replace(r.Context(), p); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	v, err := s.progress.View(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type toggleDayRequest struct {
	Checked *bool `json:"checked"`
}

func (s *Server) handleToggleDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	var req toggleDayRequest
	if err := decodeJSON(r, &req); err != nil || req.Checked == nil {
		writeError(w, http.StatusBadRequest, "body must be {\"checked\": true|false}")
		return
	}
	p, err := s.progress.ToggleDay(r.Context(), day, *req.Checked)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type setCapsulesRequest struct {
	Compound string `json:"compound"`
	Count    *int   `json:"count"`
}

func (s *Server) handleSetCapsules(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	var req setCapsulesRequest
	if err := decodeJSON(r, &req); err != nil || req.Count == nil {
		writeError(w, http.StatusBadRequest, "body must be {\"compound\": \"osta|rad|card\", \"count\": N}")
		return
	}
	p, err := s.progress.SetCapsules(r.Context(), day, req.Compound, *req.Count)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type setStartDateRequest struct {
	StartDate *string `json:"startDate"`
}

// handleSetStartDate clears the date when startDate is null or empty.
func (s *Server) handleSetStartDate(w http.ResponseWriter, r *http.Request) {
	var req setStartDateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "body must be {\"startDate\": \"YYYY-MM-DD\"|null}")
		return
	}
	date := ""
	if req.StartDate != nil {
		date = *req.StartDate
	}
	p, err := s.progress.SetStartDate(r.Context(), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSchedule(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.progress.Cycle().Table())
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	var opts activity.ListOptions
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		opts.Limit = n
	}
	if v := q.Get("day"); v != "" {
		day, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "day must be an integer")
			return
		}
		opts.Day = &day
	}
	if v := q.Get("type"); v != "" {
		typ := activity.Type(v)
		opts.Type = &typ
	}

	entries, err := s.activity.Recent(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func dayParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "day must be an integer")
		return 0, false
	}
	return day, true
}

// fail maps domain errors to 400 and everything else to a logged 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, progress.ErrInvalidBody),
		errors.Is(err, progress.ErrInvalidDay),
		errors.Is(err, progress.ErrInvalidCompound),
		errors.Is(err, progress.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		requestID, _ := RequestIDFromContext(r.Context())
		s.logger.Error("request failed", "request_id", requestID, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
