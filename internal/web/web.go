// Package web renders the tracker page.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/domain/schedule"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcMap = template.FuncMap{
	"pct": func(num, denom int) int {
		if denom == 0 {
			return 0
		}
		return num * 100 / denom
	},
	// phaseClass maps a phase to its colour class.
	"phaseClass": func(p schedule.Phase) string {
		switch p {
		case schedule.PhaseTolerance:
			return "phase-low"
		case schedule.PhaseRampUp:
			return "phase-medium"
		case schedule.PhasePeak:
			return "phase-high"
		default:
			return "phase-taper"
		}
	},
	"get": func(c progress.Capsules, compound schedule.Compound) int { return c.Get(compound) },
}

var pageTemplate = template.Must(template.New("page.html").Funcs(funcMap).ParseFS(templateFS, "templates/page.html"))

// PageData is what the page template renders.
type PageData struct {
	View      *progress.View
	Compounds []schedule.Compound
}

// Handler serves the page for the current progress.
type Handler struct {
	progress *progress.Service
	logger   *slog.Logger
}

// NewHandler creates a page handler.
func NewHandler(svc *progress.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{progress: svc, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v, err := h.progress.View(r.Context())
	if err != nil {
		h.logger.Error("failed to load progress for page", "error", err)
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, v); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Render writes the page for v.
func Render(w io.Writer, v *progress.View) error {
	return pageTemplate.Execute(w, PageData{View: v, Compounds: schedule.Compounds})
}
