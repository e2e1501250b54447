// Package server exposes the dashboard views over HTTP. Every request
// re-runs the pipeline, so edits to the exports show up on reload.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/pipeline"
	"github.com/dtnitsch/eventscope/pkg/tags"
	"github.com/dtnitsch/eventscope/pkg/views"
)

// Runner computes a dashboard for a selection.
type Runner interface {
	Run(ctx context.Context, sel models.Selection) (*models.Dashboard, error)
	Mapping() *tags.Mapping
}

var _ Runner = (*pipeline.Pipeline)(nil)

// Server serves the JSON views.
type Server struct {
	runner   Runner
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	origins  map[string]struct{}
}

// New creates a server. gatherer may be nil to disable /metrics.
func New(runner Runner, logger *slog.Logger, gatherer prometheus.Gatherer, allowedOrigins []string) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &Server{runner: runner, logger: logger, gatherer: gatherer, origins: origins}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Use(s.cors)

	r.Get("/", rootHandler)
	r.Route("/api", func(r chi.Router) {
		r.Get("/options", s.handleOptions)
		r.Get("/{view}", s.handleView)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Response{
		View: "options",
		Data: views.BuildOptions(s.runner.Mapping()),
	})
}

// handleView serves /api/{view}; view is dashboard, map, frequency,
// duration or venues. Selectors come from source, tag and freq.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	view := chi.URLParam(r, "view")
	if !isKnownView(view) {
		writeJSON(w, http.StatusNotFound, models.NewUnknownViewResponse(view))
		return
	}

	q := r.URL.Query()
	sel, err := views.ParseSelection(q.Get("source"), q.Get("tag"), q.Get("freq"), s.runner.Mapping())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(view, "invalid_selection", err.Error(),
			"GET /api/options lists the accepted values"))
		return
	}

	dash, err := s.runner.Run(r.Context(), sel)
	if err != nil {
		s.logger.Error("pipeline run failed", "view", view, "error", err)
		errType := "pipeline_error"
		if errors.Is(err, fs.ErrNotExist) {
			errType = "missing_export"
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(view, errType, err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, models.Response{View: view, Data: ViewData(dash, view)})
}

// ViewData picks the part of a dashboard a view returns.
func ViewData(dash *models.Dashboard, view string) interface{} {
	switch view {
	case "map":
		return dash.Points
	case "frequency":
		return dash.Frequency
	case "duration":
		return dash.Durations
	case "venues":
		return dash.Venues
	default:
		return dash
	}
}

func isKnownView(view string) bool {
	switch view {
	case "dashboard", "map", "frequency", "duration", "venues":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // client went away; nothing to report
}
