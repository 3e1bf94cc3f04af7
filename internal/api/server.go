// Package api serves the schedule over HTTP: the JSON snapshot, per-item
// assignment writes and the rendered SVG.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/javiermolinar/congrid/internal/metrics"
	"github.com/javiermolinar/congrid/internal/render"
	"github.com/javiermolinar/congrid/internal/schedule"
)

// Store is the backing store the server reads from and writes to.
type Store interface {
	LoadSnapshot(ctx context.Context) (*schedule.Snapshot, error)
	SaveAssignment(ctx context.Context, a schedule.Assignment) error
}

// Options configures the server.
type Options struct {
	// Token guards mutating endpoints. Empty disables the check.
	Token string
	// DefaultWidth is the SVG canvas width used when a request sets none.
	DefaultWidth float64
	Version      string
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(logger *slog.Logger, store Store, renderer *render.Renderer, opts Options) http.Handler {
	mux := chi.NewRouter()

	mux.Use(RequestID)
	mux.Use(Logging(logger))
	mux.Use(Recovery(logger))
	mux.Use(metrics.Metrics)
	mux.Use(BearerToken(opts.Token))

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	api := humachi.New(mux, huma.DefaultConfig("congrid", version))

	h := NewScheduleHandler(store, renderer, opts.DefaultWidth, logger)
	registerScheduleRoutes(api, h)

	mux.Get("/v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
