package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/congrid/internal/api"
	"github.com/javiermolinar/congrid/internal/config"
	"github.com/javiermolinar/congrid/internal/layout"
	"github.com/javiermolinar/congrid/internal/metrics"
	"github.com/javiermolinar/congrid/internal/render"
)

const shutdownTimeout = 10 * time.Second

func (a *App) serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schedule over HTTP",
		Long: `Serve the local database over HTTP.

Routes:
  GET  /v1/schedule          schedule snapshot as JSON
  POST /v1/schedule/items    save one game's assignment
  GET  /v1/schedule.svg      rendered grid, ?width=N
  GET  /v1/health            liveness
  GET  /metrics              Prometheus metrics

Writes require "Authorization: Bearer <token>" when server.token is set.`,
		Example: `  congrid serve
  congrid serve --listen :9000`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if listen != "" {
				a.config.Server.Listen = listen
			}
			store, err := a.ensureStore()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := newLogger(os.Stdout, a.config.Server.LogLevel)
			return runServer(ctx, newHTTPServer(a.config, store, logger), logger)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (default from config)")

	return cmd
}

// newLogger returns a JSON logger at the configured level.
func newLogger(w io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

func newHTTPServer(cfg *config.Config, store api.Store, logger *slog.Logger) *http.Server {
	renderer := render.New(cfg.LayoutConfig(),
		render.WithMeasurer(layout.NewRuneMeasurer(cfg.Layout.GlyphAdvance)),
		render.WithObserver(metrics.Render{}),
	)
	handler := api.NewServer(logger, store, renderer, api.Options{
		Token:        cfg.Server.Token,
		DefaultWidth: cfg.CanvasWidth(),
		Version:      Version,
	})
	return &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
