// Package observability hosts the Prometheus metrics and the admin HTTP
// server with the kubernetes probes. Scrape and probe traffic stays off the
// business listener so the API port can be locked down independently.
package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/projectteamwork/finrec/internal/config"
)

// Server serves the liveness, readiness and metrics endpoints.
type Server struct {
	logger   *slog.Logger
	cfg      *config.ObservabilityConfig
	httpSrv  *http.Server
	checkers []Checker
}

// NewServer builds the admin server. The checkers back the readiness probe;
// an empty set makes readiness a plain liveness check.
func NewServer(logger *slog.Logger, cfg *config.ObservabilityConfig, checkers ...Checker) *Server {
	s := &Server{
		logger:   logger,
		cfg:      cfg,
		checkers: checkers,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer, middleware.NoCache)
	r.Get(cfg.LivenessPath, s.liveness)
	r.Get(cfg.ReadinessPath, s.readiness)
	r.Method(http.MethodGet, cfg.MetricsPath, promhttp.Handler())

	s.httpSrv = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.Timeout * 3,
	}
	return s
}

// Start begins serving in a background goroutine and returns immediately.
func (s *Server) Start() {
	go func() {
		s.logger.Info("observability server listening",
			slog.String("addr", s.httpSrv.Addr),
			slog.String("metrics_path", s.cfg.MetricsPath),
		)
		err := s.httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("observability server failed", slog.String("error", err.Error()))
		}
	}()
}

// Shutdown drains in-flight probe and scrape requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("stopping observability server")
	return s.httpSrv.Shutdown(ctx)
}
