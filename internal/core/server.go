// Package core provides the API chassis for the fmrwatch service. It creates
// the chi router and enforces cross-cutting concerns -- recovery, logging,
// observability, and error handling -- before requests reach domain-specific
// handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fmrwatch/internal/config"
)

// MetricsCollector defines the interface for recording API telemetry.
// Implementations record request latency and count metrics to CloudWatch or
// equivalent backends.
type MetricsCollector interface {
	RecordRequest(method, endpoint, status string, duration time.Duration)
}

// RouteRegistrar mounts a handler group onto the versioned router. Populated
// by the application entry point to avoid import cycles between core and
// handler packages.
type RouteRegistrar func(r chi.Router)

// Server encapsulates the chassis dependencies for the fmrwatch API, allowing
// for easy injection during testing and distinct configuration for different
// environments.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator
	Metrics   MetricsCollector

	// HealthProbes are checked concurrently by GET /health.
	HealthProbes []HealthProbe

	// V1RouteRegistrars are mounted under /v1 by MountRoutes.
	V1RouteRegistrars []RouteRegistrar

	// closers are shut down in order during Shutdown.
	closers []func() error

	router *chi.Mux
}

// NewServer initializes dependencies, sets up the router, and prepares the
// server for route mounting. The caller is responsible for mounting routes
// (via MountRoutes) after registering handlers.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(logger),
		Metrics:   NoopMetrics{},
		router:    chi.NewRouter(),
	}, nil
}

// Handler returns the http.Handler interface for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration in tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// AddCloser registers a resource to release during Shutdown (e.g. the
// database pool).
func (s *Server) AddCloser(fn func() error) {
	s.closers = append(s.closers, fn)
}

// Shutdown performs a graceful termination of server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")

	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			s.Logger.Error("error releasing server resource", "error", err)
			return fmt.Errorf("releasing server resource: %w", err)
		}
	}

	s.Logger.Info("server shutdown complete")
	return nil
}

// NoopMetrics is the default MetricsCollector; it records nothing.
type NoopMetrics struct{}

// RecordRequest implements MetricsCollector.
func (NoopMetrics) RecordRequest(_, _, _ string, _ time.Duration) {}
