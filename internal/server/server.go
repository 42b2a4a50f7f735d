// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /metrics
//	GET    /api/v1/placements
//	POST   /api/v1/placements
//	GET    /api/v1/tenants
//	GET    /api/v1/tenants/{tenant}/layout
//	GET    /api/v1/tenants/{tenant}/splash.{format}
//	PUT    /api/v1/tenants/{tenant}/pin
//	DELETE /api/v1/tenants/{tenant}/pin
//
// Errors are JSON documents of the form {"error": {"code", "message"}} with
// the status derived from the error code.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/apecglobal/logofield/internal/config"
	"github.com/apecglobal/logofield/pkg/observability/prom"
	"github.com/apecglobal/logofield/pkg/pipeline"
)

const (
	requestTimeout    = 60 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server serves splash layouts for the configured tenants.
type Server struct {
	cfg      *config.Config
	runner   *pipeline.Runner
	metrics  *prom.Metrics
	logger   *log.Logger
	validate *validator.Validate
}

// New creates a server. metrics may be nil, which disables /metrics and
// request instrumentation.
func New(cfg *config.Config, runner *pipeline.Runner, metrics *prom.Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:      cfg,
		runner:   runner,
		metrics:  metrics,
		logger:   logger,
		validate: validator.New(),
	}
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errRouteNotFound)
	})
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/placements", s.handlePlacementsQuery)
		r.Post("/placements", s.handlePlacementsBody)
		r.Get("/tenants", s.handleTenants)
		r.Route("/tenants/{tenant}", func(r chi.Router) {
			r.Get("/layout", s.handleLayout)
			r.Get("/splash.{format}", s.handleSplash)
			r.Put("/pin", s.handlePin)
			r.Delete("/pin", s.handleUnpin)
		})
	})
	return r
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then drains in-flight requests for up to the shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String(), "tenants", len(s.cfg.Tenants))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.Server.ShutdownTimeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s.logger.Info("shutting down", "timeout", timeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
