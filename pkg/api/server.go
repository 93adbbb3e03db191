// Package api serves the layout pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/layout     run a layout and render artifacts
//	POST /v1/check      report overlapping pairs without moving anything
//	GET  /v1/runs       list recorded runs, newest first
//	GET  /v1/runs/{id}  fetch one recorded run including its layout
//	GET  /healthz       liveness and build info
//
// Request bodies carry the diagram either as a JSON document ("diagram") or
// as DSL text ("source"), plus pipeline options:
//
//	{
//	  "source": "diagram d { node a at 0, 0 size 40, 20 ... }",
//	  "options": {"algorithm": "overlap", "formats": ["svg"]}
//	}
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with a
// status derived from the error code.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/spore/pkg/config"
	"github.com/matzehuels/spore/pkg/observability"
	"github.com/matzehuels/spore/pkg/pipeline"
)

// Server is the HTTP front end of a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	cfg    config.File
	logger *log.Logger
}

// New creates a server. cfg supplies default options and server settings.
func New(runner *pipeline.Runner, cfg config.File, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = config.Default().Server.MaxBodyBytes
	}
	return &Server{runner: runner, cfg: cfg, logger: logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/check", s.handleCheck)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound(r.URL.Path))
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	sc := s.cfg.Server
	srv := &http.Server{
		Addr:         sc.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  sc.ReadTimeout.Std(),
		WriteTimeout: sc.WriteTimeout.Std(),
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", sc.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	timeout := sc.ShutdownTimeout.Std()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe logs every request and reports it to the server hooks under its
// route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.Server().OnRequest(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
