// Package server exposes the solver over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness probe
//	GET  /puzzles          built-in puzzles
//	GET  /puzzles/{name}   one built-in or uploaded puzzle, with its TOML
//	POST /puzzles          upload a TOML definition, returns its hash
//	POST /solve            run a search and return its solutions
//	GET  /stats            event counters, when Config.Stats is set
//
// Every search runs with a solution limit and a timeout, so a single request
// cannot occupy the server indefinitely.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/latticetile/pkg/observability"
	"github.com/matzehuels/latticetile/pkg/pipeline"
)

// Defaults for Config.
const (
	DefaultAddr     = ":8080"
	DefaultMaxLimit = 1000
	DefaultTimeout  = 30 * time.Second

	// maxBodyBytes bounds uploaded definitions and solve requests.
	maxBodyBytes = 1 << 20
)

// Config configures the server.
type Config struct {
	Addr string

	// MaxLimit caps the number of solutions one request may ask for.
	MaxLimit int

	// Timeout caps the search time of one request.
	Timeout time.Duration

	// Stats, if set, is served at /stats. The caller installs it as hooks.
	Stats *observability.Counters

	Logger *log.Logger
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = DefaultMaxLimit
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
}

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	cfg    Config
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, cfg Config) *Server {
	cfg.setDefaults()
	return &Server{runner: runner, cfg: cfg}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/puzzles", func(r chi.Router) {
		r.Get("/", s.handleListPuzzles)
		r.Post("/", s.handleUploadPuzzle)
		r.Get("/{name}", s.handleGetPuzzle)
	})
	r.Post("/solve", s.handleSolve)
	if s.cfg.Stats != nil {
		r.Get("/stats", s.handleStats)
	}
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe logs every request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.cfg.Logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", d)
	})
}
