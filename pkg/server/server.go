// Package server exposes the pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/position   run a scene, returns pipeline.Result
//	GET  /healthz       liveness and version
//
// A JSON request body is a pipeline.Options object:
//
//	{"scene": {...}, "jobs": ["tip"], "max_resets": 10, "refresh": false}
//
// A body sent as application/toml is a bare scene file; jobs and refresh
// then come from the query string (?job=tip&job=menu&refresh=true).
//
// Every response carries an X-Request-ID header, taken from the request
// when present and generated otherwise.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/floatpos/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8080"

	// DefaultMaxBodyBytes bounds request bodies.
	DefaultMaxBodyBytes = 1 << 20

	// DefaultRequestTimeout bounds one request.
	DefaultRequestTimeout = 30 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr           string
	Runner         *pipeline.Runner
	Logger         *log.Logger
	MaxBodyBytes   int64
	RequestTimeout time.Duration

	// Concurrency bounds concurrent jobs per request.
	Concurrency int
}

// ValidateAndSetDefaults checks the config and fills in defaults.
func (c *Config) ValidateAndSetDefaults() error {
	if c.Runner == nil {
		return errors.New("server: runner is required")
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Server is the floatpos HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New returns a server for cfg.
func New(cfg Config) (*Server, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s, nil
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimw.RealIP)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(s.cfg.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(chimw.AllowContentType("application/json", "application/toml", "text/plain"))
		r.Post("/position", s.handlePosition)
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
