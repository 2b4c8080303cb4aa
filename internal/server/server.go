// Package server exposes topology builds over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness check
//	GET  /v1/rules       the configured merge rules as JSON
//	GET  /v1/config      the effective configuration as TOML
//	POST /v1/topology    build a GeoJSON body; ?format=json|geojson|dot|svg
//
// The server shares one [pipeline.Runner], so identical requests are served
// from its cache.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/geograph/pkg/config"
	"github.com/matzehuels/geograph/pkg/pipeline"
)

// DefaultMaxBodyBytes caps the size of an uploaded GeoJSON document.
const DefaultMaxBodyBytes = 32 << 20

// Options configures a [Server].
type Options struct {
	Config *config.Config
	Runner *pipeline.Runner
	Logger *log.Logger
	// MaxBodyBytes limits request bodies. Zero uses DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// Timeout bounds a single build. Zero means no limit.
	Timeout time.Duration
}

// Server serves the HTTP API.
type Server struct {
	cfg     *config.Config
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	timeout time.Duration
	router  chi.Router
}

// New creates a server. Missing options fall back to the default config, an
// uncached runner and the default logger.
func New(opts Options) *Server {
	s := &Server{
		cfg:     opts.Config,
		runner:  opts.Runner,
		logger:  opts.Logger,
		maxBody: opts.MaxBodyBytes,
		timeout: opts.Timeout,
	}
	if s.cfg == nil {
		s.cfg = config.Default()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/rules", s.handleRules)
		r.Get("/config", s.handleConfig)
		r.Post("/topology", s.handleTopology)
	})
	return r
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
