package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/netneurolab/nntdata/pkg/domain/interfaces"
	"github.com/netneurolab/nntdata/pkg/utils/async"
)

// config holds internal HTTP server configuration
type config struct {
	addr         string
	fetchTimeout time.Duration
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithFetchTimeout bounds synchronous fetch requests. Prefetches are not bounded.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *config) {
		c.fetchTimeout = d
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	jobs *async.Group
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	datasetUC interfaces.DatasetUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:         "localhost:8080",
		fetchTimeout: 30 * time.Minute,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	jobs := &async.Group{}
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth(datasetUC))

	h := NewDatasetHandler(datasetUC, jobs, cfg.fetchTimeout)
	router.Route("/v1/datasets", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{dataset}", h.Get)
		r.Post("/{dataset}/fetch", h.Fetch)
		r.Post("/{dataset}/prefetch", h.Prefetch)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		jobs: jobs,
	}

	return server, nil
}

// Shutdown stops accepting requests and waits for running prefetches
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.Server.Shutdown(ctx); err != nil {
		return err
	}
	return s.jobs.Wait(ctx)
}
