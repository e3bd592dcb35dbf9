// Package server implements the HTTP preview behind `ringchart serve`.
//
// The server holds one dataset in memory and renders it on request through a
// pipeline.Runner, so repeated requests for the same filter are served from
// the runner's cache. Query parameters follow the dataset filter URL
// contract (q, theme, barrier, type).
//
// Routes:
//
//	GET /healthz        dataset summary
//	GET /diagram.svg    rendered chart
//	GET /diagram.png    rendered chart; ?scale= overrides the raster scale
//	GET /outline.svg    theme/barrier hierarchy drawn by Graphviz
//	GET /layout.json    computed diagram
//	GET /dataset.json   dataset narrowed by the filter
//
// When watching is enabled the dataset file is reloaded on change. A reload
// that fails validation keeps serving the previous dataset.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/observability"
	"github.com/matzehuels/ringchart/pkg/pipeline"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = "127.0.0.1:8080"

// shutdownTimeout bounds graceful shutdown once the run context is done.
const shutdownTimeout = 5 * time.Second

// Config configures a Server.
type Config struct {
	// DatasetPath is the file loaded at startup and on reload.
	DatasetPath string
	// Addr is the listen address.
	Addr string
	// Options are the base pipeline options. Filter and Formats are set
	// per request.
	Options pipeline.Options
	// Watch reloads the dataset when its file changes.
	Watch bool
	// RequestTimeout bounds each render. Zero means Options.Timeout.
	RequestTimeout time.Duration
}

// Option configures optional server behavior.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithHTTPHooks sets the request hooks.
func WithHTTPHooks(h observability.HTTPHooks) Option {
	return func(s *Server) { s.hooks = h }
}

// Server serves rendered diagrams for one dataset.
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
	hooks  observability.HTTPHooks

	mu       sync.RWMutex
	ds       dataset.Dataset
	loadedAt time.Time
	reloads  int

	router chi.Router
}

// New loads the dataset and builds the router.
func New(ctx context.Context, runner *pipeline.Runner, cfg Config, opts ...Option) (*Server, error) {
	s := &Server{
		runner: runner,
		cfg:    cfg,
		logger: runner.Logger,
		hooks:  observability.NoopHTTPHooks{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.Addr == "" {
		s.cfg.Addr = DefaultAddr
	}
	if s.cfg.RequestTimeout == 0 {
		s.cfg.RequestTimeout = s.cfg.Options.Timeout
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Dataset returns the dataset currently served.
func (s *Server) Dataset() dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// Reload reads the dataset file again. The previous dataset stays in place
// when loading fails.
func (s *Server) Reload(ctx context.Context) error {
	opts := s.cfg.Options
	opts.DatasetPath = s.cfg.DatasetPath
	opts.Logger = s.logger
	ds, err := pipeline.Load(ctx, opts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ds = ds
	s.loadedAt = time.Now()
	s.reloads++
	s.mu.Unlock()

	s.logger.Info("dataset loaded",
		"path", s.cfg.DatasetPath,
		"themes", len(ds.Themes),
		"barriers", len(ds.Barriers),
		"resources", len(ds.Resources))
	return nil
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.cfg.Watch {
		w, err := newWatcher(s.cfg.DatasetPath, s.logger)
		if err != nil {
			ln.Close()
			return err
		}
		go w.run(ctx, s.Reload)
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()
	s.logger.Info("preview server listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("preview server stopped")
	return <-errc
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/diagram.svg", s.handleArtifact(pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/diagram.png", s.handleArtifact(pipeline.FormatPNG, "image/png"))
	r.Get("/outline.svg", s.handleArtifact(pipeline.FormatOutline, "image/svg+xml"))
	r.Get("/layout.json", s.handleLayout)
	r.Get("/dataset.json", s.handleDataset)
	return r
}

// observe reports each request to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		s.hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}
