package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/abs/internal/config"
	abserrors "github.com/vango-dev/abs/internal/errors"
	"github.com/vango-dev/abs/internal/inspect"
	"github.com/vango-dev/abs/pkg/component"
	"github.com/vango-dev/abs/pkg/htmldoc"
	"github.com/vango-dev/abs/pkg/middleware"
	"github.com/vango-dev/abs/pkg/telemetry"
)

// Options configures the inspection server.
type Options struct {
	// Config is the project configuration.
	Config *config.Config

	// Logger receives request and lifecycle diagnostics.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Registry collects the service metrics.
	// If nil, a private registry is created.
	Registry *prometheus.Registry
}

// Server serves the inspection API.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
	hub      *telemetry.Hub
	router   chi.Router

	httpServer *http.Server
	mu         sync.Mutex
	running    bool
}

// New creates a Server.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &Server{
		config:   cfg,
		logger:   logger,
		registry: registry,
		metrics: telemetry.NewMetrics(
			telemetry.WithRegistry(registry),
			telemetry.WithNamespace(cfg.Metrics.Namespace),
		),
		hub: telemetry.NewHub(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Tracing(middleware.WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
	})))
	r.Use(middleware.Logger(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Post("/scan", s.handleScan)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/events", s.hub.HandleWebSocket)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the lifecycle event hub.
func (s *Server) Hub() *telemetry.Hub {
	return s.hub
}

// Start listens on the configured address until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.httpServer = &http.Server{
		Addr:              s.config.ServeAddress(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	s.logger.Info("inspection server listening", "addr", s.httpServer.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop shuts the server down, waiting up to five seconds for requests.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	s.hub.Close()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleScan parses the posted HTML and runs one discovery pass over it.
// The optional "tags" query parameter (comma separated) overrides the
// configured component list.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.config.Serve.MaxBodyBytes)
	doc, err := htmldoc.Parse(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge,
				abserrors.New("A020").WithSubject("request body").Wrap(err))
			return
		}
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	tags := s.config.Components
	if q := r.URL.Query().Get("tags"); q != "" {
		tags = splitTags(q)
	}
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "request"
	}

	opts := append(s.config.ManagerOptions(s.logger),
		component.WithObserver(s.metrics),
		component.WithObserver(s.hub),
	)
	session := inspect.NewSession(source, doc, tags, opts...)
	result := session.Scan(r.Context())
	// The session is dropped with its components still bound.
	s.metrics.Released(session.Manager.Len())

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	ae := abserrors.FromError(err, "A021")
	s.logger.Warn("scan rejected", "error", err, "status", status)
	s.writeJSON(w, status, ae)
}

func splitTags(q string) []string {
	var tags []string
	for _, t := range strings.Split(q, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
