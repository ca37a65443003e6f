// Package server wires the museum into an HTTP server: the shell page, the
// live websocket endpoint, the client script, probes and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wgaamuseum/museum/client"
	"github.com/wgaamuseum/museum/internal/config"
	"github.com/wgaamuseum/museum/internal/metrics"
	"github.com/wgaamuseum/museum/internal/museum"
	"github.com/wgaamuseum/museum/pkg/assets"
	"github.com/wgaamuseum/museum/pkg/catalog"
	"github.com/wgaamuseum/museum/pkg/health"
	"github.com/wgaamuseum/museum/pkg/limits"
	"github.com/wgaamuseum/museum/pkg/live"
	"github.com/wgaamuseum/museum/pkg/logging"
	"github.com/wgaamuseum/museum/pkg/pool"
	"github.com/wgaamuseum/museum/pkg/retry"
	"github.com/wgaamuseum/museum/pkg/shutdown"
	"github.com/wgaamuseum/museum/pkg/transport"
)

const (
	livePath   = "/live"
	staticPath = "/static/"
)

// Server hosts one museum.
type Server struct {
	cfg      *config.Config
	logger   logging.Logger
	client   *http.Client
	registry *prometheus.Registry
	version  string

	metrics *metrics.Metrics
	store   *catalog.Store
	museum  *museum.Museum
	live    *live.Handler
	health  *health.Checker
	router  chi.Router

	// Parent of every live session.
	baseCtx context.Context
	cancel  context.CancelFunc
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithHTTPClient sets the client used for data and version fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Server) { s.client = c }
}

// WithRegistry registers the metrics with reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithVersion sets the build version reported by the readiness probe.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New builds the server from cfg. Nothing is fetched until Preload or Run.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: cfg.Data.Timeout}
	}
	s.baseCtx, s.cancel = context.WithCancel(context.Background())
	s.metrics = metrics.New(s.registry)

	s.store = catalog.NewStore(NewLoader(cfg, s.client, s.logger, s.metrics))

	mopts := []museum.Option{
		museum.WithLocator(assets.NewLocator(cfg.AssetBaseURL())),
		museum.WithRegion(cfg.Region),
		museum.WithLocale(cfg.Locale),
		museum.WithPreloadRadius(cfg.PreloadRadius),
		museum.WithLogger(s.logger),
		museum.WithObserver(s.metrics),
	}
	if url := cfg.Versions.URL; url != "" {
		mopts = append(mopts, museum.WithVersions(museum.CachedVersions(
			func(ctx context.Context) (catalog.Versions, error) {
				return catalog.FetchVersions(ctx, s.client, url)
			},
			cfg.Versions.TTL,
		)))
	}
	m, err := museum.New(s.store, mopts...)
	if err != nil {
		return nil, err
	}
	s.museum = m

	s.live = live.NewHandler(m.NewComponent,
		live.WithLogger(s.logger),
		live.WithObserver(s.metrics),
		live.WithBaseContext(s.baseCtx),
		live.WithWebSocketConfig(&transport.WebSocketConfig{
			AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
			InsecureDevMode: cfg.WebSocket.InsecureDevMode,
		}),
	)

	s.health = health.NewChecker(s.version)
	s.health.Add(health.Check{
		Name:     "catalog",
		Probe:    health.SnapshotCheck(s.store, cfg.Region),
		Critical: true,
	})
	s.health.Add(health.Check{
		Name:  "sessions",
		Probe: health.SessionCapacityCheck(s.live.Sockets().Count, cfg.Sessions.Max),
	})

	s.router = s.routes()
	return s, nil
}

// NewLoader builds the catalog loader described by cfg. obs may be nil.
func NewLoader(cfg *config.Config, client *http.Client, logger logging.Logger, obs catalog.Observer) *catalog.Loader {
	rc := retry.DefaultConfig()
	rc.MaxRetries = cfg.Data.Retries
	opts := []catalog.LoaderOption{
		catalog.WithHTTPClient(client),
		catalog.WithBaseURL(cfg.DataBaseURL()),
		catalog.WithRetry(rc),
		catalog.WithBreaker(retry.NewBreaker(nil)),
		catalog.WithLoaderLogger(logger),
	}
	if obs != nil {
		opts = append(opts, catalog.WithObserver(obs))
	}
	return catalog.NewLoader(opts...)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)

	if origins := s.cfg.WebSocket.AllowedOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			MaxAge:         300,
		}))
	}

	r.Get("/", s.shell)
	r.With(limits.NewConnectionLimiter(s.cfg.Sessions.MaxPerIP).Middleware).Get(livePath, s.live.ServeHTTP)
	r.Handle(staticPath+"*", http.StripPrefix(staticPath, client.Handler()))
	r.Method(http.MethodGet, "/healthz", s.health.LivenessHandler())
	r.Method(http.MethodGet, "/readyz", s.health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store returns the catalog store.
func (s *Server) Store() *catalog.Store {
	return s.store
}

func (s *Server) shell(w http.ResponseWriter, r *http.Request) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	if err := s.museum.Shell(buf, livePath, staticPath+client.Script); err != nil {
		logging.L(r.Context()).Error("rendering shell", logging.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// Preload loads the default region. A failure to load a required
// collection is fatal for start-up and wraps catalog.ErrRegionLoad.
func (s *Server) Preload(ctx context.Context) error {
	snap, err := s.store.Get(ctx, s.cfg.Region)
	if err != nil {
		return err
	}
	s.logger.Debug("catalog counts",
		logging.String("region", s.cfg.Region),
		logging.Any("counts", snap.Counts()),
	)
	return nil
}

// Run preloads the default region, serves until ctx ends or a signal
// arrives and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Preload(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sd := shutdown.NewHandler(shutdown.WithLogger(s.logger))
	sd.Register("http", shutdown.PriorityHTTP, srv.Shutdown)
	sd.Register("sessions", shutdown.PrioritySessions, s.live.Shutdown)
	sd.Register("background", shutdown.PriorityLast, func(context.Context) error {
		s.cancel()
		return nil
	})

	go s.cleanupLoop(s.baseCtx)

	waitErr := make(chan error, 1)
	go func() { waitErr <- sd.Wait(ctx) }()

	s.logger.Info("listening", logging.String("addr", s.cfg.Listen))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		_ = sd.Shutdown()
		return fmt.Errorf("serving on %s: %w", s.cfg.Listen, err)
	}
	return <-waitErr
}

// cleanupLoop closes sessions that have been idle for longer than the
// configured limit.
func (s *Server) cleanupLoop(ctx context.Context) {
	every, idle := s.cfg.Sessions.CleanupInterval, s.cfg.Sessions.MaxInactive
	if every <= 0 || idle <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.live.Sockets().CleanupInactive(idle); n > 0 {
				s.logger.Info("closed idle sessions", logging.Int("count", n))
			}
		}
	}
}
