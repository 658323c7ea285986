// Package server is the admin portal: a backend-for-frontend that keeps the
// admin session in cookies or a server-side store, gates /admin routes and
// proxies the admissions API through the session's authenticated fetch.
package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sunnysmathworld/smw-admin/guard"
	"github.com/sunnysmathworld/smw-admin/internal/config"
	"github.com/sunnysmathworld/smw-admin/session"
	"github.com/sunnysmathworld/smw-admin/storage"
)

// requestTimeout bounds a portal request, including the backend calls it makes.
const requestTimeout = 30 * time.Second

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	router   chi.Router
	routes   []string
	config   config.Config
	client   session.HTTPClient
	backend  storage.Store // server-side session store; nil keeps tokens in cookies
	registry *prometheus.Registry
	metrics  *session.Metrics
	logger   zerolog.Logger
}

type Option func(*Server)

// WithHTTPClient sets the client used to reach the REST backend.
func WithHTTPClient(client session.HTTPClient) Option {
	return func(s *Server) {
		s.client = client
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSessionBackend keeps session keys in store, scoped per browser by the smw_sid cookie.
func WithSessionBackend(store storage.Store) Option {
	return func(s *Server) {
		s.backend = store
	}
}

func WithRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

func New(cfg config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		env:    cfg.GetEnv(),
		config: cfg,
		client: http.DefaultClient,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	switch mode := cfg.GetSessionStore(); {
	case mode == config.StoreMemory && s.backend == nil:
		s.backend = storage.NewMemoryStore()
	case mode == config.StoreRedis && s.backend == nil:
		return nil, errors.New("[Server New] redis session store requires a session backend")
	case mode == config.StoreCookie:
		s.backend = nil
	}

	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	s.metrics = session.NewMetrics(s.registry)

	s.router = chi.NewRouter()
	s.router.Use(s.StandardMiddleware()...)
	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RegisterRouteFunc registers "METHOD /path" with optional per-route middleware.
func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc, mw ...func(http.Handler) http.Handler) {
	method, path, found := strings.Cut(pattern, " ")
	if !found {
		method, path = "", pattern
	}
	s.routes = append(s.routes, pattern)

	router := s.router
	if len(mw) > 0 {
		router = router.With(mw...)
	}
	if method == "" {
		router.HandleFunc(path, handler)
		return
	}
	router.MethodFunc(method, path, handler)
}

// Routes lists the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

// StandardMiddleware is applied to every route. The guard runs before any
// session is loaded and only looks at the persisted staff flag.
func (s *Server) StandardMiddleware() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		s.LoggingMiddleware,
		middleware.Recoverer,
		middleware.Timeout(requestTimeout),
		middleware.StripSlashes,
		s.FrameSecurityMiddleware,
		s.CorsMiddleware(),
		guard.Middleware(s.staffLookup),
	}
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		s.logRoute(method, path)
	}
}

func (s *Server) logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	s.logger.Info().Msgf("[%-19s] %s", color+paddedMethod+ResetColor, path)
}
