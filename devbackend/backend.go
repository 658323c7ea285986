package devbackend

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sunnysmathworld/smw-admin/token"
	"github.com/sunnysmathworld/smw-admin/users"
)

const maxBodyBytes = 1 << 20

// Backend serves the school API endpoints the admin session manager talks to.
type Backend struct {
	mux          *http.ServeMux
	routes       []string
	users        users.UserRepo
	applications *ApplicationRepo
	tokens       *token.Manager
	logger       zerolog.Logger
}

type Option func(*Backend)

func WithLogger(logger zerolog.Logger) Option {
	return func(b *Backend) {
		b.logger = logger
	}
}

func New(userRepo users.UserRepo, applications *ApplicationRepo, tokens *token.Manager, opts ...Option) *Backend {
	b := &Backend{
		mux:          http.NewServeMux(),
		users:        userRepo,
		applications: applications,
		tokens:       tokens,
		logger:       log.Logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.initRoutes()
	return b
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mux.ServeHTTP(w, r)
}

func (b *Backend) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	b.routes = append(b.routes, pattern)
	b.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns in registration order.
func (b *Backend) Routes() []string {
	return append([]string(nil), b.routes...)
}

func (b *Backend) initRoutes() {
	b.RegisterRouteFunc("POST "+AdminLoginRoute, b.adminLoginHandler)
	b.RegisterRouteFunc("POST "+TokenRefreshRoute, b.tokenRefreshHandler)
	b.RegisterRouteFunc("GET "+ProfileRoute, b.authenticated(b.profileHandler))
	b.RegisterRouteFunc("POST "+LogoutRoute, b.authenticated(b.logoutHandler))
	b.RegisterRouteFunc("GET "+AdmissionsRoute, b.authenticated(b.admissionListHandler))
	b.RegisterRouteFunc("GET "+AdmissionDetailRoute, b.authenticated(b.admissionDetailHandler))
	b.RegisterRouteFunc("PATCH "+AdmissionReviewRoute, b.authenticated(b.admissionReviewHandler))
}

type detailResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

// decodeBody reads a JSON object body. Bodies that are empty decode to the zero value.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// NewSeeded builds a Backend over in-memory repositories filled with the seed accounts and applications.
func NewSeeded(tokens *token.Manager, opts ...Option) (*Backend, error) {
	userRepo := users.NewInMemoryRepo()
	if err := SeedUsers(userRepo); err != nil {
		return nil, err
	}
	applications := NewApplicationRepo(nil)
	if err := SeedApplications(applications, userRepo); err != nil {
		return nil, err
	}
	return New(userRepo, applications, tokens, opts...), nil
}
