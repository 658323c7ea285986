// Package session manages an admin session against the SMW REST backend:
// token persistence, access token refresh, profile loading and the
// authenticated request wrapper.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sunnysmathworld/smw-admin/internal/config"
	"github.com/sunnysmathworld/smw-admin/storage"
	"golang.org/x/sync/singleflight"
)

const (
	loginPath   = "/admin/login/"
	refreshPath = "/token/refresh/"
	profilePath = "/profile/"
	logoutPath  = "/logout/"

	// maxProfileAttempts bounds LoadProfile to the first request plus one retry after refresh.
	maxProfileAttempts = 2
)

// HTTPClient is the transport the Manager sends requests with. *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Manager owns one session. It is safe for concurrent use; the state lock is
// never held across network calls.
type Manager struct {
	store   storage.Store
	client  HTTPClient
	baseURL string
	logger  zerolog.Logger
	metrics *Metrics
	maxAges config.SessionConfig

	mu    sync.RWMutex
	state State

	refreshGroup singleflight.Group
}

// Option configures a Manager in New.
type Option func(*Manager)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(client HTTPClient) Option {
	return func(m *Manager) {
		m.client = client
	}
}

// WithBaseURL sets the REST backend base, e.g. "https://api.example.com/api".
func WithBaseURL(baseURL string) Option {
	return func(m *Manager) {
		m.baseURL = baseURL
	}
}

// WithLogger replaces the global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics records session outcomes; without it nothing is counted.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithSessionConfig sets the max-ages the persisted keys are written with.
func WithSessionConfig(cfg config.SessionConfig) Option {
	return func(m *Manager) {
		m.maxAges = cfg
	}
}

// New returns a Manager persisting to store. Call Bootstrap to restore a saved session.
func New(store storage.Store, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[session.New] store is required")
	}

	m := &Manager{
		store:   store,
		client:  http.DefaultClient,
		baseURL: config.DefaultAPIBaseURL,
		logger:  log.Logger,
		maxAges: config.Session{},
		state:   State{Initializing: true},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.client == nil {
		return nil, errors.New("[session.New] http client is required")
	}
	return m, nil
}

// State returns a copy of the current session.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) BaseURL() string {
	return m.baseURL
}

// Bootstrap restores the session from the store. With only a refresh token it
// refreshes first; with an access token it loads the profile directly.
// Initializing is cleared however the flow ends.
func (m *Manager) Bootstrap(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Interface("panic", r).Msg("session bootstrap panicked")
		}
		m.mu.Lock()
		m.state.Initializing = false
		m.mu.Unlock()
	}()

	storedAccess := m.stored(ctx, config.AccessTokenKey)
	storedRefresh := m.stored(ctx, config.RefreshTokenKey)

	m.mu.Lock()
	if storedAccess != "" {
		m.state.AccessToken = storedAccess
	}
	if storedRefresh != "" {
		m.state.RefreshToken = storedRefresh
	}
	m.mu.Unlock()

	switch {
	case storedAccess == "" && storedRefresh != "":
		if refreshed := m.RefreshAccessToken(ctx, storedRefresh); refreshed != "" {
			m.LoadProfile(ctx, refreshed)
		}
	case storedAccess != "":
		m.LoadProfile(ctx, storedAccess)
	}
}

// stored reads a key, treating store failures as absence.
func (m *Manager) stored(ctx context.Context, key string) string {
	value, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Warn().Err(err).Str("key", key).Msg("Failed to read session store")
		}
		return ""
	}
	return value
}

// persist writes value under key, deleting the key when value is empty.
func (m *Manager) persist(ctx context.Context, key, value string) {
	var err error
	if value == "" {
		err = m.store.Delete(ctx, key)
	} else {
		err = m.store.Set(ctx, key, value, m.maxAge(key))
	}
	if err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("Failed to write session store")
	}
}

func (m *Manager) maxAge(key string) time.Duration {
	switch key {
	case config.AccessTokenKey:
		return m.maxAges.GetAccessTokenMaxAge()
	case config.RefreshTokenKey:
		return m.maxAges.GetRefreshTokenMaxAge()
	default:
		return m.maxAges.GetStaffFlagMaxAge()
	}
}

func (m *Manager) setAccessToken(ctx context.Context, token string) {
	m.mu.Lock()
	m.state.AccessToken = token
	m.mu.Unlock()
	m.persist(ctx, config.AccessTokenKey, token)
}

func (m *Manager) setRefreshToken(ctx context.Context, token string) {
	m.mu.Lock()
	m.state.RefreshToken = token
	m.mu.Unlock()
	m.persist(ctx, config.RefreshTokenKey, token)
}

func (m *Manager) setStaffFlag(ctx context.Context, isStaff bool) {
	if isStaff {
		m.persist(ctx, config.StaffFlagKey, "true")
		return
	}
	m.persist(ctx, config.StaffFlagKey, "")
}

func (m *Manager) setProfile(ctx context.Context, profile *Profile) {
	user := DeriveUser(profile)
	m.mu.Lock()
	m.state.Profile = profile
	m.state.User = user
	m.mu.Unlock()
	m.setStaffFlag(ctx, user != nil && user.IsStaff)
}

// clearSession drops every token, the profile and the staff flag.
func (m *Manager) clearSession(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	m.mu.Lock()
	m.state.Profile = nil
	m.state.User = nil
	m.mu.Unlock()
	m.setAccessToken(ctx, "")
	m.setRefreshToken(ctx, "")
	m.setStaffFlag(ctx, false)
}

func (m *Manager) accessToken(ctx context.Context) string {
	m.mu.RLock()
	token := m.state.AccessToken
	m.mu.RUnlock()
	if token != "" {
		return token
	}
	return m.stored(ctx, config.AccessTokenKey)
}

func (m *Manager) refreshToken(ctx context.Context) string {
	m.mu.RLock()
	token := m.state.RefreshToken
	m.mu.RUnlock()
	if token != "" {
		return token
	}
	return m.stored(ctx, config.RefreshTokenKey)
}
