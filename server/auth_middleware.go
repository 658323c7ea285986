package server

import (
	"context"
	"net/http"

	"github.com/sunnysmathworld/smw-admin/guard"
	"github.com/sunnysmathworld/smw-admin/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyManager stores the request's bootstrapped *session.Manager
const ContextKeyManager ContextKey = "session_manager"

const msgSessionUnverifiable = "Unable to verify your session right now."

func (s *Server) managerFor(w http.ResponseWriter, r *http.Request) (*session.Manager, error) {
	return session.New(s.storeFor(w, r),
		session.WithHTTPClient(s.client),
		session.WithBaseURL(s.config.GetAPIBaseURL()),
		session.WithLogger(s.logger),
		session.WithMetrics(s.metrics),
		session.WithSessionConfig(s.config),
	)
}

// ManagerFromContext returns the manager RequireStaff stored, or nil.
func ManagerFromContext(ctx context.Context) *session.Manager {
	mgr, _ := ctx.Value(ContextKeyManager).(*session.Manager)
	return mgr
}

// RequireStaff bootstraps the session and lets the request through only once a
// profile load has confirmed the staff bit.
func (s *Server) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mgr, err := s.managerFor(w, r)
		if err != nil {
			s.logger.Error().Err(err).Msg("create session manager")
			writeDetail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
		mgr.Bootstrap(r.Context())

		state := mgr.State()
		if !state.StaffVerified() {
			s.rejectUnverified(w, r, state)
			return
		}
		ctx := context.WithValue(r.Context(), ContextKeyManager, mgr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rejectUnverified answers a request whose session is not staff. Tokens without
// a profile mean the backend was unreachable; a redirect would loop through the guard.
func (s *Server) rejectUnverified(w http.ResponseWriter, r *http.Request, state session.State) {
	hasTokens := state.AccessToken != "" || state.RefreshToken != ""
	switch {
	case hasTokens && state.Profile == nil:
		writeDetail(w, http.StatusServiceUnavailable, msgSessionUnverifiable)
	case wantsJSON(r):
		writeDetail(w, http.StatusUnauthorized, session.MsgNotAuthorized)
	default:
		http.Redirect(w, r, guard.LoginPath, http.StatusTemporaryRedirect)
	}
}
