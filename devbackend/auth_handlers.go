package devbackend

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/sunnysmathworld/smw-admin/internal/errors"
	"github.com/sunnysmathworld/smw-admin/internal/utils"
	"github.com/sunnysmathworld/smw-admin/session"
	"github.com/sunnysmathworld/smw-admin/token"
	"github.com/sunnysmathworld/smw-admin/users"
)

type ContextKey string

const UserContextKey ContextKey = "user"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh *string `json:"refresh"`
}

type logoutResponse struct {
	Message string `json:"message"`
}

// adminLoginHandler issues a token pair to approved staff and superusers.
func (b *Backend) adminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := b.users.GetByEmail(req.Email)
	if err != nil || !user.Authenticate(req.Password) || !user.CanAccessAdmin() {
		b.logger.Info().Str("email", users.NormalizeEmail(req.Email)).Msg("admin login rejected")
		writeDetail(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if !user.IsApproved {
		writeDetail(w, http.StatusForbidden, msgNotApproved)
		return
	}

	pair, err := b.tokens.IssuePair(user.ID)
	if err != nil {
		b.logger.Error().Err(err).Int("user_id", user.ID).Msg("issue token pair")
		writeDetail(w, http.StatusInternalServerError, "Unable to issue tokens")
		return
	}
	b.logger.Info().Int("user_id", user.ID).Msg("admin login")
	writeJSON(w, http.StatusOK, pair)
}

func (b *Backend) tokenRefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Refresh == nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"refresh": {"This field is required."}})
		return
	}

	access, err := b.tokens.Refresh(*req.Refresh)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, detailResponse{Detail: msgInvalidRefresh, Code: codeTokenNotValid})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (b *Backend) profileHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	writeJSON(w, http.StatusOK, ProfileFor(user))
}

// logoutHandler blacklists the supplied refresh token.
func (b *Backend) logoutHandler(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(w, r, &req); err != nil || req.Refresh == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgRefreshRequired})
		return
	}
	if err := b.tokens.Revoke(*req.Refresh); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidRefresh})
		return
	}
	writeJSON(w, http.StatusResetContent, logoutResponse{Message: msgLoggedOut})
}

// authenticated resolves the bearer access token to an active user.
func (b *Backend) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeDetail(w, http.StatusUnauthorized, msgNoCredentials)
			return
		}
		claims, err := b.tokens.Parse(raw, token.TypeAccess)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, detailResponse{Detail: msgInvalidAccess, Code: codeTokenNotValid})
			return
		}
		user, err := b.users.GetByID(claims.UserID)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, detailResponse{Detail: apperrors.ErrUserNotFound.Error(), Code: codeTokenNotValid})
			return
		}
		if !user.IsActive {
			writeDetail(w, http.StatusUnauthorized, msgUserInactive)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), UserContextKey, user)))
	}
}

func userFromContext(ctx context.Context) *users.User {
	user, _ := ctx.Value(UserContextKey).(*users.User)
	return user
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return strings.TrimSpace(raw), true
}

// ProfileFor renders a user the way GET /profile/ serializes it.
func ProfileFor(u *users.User) session.Profile {
	profile := session.Profile{
		ID: u.ID,
		User: &session.UserRecord{
			ID:          u.ID,
			Email:       u.Email,
			FirstName:   nonEmpty(u.FirstName),
			LastName:    nonEmpty(u.LastName),
			IsActive:    u.IsActive,
			IsStaff:     u.IsStaff,
			IsSuperuser: u.IsSuperuser,
		},
		Phone:        nonEmpty(u.Phone),
		CurrentClass: nonEmpty(u.CurrentClass),
	}
	return profile
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return utils.Ptr(s)
}
