package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sunnysmathworld/smw-admin/guard"
	"github.com/sunnysmathworld/smw-admin/session"
)

const maxBodyBytes = 64 << 10

type loginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginStatusResponse struct {
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

type loginResponse struct {
	Success  bool          `json:"success"`
	Redirect string        `json:"redirect,omitempty"`
	Detail   string        `json:"detail,omitempty"`
	User     *session.User `json:"user,omitempty"`
}

type logoutResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// LoginStatusHandler describes the login form (GET /admin/login). Staff never get
// here: the guard sends them to /admin.
func (s *Server) LoginStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, loginStatusResponse{
			Action: http.MethodPost + " " + RouteAdminLogin,
			Error:  r.URL.Query().Get("error"),
		})
	}
}

// LoginHandler accepts a JSON or form encoded email and password (POST /admin/login).
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := parseLoginForm(w, r)
		if err != nil {
			if wantsJSON(r) {
				writeJSON(w, http.StatusBadRequest, loginResponse{Detail: "Malformed login request"})
				return
			}
			redirectWithError(w, r, guard.LoginPath, "Malformed login request")
			return
		}

		mgr, err := s.managerFor(w, r)
		if err != nil {
			s.logger.Error().Err(err).Msg("create session manager")
			writeDetail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}

		result := mgr.Login(r.Context(), form.Email, form.Password)
		if wantsJSON(r) {
			if !result.Success {
				writeJSON(w, loginFailureStatus(result.Err), loginResponse{Detail: result.Message})
				return
			}
			writeJSON(w, http.StatusOK, loginResponse{Success: true, Redirect: guard.AdminPrefix, User: mgr.State().User})
			return
		}

		if !result.Success {
			redirectWithError(w, r, guard.LoginPath, result.Message)
			return
		}
		redirectSuccess(w, r, guard.AdminPrefix)
	}
}

// LogoutHandler ends the session and sends the browser to the login page (POST /admin/logout).
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr, err := s.managerFor(w, r)
		if err != nil {
			s.logger.Error().Err(err).Msg("create session manager")
			writeDetail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
		mgr.Logout(r.Context())
		if s.backend != nil {
			s.SetSessionIDCookie(w, "", r, -1)
		}

		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, logoutResponse{Message: "Logged out", Redirect: guard.LoginPath})
			return
		}
		redirectSuccess(w, r, guard.LoginPath)
	}
}

func parseLoginForm(w http.ResponseWriter, r *http.Request) (loginForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var form loginForm
	if isJSONContent(r) {
		err := json.NewDecoder(r.Body).Decode(&form)
		return form, err
	}
	if err := r.ParseForm(); err != nil {
		return form, err
	}
	form.Email = r.PostFormValue("email")
	form.Password = r.PostFormValue("password")
	return form, nil
}

func loginFailureStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, session.ErrTransientNetwork):
		return http.StatusServiceUnavailable
	case errors.Is(err, session.ErrProtocol):
		return http.StatusBadGateway
	default:
		return http.StatusUnauthorized
	}
}
