package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/sunnysmathworld/smw-admin/guard"
	"github.com/sunnysmathworld/smw-admin/internal/config"
	"github.com/sunnysmathworld/smw-admin/storage"
)

type detailResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

// SetSessionIDCookie sets or, with a negative maxAge, expires the server-side session id.
func (s *Server) SetSessionIDCookie(w http.ResponseWriter, sessionID string, r *http.Request, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionIDCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   storage.RequestScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func sessionIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(config.SessionIDCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// storeFor resolves where this request's session keys live. With a server-side
// backend a new session id is issued when the browser has none.
func (s *Server) storeFor(w http.ResponseWriter, r *http.Request) storage.Store {
	if s.backend == nil {
		return storage.NewCookieStore(w, r)
	}
	sid := sessionIDFromRequest(r)
	if sid == "" {
		sid = uuid.NewString()
		s.SetSessionIDCookie(w, sid, r, int(s.config.GetRefreshTokenMaxAge().Seconds()))
	}
	return storage.Scoped(s.backend, sid)
}

// staffLookup reads the persisted staff flag without creating a session.
func (s *Server) staffLookup(r *http.Request) bool {
	if s.backend == nil {
		return guard.CookieStaffLookup(r)
	}
	sid := sessionIDFromRequest(r)
	if sid == "" {
		return false
	}
	v, err := storage.Scoped(s.backend, sid).Get(r.Context(), config.StaffFlagKey)
	return err == nil && v == "true"
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	fullPath := path + "?error=" + url.QueryEscape(errorMsg)

	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", fullPath)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, fullPath, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func isJSONContent(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// wantsJSON is true for API paths, JSON bodies and clients that accept JSON but not HTML.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, RouteAdminAPI) || isJSONContent(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
