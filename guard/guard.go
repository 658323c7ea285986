// Package guard is the coarse admin route gate. It trusts only the persisted
// staff flag, so it can run before any profile has been fetched; the
// authoritative check happens once the session is bootstrapped.
package guard

import (
	"net/http"
	"strings"

	"github.com/sunnysmathworld/smw-admin/internal/config"
)

const (
	AdminPrefix = "/admin"
	LoginPath   = "/admin/login"
)

// StaffLookup reports whether the request carries the staff flag.
type StaffLookup func(r *http.Request) bool

// CookieStaffLookup reads the smw_is_staff cookie.
func CookieStaffLookup(r *http.Request) bool {
	c, err := r.Cookie(config.StaffFlagKey)
	return err == nil && c.Value == "true"
}

// IsAdminPath matches the admin prefix itself and everything below it.
// Siblings such as /administration are outside the prefix.
func IsAdminPath(path string) bool {
	return path == AdminPrefix || strings.HasPrefix(path, AdminPrefix+"/")
}

// IsLoginPath matches any path starting with the login route.
func IsLoginPath(path string) bool {
	return strings.HasPrefix(path, LoginPath)
}

// Decide returns the path to redirect to, or "" to let the request through.
func Decide(path string, isStaff bool) string {
	if !IsAdminPath(path) {
		return ""
	}
	isLogin := IsLoginPath(path)
	switch {
	case !isStaff && !isLogin:
		return LoginPath
	case isStaff && isLogin:
		return AdminPrefix
	default:
		return ""
	}
}

// Middleware redirects with 307 according to Decide. The query string is dropped.
func Middleware(lookup StaffLookup) func(http.Handler) http.Handler {
	if lookup == nil {
		lookup = CookieStaffLookup
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdminPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if target := Decide(r.URL.Path, lookup(r)); target != "" {
				http.Redirect(w, r, target, http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
