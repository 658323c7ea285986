package storage_test

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sunnysmathworld/smw-admin/storage"
)

func responseCookies(t *testing.T, rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	t.Helper()
	cookies := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	return cookies
}

func TestCookieStore(t *testing.T) {
	ctx := context.Background()

	t.Run("reads request cookies", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/admin", nil)
		r.AddCookie(&http.Cookie{Name: "smw_refresh_token", Value: "a%2Bb"})
		s := storage.NewCookieStore(httptest.NewRecorder(), r)

		v, err := s.Get(ctx, "smw_refresh_token")
		require.NoError(t, err)
		require.Equal(t, "a+b", v)

		_, err = s.Get(ctx, "smw_access_token")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("set writes cookie attributes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/admin", nil)
		s := storage.NewCookieStore(rec, r)

		require.NoError(t, s.Set(ctx, "smw_access_token", "abc", 900*time.Second))

		c := responseCookies(t, rec)["smw_access_token"]
		require.NotNil(t, c)
		require.Equal(t, "abc", c.Value)
		require.Equal(t, "/", c.Path)
		require.Equal(t, 900, c.MaxAge)
		require.Equal(t, http.SameSiteLaxMode, c.SameSite)
		require.True(t, c.HttpOnly)
		require.False(t, c.Secure)
	})

	t.Run("secure over https", func(t *testing.T) {
		for name, r := range map[string]*http.Request{
			"tls": func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/admin", nil)
				r.TLS = &tls.ConnectionState{}
				return r
			}(),
			"forwarded": func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/admin", nil)
				r.Header.Set("X-Forwarded-Proto", "https")
				return r
			}(),
		} {
			t.Run(name, func(t *testing.T) {
				rec := httptest.NewRecorder()
				s := storage.NewCookieStore(rec, r)
				require.NoError(t, s.Set(ctx, "smw_is_staff", "true", time.Hour))
				require.True(t, responseCookies(t, rec)["smw_is_staff"].Secure)
			})
		}
	})

	t.Run("pending writes are visible", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/admin", nil)
		r.AddCookie(&http.Cookie{Name: "smw_access_token", Value: "old"})
		s := storage.NewCookieStore(rec, r)

		require.NoError(t, s.Set(ctx, "smw_access_token", "new", time.Minute))
		v, err := s.Get(ctx, "smw_access_token")
		require.NoError(t, err)
		require.Equal(t, "new", v)

		require.NoError(t, s.Delete(ctx, "smw_access_token"))
		_, err = s.Get(ctx, "smw_access_token")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete expires the cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/admin", nil)
		s := storage.NewCookieStore(rec, r)

		require.NoError(t, s.Delete(ctx, "smw_refresh_token"))
		c := responseCookies(t, rec)["smw_refresh_token"]
		require.NotNil(t, c)
		require.Equal(t, -1, c.MaxAge)
		require.Empty(t, c.Value)
	})
}
