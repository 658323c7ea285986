package storage

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// CookieStore persists values as cookies on a single request/response pair.
// Values written during the request are visible to later Gets on the same store.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool

	mu      sync.Mutex
	pending map[string]*string // nil value marks a deletion
}

var _ Store = (*CookieStore)(nil)

func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{
		w:       w,
		r:       r,
		secure:  RequestScheme(r) == "https",
		pending: make(map[string]*string),
	}
}

func (c *CookieStore) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrKeyRequired
	}

	c.mu.Lock()
	v, written := c.pending[key]
	c.mu.Unlock()
	if written {
		if v == nil {
			return "", ErrNotFound
		}
		return *v, nil
	}

	cookie, err := c.r.Cookie(key)
	if err != nil || cookie.Value == "" {
		return "", ErrNotFound
	}
	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return cookie.Value, nil
	}
	return value, nil
}

func (c *CookieStore) Set(_ context.Context, key, value string, maxAge time.Duration) error {
	if key == "" {
		return ErrKeyRequired
	}

	c.mu.Lock()
	c.pending[key] = &value
	c.mu.Unlock()

	cookie := c.cookie(key, url.QueryEscape(value))
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge / time.Second)
	}
	http.SetCookie(c.w, cookie)
	return nil
}

func (c *CookieStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}

	c.mu.Lock()
	c.pending[key] = nil
	c.mu.Unlock()

	cookie := c.cookie(key, "")
	cookie.MaxAge = -1
	http.SetCookie(c.w, cookie)
	return nil
}

func (c *CookieStore) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// RequestScheme reports "https" for TLS requests or when a proxy says so via X-Forwarded-Proto.
func RequestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
