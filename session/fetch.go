package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const maxResponseBytes = 1 << 20

type fetchOptions struct {
	skipAuth bool
}

type FetchOption func(*fetchOptions)

// SkipAuth sends the request untouched: no bearer header and no 401 handling.
func SkipAuth() FetchOption {
	return func(o *fetchOptions) {
		o.skipAuth = true
	}
}

// BuildAPIURL joins base and path with exactly one slash. Absolute http(s)
// URLs are returned unchanged.
func BuildAPIURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

// NewRequest builds a request against the backend base URL.
func (m *Manager) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, BuildAPIURL(m.baseURL, path), body)
	if err != nil {
		return nil, errors.Wrapf(err, "[Manager.NewRequest] %s %s", method, path)
	}
	return req, nil
}

// FetchWithAuth sends req with the current access token. On a 401 it refreshes
// once and re-issues the request with the new token; if the refresh fails the
// original 401 response is returned. Transport errors are returned unchanged.
// req itself is not modified apart from buffering a body that cannot be replayed.
func (m *Manager) FetchWithAuth(req *http.Request, opts ...FetchOption) (*http.Response, error) {
	var o fetchOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.skipAuth {
		return m.client.Do(req)
	}

	ctx := req.Context()
	if err := makeReplayable(req); err != nil {
		return nil, err
	}

	first, err := cloneRequest(req)
	if err != nil {
		return nil, err
	}
	if token := m.accessToken(ctx); token != "" {
		setBearer(first, token)
	}

	resp, err := m.client.Do(first)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	refreshed := m.RefreshAccessToken(ctx, "")
	if refreshed == "" {
		return resp, nil
	}

	retry, err := cloneRequest(req)
	if err != nil {
		m.logger.Err(err).Msg("Unable to replay request after refresh")
		return resp, nil
	}
	drain(resp)
	resp.Body.Close()

	setBearer(retry, refreshed)
	m.metrics.observeFetchRetry()
	return m.client.Do(retry)
}

// makeReplayable buffers a body that has no GetBody so it can be sent twice.
func makeReplayable(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return nil
	}
	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return errors.Wrap(err, "[makeReplayable] read request body")
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	req.Body, _ = req.GetBody()
	req.ContentLength = int64(len(data))
	return nil
}

func cloneRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, errors.Wrap(err, "[cloneRequest] GetBody")
		}
		clone.Body = body
	}
	return clone, nil
}

func setBearer(req *http.Request, token string) {
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
}

func (m *Manager) postJSON(ctx context.Context, path, bearer string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.postJSON] encode payload")
	}
	req, err := m.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		setBearer(req, bearer)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[Manager.postJSON] POST %s", path)
	}
	return resp, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	return body, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// TokenSource exposes the managed access token as an oauth2.TokenSource,
// refreshing when no access token is held.
func (m *Manager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &managedTokenSource{ctx: ctx, manager: m}
}

type managedTokenSource struct {
	ctx     context.Context
	manager *Manager
}

func (s *managedTokenSource) Token() (*oauth2.Token, error) {
	token := s.manager.accessToken(s.ctx)
	if token == "" {
		token = s.manager.RefreshAccessToken(s.ctx, "")
	}
	if token == "" {
		return nil, ErrSessionExpired
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
