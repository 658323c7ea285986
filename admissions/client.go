// Package admissions reads and reviews admission applications through an
// authenticated session.
package admissions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sunnysmathworld/smw-admin/session"
)

const (
	listPath   = "/admissions/"
	detailPath = "/admissions/%d/"
	reviewPath = "/admissions/%d/review/"

	maxResponseBytes = 8 << 20
)

// Fetcher is the part of session.Manager the client needs.
type Fetcher interface {
	NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error)
	FetchWithAuth(req *http.Request, opts ...session.FetchOption) (*http.Response, error)
}

var _ Fetcher = (*session.Manager)(nil)

type Client struct {
	fetcher Fetcher
}

func NewClient(fetcher Fetcher) (*Client, error) {
	if fetcher == nil {
		return nil, errors.New("[admissions.NewClient] fetcher is required")
	}
	return &Client{fetcher: fetcher}, nil
}

// List returns every application visible to the session, newest first.
func (c *Client) List(ctx context.Context) ([]Record, error) {
	var apps []ApplicationAPI
	if err := c.do(ctx, http.MethodGet, listPath, nil, &apps); err != nil {
		return nil, errors.Wrap(err, "[admissions.Client.List]")
	}
	records := make([]Record, 0, len(apps))
	for _, app := range apps {
		records = append(records, MapApplication(app))
	}
	return records, nil
}

func (c *Client) Get(ctx context.Context, id int) (*Record, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	var app ApplicationAPI
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf(detailPath, id), nil, &app); err != nil {
		return nil, errors.Wrapf(err, "[admissions.Client.Get] id=%d", id)
	}
	record := MapApplication(app)
	return &record, nil
}

// Review marks an application reviewed and/or approved and returns it updated.
func (c *Client) Review(ctx context.Context, id int, review Review) (*Record, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	var app ApplicationAPI
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf(reviewPath, id), review, &app); err != nil {
		return nil, errors.Wrapf(err, "[admissions.Client.Review] id=%d", id)
	}
	record := MapApplication(app)
	return &record, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(data)
	}

	req, err := c.fetcher.NewRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.fetcher.FetchWithAuth(req)
	if err != nil {
		return errors.Wrap(err, "fetch")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	var payload struct {
		Detail string `json:"detail"`
	}
	detail := http.StatusText(resp.StatusCode)
	if json.Unmarshal(body, &payload) == nil && payload.Detail != "" {
		detail = payload.Detail
	}

	e := &APIError{StatusCode: resp.StatusCode, Detail: detail}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		e.kind = ErrSessionExpired
	case http.StatusForbidden:
		e.kind = ErrForbidden
	case http.StatusNotFound:
		e.kind = ErrNotFound
	}
	return e
}
