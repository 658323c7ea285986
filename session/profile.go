package session

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// LoadProfile fetches the profile with override, the in-memory access token or
// the stored one, in that order. A 401 triggers one refresh and one retry.
// Other failures return nil and leave the tokens alone.
func (m *Manager) LoadProfile(ctx context.Context, override string) *Profile {
	token := override
	if token == "" {
		token = m.accessToken(ctx)
	}
	if token == "" {
		return nil
	}

	for attempt := 1; attempt <= maxProfileAttempts; attempt++ {
		profile, status, err := m.requestProfile(ctx, token)
		if err != nil {
			m.logger.Err(err).Int("attempt", attempt).Msg("Failed to load profile")
			m.metrics.observeProfile(outcomeError)
			return nil
		}
		if profile != nil {
			m.setProfile(ctx, profile)
			m.metrics.observeProfile(outcomeSuccess)
			return profile
		}
		if status != http.StatusUnauthorized || attempt == maxProfileAttempts {
			m.logger.Info().Int("status", status).Int("attempt", attempt).Msg("Profile request rejected")
			m.metrics.observeProfile(outcomeRejected)
			return nil
		}

		token = m.RefreshAccessToken(ctx, "")
		if token == "" {
			m.metrics.observeProfile(outcomeRejected)
			return nil
		}
	}
	return nil
}

// requestProfile returns the decoded profile on 2xx, otherwise the status code.
func (m *Manager) requestProfile(ctx context.Context, token string) (*Profile, int, error) {
	req, err := m.NewRequest(ctx, http.MethodGet, profilePath, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	setBearer(req, token)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "[Manager.requestProfile] client.Do")
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		drain(resp)
		return nil, resp.StatusCode, nil
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, resp.StatusCode, errors.Wrap(err, "[Manager.requestProfile] decode profile")
	}
	return &profile, resp.StatusCode, nil
}
