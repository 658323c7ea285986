package session

import (
	"context"
	"encoding/json"
)

// RefreshAccessToken trades the refresh token for a new access token and
// returns it, or "" on failure. The token used is override, then the in-memory
// one, then the stored one; with none it returns "" without a network call.
// A rejected refresh, a transport failure or an unreadable body tears the
// session down. Callers sharing a refresh token share one backend call.
func (m *Manager) RefreshAccessToken(ctx context.Context, override string) string {
	refresh := override
	if refresh == "" {
		refresh = m.refreshToken(ctx)
	}
	if refresh == "" {
		return ""
	}

	ch := m.refreshGroup.DoChan(refresh, func() (any, error) {
		return m.refresh(context.WithoutCancel(ctx), refresh), nil
	})
	select {
	case res := <-ch:
		return res.Val.(string)
	case <-ctx.Done():
		return ""
	}
}

func (m *Manager) refresh(ctx context.Context, refresh string) string {
	m.setRefreshing(true)
	defer m.setRefreshing(false)

	resp, err := m.postJSON(ctx, refreshPath, "", refreshRequest{Refresh: refresh})
	if err != nil {
		m.logger.Err(err).Msg("Unable to refresh access token")
		m.metrics.observeRefresh(outcomeError)
		m.clearSession(ctx)
		return ""
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		drain(resp)
		m.logger.Info().Int("status", resp.StatusCode).Msg("Refresh token rejected")
		m.metrics.observeRefresh(outcomeRejected)
		m.clearSession(ctx)
		return ""
	}

	var payload refreshResponse
	body, err := readBody(resp)
	if err == nil {
		err = json.Unmarshal(body, &payload)
	}
	if err != nil {
		m.logger.Err(err).Msg("Unable to refresh access token")
		m.metrics.observeRefresh(outcomeError)
		m.clearSession(ctx)
		return ""
	}
	if payload.Access == "" {
		m.metrics.observeRefresh(outcomeEmpty)
		return ""
	}

	m.setAccessToken(ctx, payload.Access)
	m.metrics.observeRefresh(outcomeSuccess)
	return payload.Access
}

func (m *Manager) setRefreshing(refreshing bool) {
	m.mu.Lock()
	m.state.Refreshing = refreshing
	m.mu.Unlock()
}
