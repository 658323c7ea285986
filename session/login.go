package session

import (
	"context"
	"encoding/json"
)

// LoginResult is the outcome of Login. Message and Err are set on failure only.
type LoginResult struct {
	Success bool
	Message string
	Err     error
}

func loginFailure(err *Error) LoginResult {
	return LoginResult{Success: false, Message: err.Message, Err: err}
}

// Login exchanges credentials for a token pair, then requires the profile to
// be staff. Any failure leaves the session fully cleared. Login never panics.
func (m *Manager) Login(ctx context.Context, email, password string) (result LoginResult) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Interface("panic", r).Msg("login panicked")
			m.clearSession(ctx)
			result = loginFailure(newError(ErrTransientNetwork, MsgLoginUnavailable, nil))
		}
		m.metrics.observeLogin(result)
	}()

	pair, loginErr := m.requestTokenPair(ctx, NormalizeEmail(email), password)
	if loginErr != nil {
		m.logger.Info().Err(loginErr.Err).Str("reason", loginErr.Message).Msg("Admin login rejected")
		m.clearSession(ctx)
		return loginFailure(loginErr)
	}

	m.setAccessToken(ctx, pair.Access)
	m.setRefreshToken(ctx, pair.Refresh)

	profile := m.LoadProfile(ctx, pair.Access)
	if !profile.IsStaff() {
		m.clearSession(ctx)
		return loginFailure(newError(ErrAuthorization, MsgNotAuthorized, nil))
	}
	return LoginResult{Success: true}
}

func (m *Manager) requestTokenPair(ctx context.Context, email, password string) (TokenPair, *Error) {
	resp, err := m.postJSON(ctx, loginPath, "", loginRequest{Email: email, Password: password})
	if err != nil {
		return TokenPair{}, newError(ErrTransientNetwork, MsgLoginUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return TokenPair{}, newError(ErrTransientNetwork, MsgLoginUnavailable, err)
	}

	if !isSuccess(resp.StatusCode) {
		detail := MsgInvalidCredentials
		var e errorResponse
		if json.Unmarshal(body, &e) == nil && e.Detail != "" {
			detail = e.Detail
		}
		return TokenPair{}, newError(ErrAuthentication, detail, nil)
	}

	var pair TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return TokenPair{}, newError(ErrProtocol, MsgMalformedResponse, err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		return TokenPair{}, newError(ErrProtocol, MsgMalformedResponse, nil)
	}
	return pair, nil
}

// Logout tells the backend to revoke the refresh token when one is known, then
// clears the session regardless of the outcome.
func (m *Manager) Logout(ctx context.Context) {
	defer m.clearSession(ctx)

	refresh := m.refreshToken(ctx)
	if refresh == "" {
		return
	}

	resp, err := m.postJSON(ctx, logoutPath, m.accessToken(ctx), refreshRequest{Refresh: refresh})
	if err != nil {
		m.logger.Err(err).Str("token_type", "refresh_token").Msg("Failed to logout cleanly")
		return
	}
	defer resp.Body.Close()
	drain(resp)
	if !isSuccess(resp.StatusCode) {
		m.logger.Warn().Int("status", resp.StatusCode).Msg("Logout was not acknowledged")
	}
}
