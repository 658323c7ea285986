package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Type is the token_type claim.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

const (
	DefaultAccessTokenExpiry  = 5 * time.Minute
	DefaultRefreshTokenExpiry = 24 * time.Hour
)

// Pair is the access and refresh token issued at login.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Claims is the verified content of a token.
type Claims struct {
	Type      Type
	UserID    int
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Manager struct {
	signer             Signer
	revokedCache       RevokedTokenCache
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

func WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = accessTokenExpiry
		m.refreshTokenExpiry = refreshTokenExpiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithRevokedTokenCache(cache RevokedTokenCache) ManagerOption {
	return func(m *Manager) {
		m.revokedCache = cache
	}
}

func New(signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		signer:       signer,
		revokedCache: NewInMemoryRevokedTokenCache(),
	}

	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry <= 0 {
		m.accessTokenExpiry = DefaultAccessTokenExpiry
	}
	if m.refreshTokenExpiry <= 0 {
		m.refreshTokenExpiry = DefaultRefreshTokenExpiry
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// IssuePair creates a fresh access and refresh token for a user.
func (m *Manager) IssuePair(userID int) (Pair, error) {
	refresh, err := m.create(TypeRefresh, userID, m.refreshTokenExpiry)
	if err != nil {
		return Pair{}, errors.Wrap(err, "Manager.IssuePair refresh")
	}
	access, err := m.create(TypeAccess, userID, m.accessTokenExpiry)
	if err != nil {
		return Pair{}, errors.Wrap(err, "Manager.IssuePair access")
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token.
func (m *Manager) Refresh(rawRefresh string) (string, error) {
	claims, err := m.Parse(rawRefresh, TypeRefresh)
	if err != nil {
		return "", err
	}
	return m.create(TypeAccess, claims.UserID, m.accessTokenExpiry)
}

// Revoke blacklists a refresh token. Revoking twice is an error, as is revoking an access token.
func (m *Manager) Revoke(rawRefresh string) error {
	claims, err := m.Parse(rawRefresh, TypeRefresh)
	if err != nil {
		return err
	}
	m.revokedCache.Cleanup(m.nowFunc())
	return m.revokedCache.Add(claims.ID, claims.ExpiresAt)
}

// Parse verifies a token's signature, expiry, type and revocation state.
func (m *Manager) Parse(raw string, want Type) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, mapClaims, m.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(m.nowFunc),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	claims, err := claimsFrom(mapClaims)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, ErrWrongType
	}
	if claims.Type == TypeRefresh && m.revokedCache.IsRevoked(claims.ID) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (m *Manager) create(t Type, userID int, expiry time.Duration) (string, error) {
	now := m.nowFunc()
	claims := jwt.MapClaims{
		"token_type": string(t),
		"user_id":    userID,
		"iat":        now.Unix(),
		"exp":        now.Add(expiry).Unix(),
		"jti":        uuid.New().String(),
	}
	return m.signer.Sign(claims)
}

func claimsFrom(mc jwt.MapClaims) (*Claims, error) {
	tokenType, _ := mc["token_type"].(string)
	userID, okUser := mc["user_id"].(float64)
	jti, _ := mc["jti"].(string)
	if tokenType == "" || !okUser || jti == "" {
		return nil, ErrMissingClaims
	}

	claims := &Claims{Type: Type(tokenType), UserID: int(userID), ID: jti}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}
