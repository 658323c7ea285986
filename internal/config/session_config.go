package config

import "time"

// Persisted session keys. The same names are used as cookie names.
const (
	AccessTokenKey  = "smw_access_token"
	RefreshTokenKey = "smw_refresh_token"
	StaffFlagKey    = "smw_is_staff"

	// SessionIDCookie identifies a server-side session when tokens are kept in memory or redis.
	SessionIDCookie = "smw_sid"
)

type SessionConfig interface {
	GetAccessTokenMaxAge() time.Duration
	GetRefreshTokenMaxAge() time.Duration
	GetStaffFlagMaxAge() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetAccessTokenMaxAge() time.Duration {
	return 15 * time.Minute
}

func (Session) GetRefreshTokenMaxAge() time.Duration {
	return 7 * 24 * time.Hour
}

func (Session) GetStaffFlagMaxAge() time.Duration {
	return 7 * 24 * time.Hour
}
