package session_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunnysmathworld/smw-admin/internal/utils"
	"github.com/sunnysmathworld/smw-admin/session"
)

func TestDeriveUser(t *testing.T) {
	tests := []struct {
		name     string
		first    *string
		last     *string
		fullName string
	}{
		{"both names", utils.Ptr("  Ada"), utils.Ptr("Lovelace "), "Ada Lovelace"},
		{"first only", utils.Ptr("Ada"), nil, "Ada"},
		{"last only", nil, utils.Ptr("Lovelace"), "Lovelace"},
		{"blank names fall back to email", utils.Ptr("  "), utils.Ptr(""), "ada@example.com"},
		{"no names", nil, nil, "ada@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := session.DeriveUser(&session.Profile{
				ID: 1,
				User: &session.UserRecord{
					ID:        9,
					Email:     "ada@example.com",
					FirstName: tt.first,
					LastName:  tt.last,
					IsStaff:   true,
				},
			})
			require.NotNil(t, u)
			require.Equal(t, tt.fullName, u.FullName)
			require.Equal(t, 9, u.ID)
			require.True(t, u.IsStaff)
		})
	}

	require.Nil(t, session.DeriveUser(nil))
	require.Nil(t, session.DeriveUser(&session.Profile{ID: 1}))
}

func TestNormalizeEmail(t *testing.T) {
	once := session.NormalizeEmail("  Staff@Example.COM ")
	require.Equal(t, "staff@example.com", once)
	require.Equal(t, once, session.NormalizeEmail(once))
}

func TestTokenPairOAuth2Token(t *testing.T) {
	tok := session.TokenPair{Access: "a", Refresh: "r"}.OAuth2Token()
	require.Equal(t, "a", tok.AccessToken)
	require.Equal(t, "r", tok.RefreshToken)
	require.Equal(t, "Bearer", tok.Type())
}

func TestError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &session.Error{Kind: session.ErrTransientNetwork, Message: session.MsgLoginUnavailable, Err: cause}
	require.Equal(t, "Unable to login right now.", err.Error())
	require.ErrorIs(t, err, session.ErrTransientNetwork)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, session.ErrAuthentication)
}

func TestStateStatus(t *testing.T) {
	require.Equal(t, session.StatusAnonymous, session.State{}.Status())
	require.Equal(t, session.StatusInitializing, session.State{Initializing: true, RefreshToken: "r"}.Status())
	require.Equal(t, session.StatusRefreshing, session.State{Refreshing: true, RefreshToken: "r"}.Status())
	require.Equal(t, session.StatusAuthenticated, session.State{RefreshToken: "r"}.Status())
	require.Equal(t, "authenticated", session.StatusAuthenticated.String())

	staff := &session.User{IsStaff: true}
	require.True(t, session.State{AccessToken: "a", User: staff}.StaffVerified())
	require.False(t, session.State{User: staff}.StaffVerified())
	require.False(t, session.State{AccessToken: "a", User: &session.User{}}.StaffVerified())
}
