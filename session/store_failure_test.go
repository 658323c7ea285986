package session_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunnysmathworld/smw-admin/internal/config"
	"github.com/sunnysmathworld/smw-admin/session"
	"github.com/sunnysmathworld/smw-admin/storage/mocks"
	"go.uber.org/mock/gomock"
)

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("redis: connection pool timeout")

	t.Run("unreadable store bootstraps anonymous", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)
		backend := newFakeBackend(t)

		store.EXPECT().Get(gomock.Any(), config.AccessTokenKey).Return("", storeErr)
		store.EXPECT().Get(gomock.Any(), config.RefreshTokenKey).Return("", storeErr)

		m, err := session.New(store, session.WithBaseURL(backend.baseURL()), session.WithHTTPClient(backend.server.Client()))
		require.NoError(t, err)

		m.Bootstrap(ctx)
		require.Zero(t, backend.total())
		require.Equal(t, session.StatusAnonymous, m.State().Status())
	})

	t.Run("failed write still returns the refreshed token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)
		backend := newFakeBackend(t)
		backend.handle("/api/token/refresh/", respond(http.StatusOK, map[string]string{"access": testAccess2}))

		store.EXPECT().Set(gomock.Any(), config.AccessTokenKey, testAccess2, gomock.Any()).Return(storeErr)

		m, err := session.New(store, session.WithBaseURL(backend.baseURL()), session.WithHTTPClient(backend.server.Client()))
		require.NoError(t, err)

		require.Equal(t, testAccess2, m.RefreshAccessToken(ctx, testRefresh))
		require.Equal(t, testAccess2, m.State().AccessToken)
	})
}
