//go:build integration

package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/sunnysmathworld/smw-admin/storage"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := storage.NewRedisClient(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	client := newRedisClient(t)

	s, err := storage.NewRedisStore(client, storage.WithKeyPrefix("smw:test:"))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "smw_access_token", "a1", 900*time.Second))
	v, err := s.Get(ctx, "smw_access_token")
	require.NoError(t, err)
	require.Equal(t, "a1", v)

	ttl, err := client.TTL(ctx, "smw:test:smw_access_token").Result()
	require.NoError(t, err)
	require.InDelta(t, 900, ttl.Seconds(), 5)

	require.NoError(t, s.Delete(ctx, "smw_access_token"))
	_, err = s.Get(ctx, "smw_access_token")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, "smw_is_staff", "true", 500*time.Millisecond))
	require.Eventually(t, func() bool {
		_, err := s.Get(ctx, "smw_is_staff")
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)
}
