package server

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sunnysmathworld/smw-admin/internal/config"
	"github.com/sunnysmathworld/smw-admin/storage"
)

const redisKeyPrefix = "smw:session"

// NewSessionBackend opens the server-side store selected by SESSION_STORE. It
// returns a nil store for cookie mode. The returned close func is never nil.
func NewSessionBackend(ctx context.Context, cfg config.StoreConfig) (storage.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.GetSessionStore() {
	case config.StoreMemory:
		return storage.NewMemoryStore(), noop, nil
	case config.StoreRedis:
		client, err := storage.NewRedisClient(ctx, cfg.GetRedisURL())
		if err != nil {
			return nil, noop, errors.Wrap(err, "[server.NewSessionBackend] redis")
		}
		store, err := storage.NewRedisStore(client, storage.WithKeyPrefix(redisKeyPrefix))
		if err != nil {
			_ = client.Close()
			return nil, noop, errors.Wrap(err, "[server.NewSessionBackend] redis store")
		}
		return store, client.Close, nil
	default:
		return nil, noop, nil
	}
}
