// Package storage holds the durable key-value stores that session state is
// persisted to. Every backend expires values after the maxAge given to Set;
// a maxAge of zero or less keeps the value until it is deleted.
package storage

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"time"
)

// Store is the minimal durable key-value interface used for session persistence.
type Store interface {
	// Get returns ErrNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, maxAge time.Duration) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error
}

// Scoped prefixes every key with prefix so one backend can hold many sessions.
func Scoped(store Store, prefix string) Store {
	return scopedStore{store: store, prefix: prefix + ":"}
}

type scopedStore struct {
	store  Store
	prefix string
}

func (s scopedStore) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, s.prefix+key)
}

func (s scopedStore) Set(ctx context.Context, key, value string, maxAge time.Duration) error {
	return s.store.Set(ctx, s.prefix+key, value, maxAge)
}

func (s scopedStore) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, s.prefix+key)
}
