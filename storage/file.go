package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type fileEntry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// FileStore keeps values in a single JSON document on disk. It is meant for a
// single CLI process; writes replace the file atomically.
type FileStore struct {
	path    string
	mu      sync.Mutex
	nowTime func() time.Time
}

var _ Store = (*FileStore)(nil)

type FileOption func(*FileStore)

func WithFileNowTime(nowFunc func() time.Time) FileOption {
	return func(f *FileStore) {
		f.nowTime = nowFunc
	}
}

func NewFileStore(path string, opts ...FileOption) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("[NewFileStore] path is required")
	}
	f := &FileStore{path: path, nowTime: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrKeyRequired
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return "", err
	}
	entry, ok := entries[key]
	if !ok || f.expired(entry) {
		return "", ErrNotFound
	}
	return entry.Value, nil
}

func (f *FileStore) Set(_ context.Context, key, value string, maxAge time.Duration) error {
	if key == "" {
		return ErrKeyRequired
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}
	entry := fileEntry{Value: value}
	if maxAge > 0 {
		entry.ExpiresAt = f.nowTime().Add(maxAge).UTC()
	}
	entries[key] = entry
	return f.save(entries)
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return f.save(entries)
}

func (f *FileStore) expired(e fileEntry) bool {
	return !e.ExpiresAt.IsZero() && !f.nowTime().Before(e.ExpiresAt)
}

func (f *FileStore) load() (map[string]fileEntry, error) {
	entries := make(map[string]fileEntry)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.load] read session file")
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "[FileStore.load] decode session file")
	}
	return entries, nil
}

func (f *FileStore) save(entries map[string]fileEntry) error {
	for k, e := range entries {
		if f.expired(e) {
			delete(entries, k)
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileStore.save] encode session file")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.save] create session dir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return errors.Wrap(err, "[FileStore.save] create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "[FileStore.save] write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "[FileStore.save] close temp file")
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.save] chmod temp file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), f.path), "[FileStore.save] replace session file")
}
