package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	sessionStoreVar = "SESSION_STORE"
	redisURLVar     = "REDIS_URL"
	sessionFileVar  = "SMW_SESSION_FILE"
)

// Session store backends.
const (
	StoreCookie = "cookie"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type StoreConfig interface {
	GetSessionStore() string
	GetRedisURL() string
	GetSessionFile() string
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetSessionStore() string {
	switch s := strings.ToLower(GetEnv(sessionStoreVar, StoreCookie)); s {
	case StoreMemory, StoreRedis:
		return s
	default:
		return StoreCookie
	}
}

func (Store) GetRedisURL() string {
	return GetEnv(redisURLVar, "redis://localhost:6379/0")
}

// GetSessionFile is where the CLI keeps its tokens.
func (Store) GetSessionFile() string {
	if f := os.Getenv(sessionFileVar); f != "" {
		return f
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".smw-session.json"
	}
	return filepath.Join(dir, "smw", "session.json")
}
