package store

import (
	"context"
	"errors"
	"fmt"
)

// Keys under which client state is persisted.
const (
	KeySession         = "quiz_session"
	KeyProgress        = "quiz_progress"
	KeyHistory         = "quiz_history"
	KeyUserName        = "quiz_username"
	KeyUserCredentials = "user_gemini_keys"
)

// ErrCapacityExceeded is returned by Set when the backend has no room left
// for the value.
var ErrCapacityExceeded = errors.New("store: capacity exceeded")

// KV is a string-keyed store of opaque values. Every method may fail; callers
// decide whether a failure is fatal.
type KV interface {
	// Get returns the stored value and true, or nil and false when absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config selects and configures a KV backend.
type Config struct {
	Backend string `yaml:"backend"`

	// Path is the SQLite database file.
	Path string `yaml:"path"`

	// Quota caps the total stored bytes for the sqlite and memory backends.
	// Zero disables the cap.
	Quota int64 `yaml:"quota"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"-"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
}

// DefaultQuota mirrors the budget a browser gives local storage.
const DefaultQuota = 5 << 20

// Handle is an opened KV that owns resources.
type Handle interface {
	KV
	Close() error
}

// Open builds the backend named in cfg.
func Open(ctx context.Context, cfg Config) (Handle, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		path := cfg.Path
		if path == "" {
			p, err := DefaultDBPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return OpenSQLite(ctx, path, cfg.Quota)
	case BackendRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case BackendMemory:
		return NewMemory(cfg.Quota), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}
}
