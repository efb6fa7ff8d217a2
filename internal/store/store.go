// Package store persists settings and charts as JSON blobs behind a small
// key-value interface. Memory, SQLite and Redis backends are provided.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned for missing and expired keys.
var ErrNotFound = errors.New("key not found")

// KV stores opaque values. A zero ttl keeps the value until deleted.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects a backend.
type Config struct {
	// Driver is "memory", "sqlite" or "redis".
	Driver string `mapstructure:"driver" yaml:"driver"`
	// DSN is a file path for sqlite and a redis:// URL for redis.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// Open creates the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (KV, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite", "sqlite3":
		return OpenSQLite(ctx, cfg.DSN)
	case "redis":
		return OpenRedis(ctx, cfg.DSN)
	default:
		return nil, errors.WithHint(
			errors.Newf("unknown store driver %q", cfg.Driver),
			"use one of: memory, sqlite, redis")
	}
}
