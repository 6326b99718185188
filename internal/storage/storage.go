// Package storage is the console's local persisted state: small opaque values under
// well-known keys (settings blob, session credentials).
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jwalitptl/dental-console/internal/config"
	"github.com/jwalitptl/dental-console/pkg/metrics"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("storage: key not found")

// Store holds opaque values. Set replaces the whole value in one step; readers never observe
// a partially written value. A zero ttl keeps the value until deleted.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Open builds the driver named in cfg and wraps it with metrics.
func Open(ctx context.Context, cfg config.StorageConfig, m *metrics.Metrics) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "memory":
		s = NewMemory()
	case "file":
		s, err = NewFile(cfg.Dir)
	case "redis":
		s, err = NewRedis(ctx, cfg.RedisURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, cfg.Driver, m), nil
}
