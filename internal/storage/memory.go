package storage

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memory keeps values in process memory. Values are gone on restart.
type Memory struct {
	cache *cache.Cache
}

func NewMemory() *Memory {
	return &Memory{cache: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return clone(v.([]byte)), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	m.cache.Set(key, clone(value), ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.cache.Delete(k)
	}
	return nil
}

func (m *Memory) Close() error {
	m.cache.Flush()
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
