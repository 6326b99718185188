package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/dental-console/pkg/metrics"
)

type instrumented struct {
	next   Store
	driver string
	m      *metrics.Metrics
}

// Instrument records operation counts and latency for s. A nil metrics set returns s as is.
func Instrument(s Store, driver string, m *metrics.Metrics) Store {
	if m == nil {
		return s
	}
	return &instrumented{next: s, driver: driver, m: m}
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := i.next.Get(ctx, key)
	// a miss is a normal outcome, not a failure
	observed := err
	if errors.Is(err, ErrNotFound) {
		observed = nil
	}
	i.m.ObserveStorage(i.driver, "get", start, observed)
	return v, err
}

func (i *instrumented) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := i.next.Set(ctx, key, value, ttl)
	i.m.ObserveStorage(i.driver, "set", start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := i.next.Delete(ctx, keys...)
	i.m.ObserveStorage(i.driver, "delete", start, err)
	return err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
