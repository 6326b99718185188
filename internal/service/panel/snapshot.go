// Package panel holds the last-applied data behind each console panel.
package panel

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/repository"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/metrics"
)

// Snapshot is the applied result of the most recent fetch for one panel. Every Refresh takes
// a ticket; a result is applied only if no later ticket has been applied already, so a slow
// response can never overwrite a newer one. Failed fetches leave the applied value alone.
type Snapshot[T any] struct {
	name    string
	metrics *metrics.Metrics

	mu      sync.Mutex
	next    uint64
	applied uint64
	value   T
	loaded  bool

	mutating sync.Mutex
}

func NewSnapshot[T any](name string, m *metrics.Metrics) *Snapshot[T] {
	return &Snapshot[T]{name: name, metrics: m}
}

// Refresh runs fetch and returns the value applied afterwards, which is fetch's result unless a
// newer one won the race.
func (s *Snapshot[T]) Refresh(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	s.mu.Lock()
	s.next++
	ticket := s.next
	s.mu.Unlock()

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket > s.applied {
		s.value = v
		s.applied = ticket
		s.loaded = true
	} else {
		s.metrics.StaleDiscarded(s.name)
	}
	return s.value, nil
}

// Mutate runs fn with every other mutation of this panel excluded.
func (s *Snapshot[T]) Mutate(ctx context.Context, fn func(context.Context) error) error {
	s.mutating.Lock()
	defer s.mutating.Unlock()
	return fn(ctx)
}

// Current returns the applied value and whether anything has been applied yet.
func (s *Snapshot[T]) Current() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.loaded
}

// DefaultIdleTTL is how long an unused session keeps its snapshots.
const DefaultIdleTTL = 2 * time.Hour

// Set gives every session its own Snapshot of one panel, so one browser never sees data
// fetched with another session's token.
type Set[T any] struct {
	name    string
	metrics *metrics.Metrics

	mu        sync.Mutex
	snapshots *cache.Cache
}

func NewSet[T any](name string, m *metrics.Metrics, idle time.Duration) *Set[T] {
	if idle <= 0 {
		idle = DefaultIdleTTL
	}
	return &Set[T]{
		name:      name,
		metrics:   m,
		snapshots: cache.New(idle, idle/2),
	}
}

// For returns the session's snapshot, creating it on first use. Each call restarts the idle timer.
func (s *Set[T]) For(sessionID string) *Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.lookup(sessionID)
	if !ok {
		snap = NewSnapshot[T](s.name, s.metrics)
	}
	s.snapshots.SetDefault(sessionID, snap)
	return snap
}

func (s *Set[T]) lookup(sessionID string) (*Snapshot[T], bool) {
	v, ok := s.snapshots.Get(sessionID)
	if !ok {
		return nil, false
	}
	snap, ok := v.(*Snapshot[T])
	return snap, ok
}

// Forget drops the session's snapshot.
func (s *Set[T]) Forget(sessionID string) {
	s.snapshots.Delete(sessionID)
}

// Len reports how many sessions currently hold a snapshot.
func (s *Set[T]) Len() int {
	return s.snapshots.ItemCount()
}

// Authorize attaches the session token for backend calls. A nil session is unauthorized.
func Authorize(ctx context.Context, sess *model.Session) (context.Context, error) {
	if sess == nil || sess.AccessToken == "" {
		return nil, apperrors.Unauthorized(model.ErrNoSession)
	}
	return repository.WithAccessToken(ctx, sess.AccessToken), nil
}
