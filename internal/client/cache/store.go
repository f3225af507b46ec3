// Package cache provides the client-side resource cache: reads are cached
// under a per-resource key with stale-while-revalidate semantics, and every
// successful mutation invalidates its resource key so the next read hits the
// backend again.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Resource keys. Each entity list is exclusively owned by its key; dialogs
// never write cached values directly.
const (
	KeyProfile      = "profile"
	KeyProjects     = "projects"
	KeyAchievements = "achievements"
	KeyActivities   = "activities"
	KeySettings     = "settings"
)

// entry is one cached resource value.
type entry struct {
	value      any
	fetchedAt  time.Time
	refreshing bool
}

// Store caches resource values by key. A value older than the TTL is still
// served (last known good) while a single background refresh runs; an
// invalidated key forces the next read to fetch synchronously.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry
	log     *zap.Logger
}

// NewStore creates a Store. If ttl is 0 it defaults to 30 seconds.
func NewStore(ttl time.Duration, log *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]*entry),
		log:     log,
	}
}

// Invalidate drops the cached entry for key. Invalidation is idempotent:
// repeating it without an intervening mutation changes nothing further.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// get returns the cached value for key, fetching on a miss. A fresh value is
// returned as-is. A stale value is returned immediately and refreshed once in
// the background; the refreshed value becomes visible to the next read.
func (s *Store) get(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		if time.Since(e.fetchedAt) <= s.ttl {
			v := e.value
			s.mu.Unlock()
			return v, nil
		}
		if !e.refreshing {
			e.refreshing = true
			go s.refresh(key, e, fetch)
		}
		v := e.value
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	// Miss: fetch synchronously so the caller can distinguish a backend
	// failure from an empty list.
	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.put(key, v)
	return v, nil
}

// refresh re-fetches one stale key in the background. Failures keep the last
// known value; the entry stays stale and the next read retries the refresh.
// started is the entry the refresh was launched for: if the key no longer
// holds that same entry the result is discarded, so a refresh racing a
// mutate-invalidate-refetch cycle can never resurrect pre-mutation state.
func (s *Store) refresh(key string, started *entry, fetch func(context.Context) (any, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), s.ttl)
	defer cancel()

	v, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || e != started {
		// Invalidated (and possibly re-fetched) while the refresh was in
		// flight; discard the result.
		return
	}
	e.refreshing = false
	if err != nil {
		s.log.Warn("background refresh failed", zap.String("resource", key), zap.Error(err))
		return
	}
	e.value = v
	e.fetchedAt = time.Now()
}

// put stores a freshly fetched value under key.
func (s *Store) put(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{value: v, fetchedAt: time.Now()}
}

// getTyped adapts Store.get to a concrete resource type.
func getTyped[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error)) (T, error) {
	v, err := s.get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
