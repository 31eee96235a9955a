package cache

import (
	"context"
	"errors"
	"time"
)

// ErrDisabled is returned by Get when the query's enabled predicate is
// false. A disabled query never fetches and never populates the store.
var ErrDisabled = errors.New("query disabled")

// Query binds one cache key to one fetch function. Two queries built on the
// same store with equal keys share a cache entry and an in-flight request.
//
// A fetched entry is served until it is invalidated. StaleTime, when set,
// additionally expires the entry after that duration; the zero value means
// the entry only goes stale through invalidation.
type Query[T any] struct {
	store     *Store
	key       Key
	fetchFn   func(context.Context) (T, error)
	Enabled   func() bool
	StaleTime time.Duration
}

func NewQuery[T any](store *Store, key Key, fetch func(context.Context) (T, error)) *Query[T] {
	return &Query[T]{store: store, key: key, fetchFn: fetch}
}

func (q *Query[T]) Key() Key { return q.key }

// Get returns the cached value, fetching when the entry is missing, stale,
// or older than StaleTime. Concurrent Gets for one key share one fetch.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	var zero T
	if q.Enabled != nil && !q.Enabled() {
		return zero, ErrDisabled
	}
	if value, ok := q.fresh(); ok {
		return value, nil
	}
	raw, err := q.store.fetch(ctx, q.key, func(ctx context.Context) (any, error) {
		if value, ok := q.fresh(); ok {
			return value, nil
		}
		value, err := q.fetchFn(ctx)
		if err != nil {
			return zero, err
		}
		q.store.Set(q.key, value)
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	return raw.(T), nil
}

// Peek returns the cached value without fetching, stale or not.
func (q *Query[T]) Peek() (T, bool) {
	var zero T
	entry, ok := q.store.Entry(q.key)
	if !ok {
		return zero, false
	}
	value, ok := entry.Data.(T)
	if !ok {
		return zero, false
	}
	return value, true
}

// Mount subscribes the query to invalidations of its key: each one schedules
// a background refetch. The returned unmount cancels the subscription;
// refetches in flight at that point still complete, their results simply go
// unobserved.
func (q *Query[T]) Mount(ctx context.Context) func() {
	return q.store.Watch(q.key, func(Key) {
		go func() {
			_, _ = q.Get(ctx)
		}()
	})
}

func (q *Query[T]) fresh() (T, bool) {
	var zero T
	entry, ok := q.store.Entry(q.key)
	if !ok || entry.Stale {
		return zero, false
	}
	if q.StaleTime > 0 && time.Since(entry.FetchedAt) >= q.StaleTime {
		return zero, false
	}
	value, ok := entry.Data.(T)
	if !ok {
		return zero, false
	}
	return value, true
}
