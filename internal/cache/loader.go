package cache

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads a fresh value from the upstream.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Loader reads through a Cache. Failed fetches are never stored.
//
// Without de-duplication every caller that finds the cache cold issues its own
// upstream call and the last one to finish wins the entry. With Dedupe set,
// concurrent callers for the same key share one in-flight call.
type Loader[T any] struct {
	cache  *Cache[T]
	dedupe bool
	group  singleflight.Group
}

// NewLoader wraps c. dedupe enables single-flight sharing of cold fetches.
func NewLoader[T any](c *Cache[T], dedupe bool) *Loader[T] {
	return &Loader[T]{cache: c, dedupe: dedupe}
}

// Load returns the cached value for key or calls fetch and caches its result.
// The boolean reports whether the value came from the cache.
func (l *Loader[T]) Load(ctx context.Context, key string, fetch FetchFunc[T]) (T, bool, error) {
	if value, ok := l.cache.Get(key); ok {
		return value, true, nil
	}

	if !l.dedupe {
		value, err := l.fetchAndStore(ctx, key, fetch)
		return value, false, err
	}

	res, err, _ := l.group.Do(key, func() (any, error) {
		// Another flight may have filled the entry while this one was queued.
		if value, ok := l.cache.Get(key); ok {
			return value, nil
		}
		return l.fetchAndStore(ctx, key, fetch)
	})

	var zero T
	if err != nil {
		return zero, false, err
	}

	value, ok := res.(T)
	if !ok {
		return zero, false, fmt.Errorf("unexpected cached type %T", res)
	}

	return value, false, nil
}

func (l *Loader[T]) fetchAndStore(ctx context.Context, key string, fetch FetchFunc[T]) (T, error) {
	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	l.cache.Put(key, value)
	return value, nil
}
