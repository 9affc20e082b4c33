package common

import (
	"context"
	"time"
)

// CacheInterface defines the contract for cache implementations. Values are
// stored as JSON so both backends hand back the same concrete types.
type CacheInterface interface {
	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Get decodes the cached value into dest and reports whether it was found
	Get(ctx context.Context, key string, dest any) bool

	Delete(ctx context.Context, key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetOrLoad returns the cached value for key, or calls loader and caches its
// result. A failing cache write is not an error for the caller.
func GetOrLoad[T any](ctx context.Context, c CacheInterface, key string, ttl time.Duration, loader func(context.Context) (T, error)) (T, bool, error) {
	var cached T
	if c != nil && c.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	val, err := loader(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	if c != nil {
		_ = c.Set(ctx, key, val, ttl)
	}
	return val, false, nil
}
