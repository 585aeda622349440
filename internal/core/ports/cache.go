package ports

import (
	"context"
	"time"
)

// Cache defines the key-value store contract behind the cache service.
// Implementations return errors; the cache service turns every failure into a miss or no-op
// so that callers keep working against the upstream sources when the store is down.
type Cache interface {
	// Get returns the raw bytes for key. ok=false if not found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL (0 or negative means no expiration if supported).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes keys and reports how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Keys lists keys matching a glob pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)
	Ping(ctx context.Context) error
	// Info returns server statistics as flat key/value pairs.
	Info(ctx context.Context) (map[string]string, error)
	Close() error
}

// CacheService is the total cache API used by application services: no method returns an error.
type CacheService interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	Delete(ctx context.Context, key string) bool
	Exists(ctx context.Context, key string) bool
	ClearPattern(ctx context.Context, pattern string) int
	HealthCheck(ctx context.Context) bool
	Stats(ctx context.Context) map[string]any
	Connected() bool
}

// CacheObserver receives one event per cache lookup (result is hit, miss, error or corrupt).
type CacheObserver interface {
	ObserveCacheLookup(result string)
}
