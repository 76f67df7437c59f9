package cache

import (
	"context"
	"errors"
	"regexp"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or its entry has expired.
// Callers treat both causes uniformly: fall through to the backing store.
var ErrNotFound = errors.New("cache: key not found")

// Entry represents a cache entry with metadata
type Entry struct {
	Key       string      `json:"key"`
	Value     interface{} `json:"value"`
	ExpiresAt time.Time   `json:"expires_at"`
	CreatedAt time.Time   `json:"created_at"`
}

// Loader fetches a value from the backing store on a cache miss.
type Loader func(ctx context.Context) (interface{}, error)

// Service defines the interface for cache operations
type Service interface {
	// Set stores a value with the given key and TTL.
	// A ttl <= 0 falls back to the configured default TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Get retrieves a value by key. Returns ErrNotFound for absent or expired keys.
	Get(ctx context.Context, key string) (interface{}, error)

	// GetOrLoad retrieves a value by key, calling loader on a miss and caching
	// the result. Concurrent misses for the same key are coalesced into a
	// single loader call.
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader Loader) (interface{}, error)

	// Delete removes a value by key
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// InvalidatePattern removes every entry whose key matches pattern
	InvalidatePattern(ctx context.Context, pattern *regexp.Regexp) error

	// Clear removes all entries from cache
	Clear(ctx context.Context) error

	// GetStats returns cache statistics
	GetStats(ctx context.Context) (*Stats, error)

	// GetMultiple retrieves multiple values by keys
	GetMultiple(ctx context.Context, keys []string) (map[string]interface{}, error)

	// SetMultiple stores multiple key-value pairs
	SetMultiple(ctx context.Context, entries map[string]interface{}, ttl time.Duration) error
}

// Stats represents cache statistics
type Stats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	HitRate     float64   `json:"hit_rate"`
	Keys        int64     `json:"keys"`
	Evictions   int64     `json:"evictions"`
	Expirations int64     `json:"expirations"`
	StartedAt   time.Time `json:"started_at"`
}
