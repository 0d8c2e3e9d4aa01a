// Package cache stores computed positioning results keyed by scene content.
//
// Backends:
//   - [FileCache]: one JSON file per entry under a directory (CLI)
//   - [RedisCache]: a shared Redis instance (API server, multiple instances)
//   - [NullCache]: stores nothing (--no-cache, tests)
//
// Keys come from a [Keyer] so that the same job against the same scene maps
// to the same entry regardless of backend:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ResultKey(sceneHash, jobHash, cache.ResultKeyOpts{})
//	data, ok, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long results are kept when the caller does not say.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey is the key of one job's result within a scene.
	ResultKey(sceneHash, jobHash string, opts ResultKeyOpts) string
}

// ResultKeyOpts are the run options that change a result.
type ResultKeyOpts struct {
	MaxResets int `json:"max_resets,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey returns "result:<sha256>".
func (DefaultKeyer) ResultKey(sceneHash, jobHash string, opts ResultKeyOpts) string {
	return hashKey("result", sceneHash, jobHash, opts)
}
