// Package cache provides result caching for layout runs and rendered artifacts.
//
// A layout is a pure function of the input diagram and the algorithm options,
// so the pipeline caches it under a key derived from both. Rendered artifacts
// are cached under a key derived from the layout hash and the render options.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// # Keys
//
// Keys are built by a [Keyer]. [DefaultKeyer] hashes the option structs so
// that any option change produces a new key; [ScopedKeyer] adds a namespace
// prefix when several tenants share one backend.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	// TTLLayout is how long computed layouts are kept.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts are kept.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLCheck is how long overlap reports are kept.
	TTLCheck = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
