// Package cache provides the byte-level caching layer shared by the pipeline,
// the portal client and the HTTP service.
//
// Four backends implement [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [MemoryCache]: in-process map with TTLs, used by tests and short-lived CLI runs
//   - [FileCache]: sharded JSON files under the XDG cache directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP service
//
// Keys are produced by a [Keyer] so that every backend sees the same key
// space. Layouts are memoized on the entity count plus the hash of the
// effective placement options (see [Keyer.LayoutKey]).
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per key type.
const (
	// TTLEntities bounds how long a fetched entity list is reused.
	TTLEntities = time.Hour

	// TTLLayout is the lifetime of a memoized layout.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of a rendered artifact.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of 0 passed to Set means no expiration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
