// Package cache stores derived analysis results keyed by graph content.
//
// Entries are opaque byte slices with a TTL. Three backends exist:
// [NullCache] (caching off), [FileCache] (the CLI default, one JSON file per
// entry under the user cache directory) and [RedisCache] (shared by server
// replicas). A [Keyer] turns a graph content hash plus options into a key.
//
// The cache is advisory. Callers treat every backend error as a miss and
// recompute, so a broken cache slows things down but never changes results.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is
	// (nil, false, nil); err is reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLs per entry kind. Keys embed the graph content hash, so an entry is
// never stale; the TTL only bounds disk and memory use.
const (
	TTLMetrics   = 7 * 24 * time.Hour
	TTLPageRank  = 7 * 24 * time.Hour
	TTLHierarchy = 24 * time.Hour
)
