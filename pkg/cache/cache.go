// Package cache stores built topologies and rendered artifacts so repeated
// builds of the same input with the same configuration are free.
//
// Three backends implement [Cache]: [NullCache] (caching off), [FileCache]
// (CLI, one JSON envelope per key under the user cache directory) and
// [RedisCache] (shared by server instances). Keys come from a [Keyer], which
// hashes every input that influences the result.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs for the two kinds of entries.
const (
	TopologyTTL = 7 * 24 * time.Hour
	ArtifactTTL = 30 * 24 * time.Hour
)
