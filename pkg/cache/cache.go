// Package cache stores generated maps and rendered artifacts.
//
// Generation is deterministic: the same normalized config and seed always
// produce the same map. The cache exploits this by keying maps on a hash of
// the config plus the seed, so repeated requests (the CLI re-rendering a
// map, or the HTTP server answering the same seed twice) skip generation.
//
// # Backends
//
//   - [NullCache]: never stores anything, used when caching is disabled
//   - [FileCache]: JSON entry files under a directory, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the HTTP server
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// All backends treat a corrupt or expired entry as a miss.
//
// # Keys
//
// Keys are built by a [Keyer]. [NewScopedKeyer] prefixes every key, which
// lets several deployments share one backend.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default entry lifetimes.
const (
	TTLMap      = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// MapKey identifies the map generated from a config hash and a seed.
	MapKey(configHash string, seed uint64) string

	// ArtifactKey identifies one rendering of a map.
	ArtifactKey(mapHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Detail bool   `json:"detail,omitempty"`
}

// DefaultKeyer is the stock key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the stock key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// MapKey returns "map:<config hash>:<seed>".
func (DefaultKeyer) MapKey(configHash string, seed uint64) string {
	return fmt.Sprintf("map:%s:%d", configHash, seed)
}

// ArtifactKey hashes the render options together with the map hash.
func (DefaultKeyer) ArtifactKey(mapHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", mapHash, opts)
}
