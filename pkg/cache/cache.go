// Package cache provides byte-level caching with file, Redis, and null
// backends, plus a JSON adapter for callers that cache structured values.
//
// The file backend serves single-process CLI runs; the Redis backend serves
// multi-instance server deployments where GitHub metadata reads must be
// shared across processes.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached data kind.
const (
	// TTLMetadata is the TTL for repository metadata reads.
	TTLMetadata = 24 * time.Hour

	// TTLHTTP is the TTL for raw HTTP responses.
	TTLHTTP = 6 * time.Hour
)

// Cache is the interface for byte cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
