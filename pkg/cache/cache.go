// Package cache stores solved puzzles so repeated searches are answered
// without running the solver again.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for the HTTP server, and [NullCache] when caching is disabled. Keys come
// from a [Keyer], which hashes the puzzle and the search options that change
// the result.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiration.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// TTLs for cached entries.
const (
	// TTLSolve applies to complete solution lists. A puzzle's solutions never
	// change, so the TTL only bounds disk and memory use.
	TTLSolve = 30 * 24 * time.Hour

	// TTLPuzzle applies to uploaded puzzle definitions kept by the server.
	TTLPuzzle = 7 * 24 * time.Hour
)
