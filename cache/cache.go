package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength caps cache key size so a malformed caller cannot push
// unbounded keys into a shared backend.
const MaxKeyLength = 512

var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache is the ephemeral key/value collaborator interface.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods should honor cancellation/deadlines where applicable.
// - Errors: Get never errors; it returns (nil, false) on miss. A backend
//   failure during Get counts as a miss; the cache is a performance
//   optimization, never a system of record.
type Cache interface {
	// Get retrieves a cached value. Returns (nil, false) on miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with the given TTL. TTL<=0 means no caching.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a cached value. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects keys that are blank, oversized, or carry line
// breaks that could corrupt text-protocol backends.
func ValidateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return ErrInvalidKey
	case len(key) > MaxKeyLength:
		return ErrKeyTooLong
	case strings.ContainsAny(key, "\n\r"):
		return ErrInvalidKey
	default:
		return nil
	}
}
