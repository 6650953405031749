// Package cache provides the parse cache for vault scans.
//
// Parsed notes are cached by content hash, so re-auditing an unchanged
// vault skips the front-matter and link extraction work entirely. Keys are
// content-addressed: a modified file naturally misses and is re-parsed,
// and stale entries are harmless leftovers that "cache clear" removes.
package cache

import (
	"context"
	"time"
)

// TTLNote is the retention for cached parsed notes. Entries are
// content-addressed so they can never serve stale data; the TTL only
// bounds disk growth from notes that no longer exist.
const TTLNote = 30 * 24 * time.Hour

// Cache is the minimal store interface used by the scanner.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// NoteKey builds the cache key for a parsed note from its path and raw
// content. Both participate in the hash: renaming a file changes its
// identifier even when the content is untouched.
func NoteKey(path string, content []byte) string {
	return hashKey("note", path, string(content))
}
