// Package cache stores rendered artifacts so repeated renders of an unchanged
// document can be skipped.
//
// Keys are derived from the artifact's input with [Key]; a [FileCache] keeps
// entries as files under a directory and a [NullCache] disables caching:
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.Key("svg", dot)
//	if svg, ok, _ := c.Get(ctx, key); ok {
//	    return svg, nil
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss
	// (ok is false), not an error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
