// Package cache stores computed layouts and rendered artifacts.
//
// Layout computation is pure, so results are keyed by content: the hash of
// the dataset plus the hash of every option that influences the layout.
// Artifacts (SVG, PNG, ...) are keyed by the layout hash and the render
// options. A changed dataset or configuration therefore never reads a stale
// entry; old entries simply expire.
//
// Backends: [NullCache] (disabled), [FileCache] (CLI, under the XDG cache
// directory) and [RedisCache] (shared, for the preview server).
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	LayoutTTL   = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. Get reports a miss with
// hit=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
