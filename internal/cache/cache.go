package cache

import (
	"context"
	"time"
)

// URLCache caches presigned URLs by storage key. Implementations treat
// backend failures as misses.
type URLCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, url string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
