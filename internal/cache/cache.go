package cache

import (
	"context"
	"time"
)

// Cache is a small string cache used to memoize route-provider answers.
// Get returns ("", nil) on a miss; errors mean the cache itself failed.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
}
