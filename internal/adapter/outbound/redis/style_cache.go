package redis

import (
	"context"
	"errors"
	"time"

	"github.com/mockupstudio/server/internal/port/outbound"
	"github.com/redis/go-redis/v9"
)

const styleCacheKeyPrefix = "studio:cache:"

// styleCache implements outbound.StyleCachePort so every replica shares
// one listing cache.
type styleCache struct {
	client redis.Cmdable
}

// NewStyleCache creates a Redis-backed style cache.
func NewStyleCache(client redis.Cmdable) outbound.StyleCachePort {
	return &styleCache{client: client}
}

func (c *styleCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, styleCacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, outbound.ErrCacheMiss
	}
	return b, err
}

func (c *styleCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, styleCacheKeyPrefix+key, value, ttl).Err()
}

func (c *styleCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, styleCacheKeyPrefix+"styles:*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Compile-time check
var _ outbound.StyleCachePort = (*styleCache)(nil)
