package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix         = "presigned:"
	redisPingTimeout       = 2 * time.Second
	errFailedParseRedisURL = "failed to parse redis url: %w"
	errFailedPingRedisFmt  = "failed to ping redis: %w"
)

// RedisURLCache keeps presigned URLs in Redis so every replica shares them.
// Connectivity errors are logged and behave like cache misses.
type RedisURLCache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisURLCache(rawURL string, logger *zap.Logger) (*RedisURLCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf(errFailedParseRedisURL, err)
	}
	return &RedisURLCache{client: redis.NewClient(opts), logger: logger}, nil
}

// Ping checks connectivity; callers may fall back to MemoryURLCache on error.
func (c *RedisURLCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf(errFailedPingRedisFmt, err)
	}
	return nil
}

func (c *RedisURLCache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	url, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return url, true
}

func (c *RedisURLCache) Set(ctx context.Context, key, url string, ttl time.Duration) {
	if c == nil || c.client == nil || ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, url, ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisURLCache) Delete(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		c.logger.Warn("redis delete failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisURLCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
