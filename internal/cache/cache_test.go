package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryURLCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryURLCache()
	c.now = func() time.Time { return now }

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "k", "https://u", time.Minute)
	url, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "https://u", url)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)

	c.Clear()
	assert.Empty(t, c.cache)
}

func TestMemoryURLCache_DeleteAndZeroTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryURLCache()

	c.Set(ctx, "k", "u", time.Hour)
	c.Delete(ctx, "k")
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "z", "u", 0)
	_, ok = c.Get(ctx, "z")
	assert.False(t, ok)
}

func TestRedisURLCache_UnreachableBehavesAsMiss(t *testing.T) {
	c, err := NewRedisURLCache("redis://127.0.0.1:1/0", zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c.Set(ctx, "k", "u", time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	c.Delete(ctx, "k")
	assert.Error(t, c.Ping(ctx))
}

func TestNewRedisURLCache_BadURL(t *testing.T) {
	_, err := NewRedisURLCache("://nope", zap.NewNop())
	assert.Error(t, err)
}

func TestRedisURLCache_NilSafe(t *testing.T) {
	var c *RedisURLCache
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
	c.Set(context.Background(), "k", "u", time.Minute)
	c.Delete(context.Background(), "k")
	assert.NoError(t, c.Close())
}
