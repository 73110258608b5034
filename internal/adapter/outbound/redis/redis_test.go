package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mockupstudio/server/internal/port/outbound"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	ctx := context.Background()
	_, client := setupRedis(t)

	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	rl := &rateLimiter{client: client, now: func() time.Time { return now }}

	for i := 0; i < 3; i++ {
		now = now.Add(time.Millisecond)
		ok, err := rl.Allow(ctx, "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}

	ok, err := rl.Allow(ctx, "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	remaining, err := rl.GetRemaining(ctx, "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// Other keys are independent.
	ok, err = rl.Allow(ctx, "ip:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	remaining, err = rl.GetRemaining(ctx, "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)
}

func TestRateLimiter_SetsExpiry(t *testing.T) {
	mr, client := setupRedis(t)
	rl := NewRateLimiter(client)

	ok, err := rl.Allow(context.Background(), "acct:1", 5, 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, mr.TTL(rateLimitKeyPrefix+"acct:1"))
}

func TestStyleCache(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	c := NewStyleCache(client)

	_, err := c.Get(ctx, "styles:summary")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "styles:summary", []byte(`[{"id":"a"}]`), time.Minute))
	require.NoError(t, c.Set(ctx, "styles:full", []byte(`[]`), time.Minute))

	got, err := c.Get(ctx, "styles:summary")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(got))

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, "styles:summary")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "styles:summary", []byte(`[]`), time.Minute))
	require.NoError(t, c.Set(ctx, "styles:full", []byte(`[]`), time.Minute))
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists(styleCacheKeyPrefix+"styles:summary"))
	assert.False(t, mr.Exists(styleCacheKeyPrefix+"styles:full"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestStyleCache_Unavailable(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewStyleCache(client)
	mr.Close()

	_, err := c.Get(context.Background(), "styles:summary")
	require.Error(t, err)
	assert.NotErrorIs(t, err, outbound.ErrCacheMiss)
}
