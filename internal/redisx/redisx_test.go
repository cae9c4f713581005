package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

type stats struct {
	Total int `json:"total"`
}

func TestStatsCache_RoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	c := NewStatsCache(rdb, time.Minute)

	var got stats
	assert.False(t, c.Get(ctx, KeyProductStats, &got))

	c.Set(ctx, KeyProductStats, stats{Total: 15})
	c.Set(ctx, TopRatedKey(3, 10), []int{1, 2})
	require.True(t, c.Get(ctx, KeyProductStats, &got))
	assert.Equal(t, 15, got.Total)
	assert.Equal(t, time.Minute, mr.TTL(KeyProductStats))

	c.Invalidate(ctx)
	assert.False(t, mr.Exists(KeyProductStats))
	assert.False(t, mr.Exists("catalog:top_rated:3:10"))
}

func TestStatsCache_NilIsNoop(t *testing.T) {
	ctx := context.Background()
	var c *StatsCache
	var got stats
	assert.False(t, c.Get(ctx, KeyReviewStats, &got))
	c.Set(ctx, KeyReviewStats, got)
	c.Invalidate(ctx)

	empty := NewStatsCache(nil, 0)
	assert.Equal(t, TTLStatsCache, empty.TTL)
	assert.False(t, empty.Get(ctx, KeyReviewStats, &got))
}

func TestLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	l := NewLimiter(rdb, "reviews", 2)

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// client lain punya counter sendiri
	ok, _ = l.Allow(ctx, "10.0.0.2")
	assert.True(t, ok)

	mr.FastForward(RateLimitWindow + time.Second)
	ok, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, ok)
}

func TestLimiter_DisabledAllowsAll(t *testing.T) {
	ctx := context.Background()
	var nilLimiter *Limiter
	ok, err := nilLimiter.Allow(ctx, "x")
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, _ = NewLimiter(nil, "reviews", 1).Allow(ctx, "x")
	assert.True(t, ok)
}

func TestMarkOnce(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)

	first, err := MarkOnce(ctx, rdb, "dedup:test:1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := MarkOnce(ctx, rdb, "dedup:test:1", time.Hour)
	require.NoError(t, err)
	assert.False(t, again)

	assert.Equal(t, time.Hour, mr.TTL("dedup:test:1"))
}

func TestNew_EmptyAddrDisables(t *testing.T) {
	assert.Nil(t, New(""))
}
