package data

import (
	"context"
	"testing"
	"time"

	"robo-advisor/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey([]string{"AGG", "BIL"}, day("2014-01-01"), day("2024-01-01"))
	b := CacheKey([]string{"BIL", "AGG"}, day("2014-01-01").Add(5*time.Hour), day("2024-01-01"))
	assert.Equal(t, a, b, "ticker order and time of day are ignored")

	assert.NotEqual(t, a, CacheKey([]string{"AGG"}, day("2014-01-01"), day("2024-01-01")))
	assert.NotEqual(t, a, CacheKey([]string{"AGG", "BIL"}, day("2014-01-02"), day("2024-01-01")))
	assert.Len(t, a, 64)
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	want := []model.PriceSeries{series("AGG", 1, 2)}
	c.Set(ctx, "k", want)
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, want, got)

	c.Set(ctx, "k", want)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Hour)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []model.PriceSeries{series("AGG", 1)})
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Nil(t *testing.T) {
	var c *MemoryCache
	c.Set(context.Background(), "k", nil)
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := NewRedisCache(ctx, RedisOptions{Addr: mr.Addr(), TTL: time.Minute}, nil)
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	want := []model.PriceSeries{series("AGG", 100, 101), series("BIL", 50)}
	c.Set(ctx, "k", want)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "AGG", got[0].Ticker)
	assert.Equal(t, 101.0, got[0].Points[1].Close)
	assert.True(t, got[0].Points[0].Date.Equal(want[0].Points[0].Date))

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: mr.Addr()}, nil)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, mr.Set(redisKeyPrefix+"k", "not json"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache(context.Background(), RedisOptions{Addr: addr}, nil)
	assert.Error(t, err)
}
