package prediction

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anmolairi03/diabetes/internal/common/database"
	"github.com/anmolairi03/diabetes/internal/common/logger"
	"github.com/anmolairi03/diabetes/internal/models"
)

func newMiniredisCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(&database.RedisClient{Client: rdb}, ttl, logger.NewTestLogger(t))
	return cache, mr
}

func TestCache_RoundTrip(t *testing.T) {
	cache, mr := newMiniredisCache(t, time.Minute)
	ctx := context.Background()
	input := models.RiskInput{BMI: 27.1, S5: -0.03, BP: 135}

	_, ok := cache.Get(ctx, input)
	assert.False(t, ok)

	cache.Set(ctx, input, 97.25)

	value, ok := cache.Get(ctx, input)
	require.True(t, ok)
	assert.Equal(t, 97.25, value)

	// Entries expire with the configured TTL.
	mr.FastForward(2 * time.Minute)
	_, ok = cache.Get(ctx, input)
	assert.False(t, ok)
}

func TestCache_DistinctInputsDistinctKeys(t *testing.T) {
	cache, _ := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	a := models.RiskInput{BMI: 22, S5: 0.01, BP: 110}
	b := models.RiskInput{BMI: 22, S5: 0.01, BP: 111}
	require.NotEqual(t, CacheKey(a), CacheKey(b))

	cache.Set(ctx, a, 40)
	cache.Set(ctx, b, 50)

	va, ok := cache.Get(ctx, a)
	require.True(t, ok)
	vb, ok := cache.Get(ctx, b)
	require.True(t, ok)
	assert.Equal(t, 40.0, va)
	assert.Equal(t, 50.0, vb)
}

func TestCache_UnparsableEntryIsAMiss(t *testing.T) {
	cache, mr := newMiniredisCache(t, time.Minute)
	input := models.RiskInput{BMI: 22, S5: 0.01, BP: 110}

	require.NoError(t, mr.Set(CacheKey(input), "not-a-number"))

	_, ok := cache.Get(context.Background(), input)
	assert.False(t, ok)
}

func TestCache_ServerDownIsAMiss(t *testing.T) {
	cache, mr := newMiniredisCache(t, time.Minute)
	input := models.RiskInput{BMI: 22, S5: 0.01, BP: 110}

	mr.Close()

	// Reads degrade to misses and writes are swallowed; neither panics.
	_, ok := cache.Get(context.Background(), input)
	assert.False(t, ok)
	cache.Set(context.Background(), input, 12)
}
