package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/villagambera/channelbridge/internal/config"
	"go.uber.org/zap"
)

func TestBookingLimiterDisabled(t *testing.T) {
	assert.Nil(t, NewBookingLimiter(LimiterParam{Config: config.Config{BookingRateLimit: 5}, Log: zap.NewNop()}))

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })
	assert.Nil(t, NewBookingLimiter(LimiterParam{Config: config.Config{}, Log: zap.NewNop(), Redis: client}))

	var limiter *BookingLimiter
	assert.False(t, limiter.Enabled())
	assert.True(t, limiter.Allow(context.Background(), "203.0.113.1").Allowed)
}

func TestBookingLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewBookingLimiter(LimiterParam{
		Config: config.Config{BookingRateLimit: 1, BookingRateBurst: 1},
		Log:    zap.NewNop(),
		Redis:  client,
	})
	require.True(t, limiter.Enabled())
	assert.True(t, limiter.Allow(context.Background(), "203.0.113.1").Allowed)
}

func TestBookingLimiterExhaustsBurst(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewBookingLimiter(LimiterParam{
		Config: config.Config{BookingRateLimit: 0.01, BookingRateBurst: 2},
		Log:    zap.NewNop(),
		Redis:  client,
	})
	ip := "test-" + time.Now().Format(time.RFC3339Nano)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, ip).Allowed)
	assert.True(t, limiter.Allow(ctx, ip).Allowed)
	denied := limiter.Allow(ctx, ip)
	assert.False(t, denied.Allowed)
	assert.Positive(t, denied.RetryAfter)
}

func TestBucketTTL(t *testing.T) {
	assert.Equal(t, time.Second, bucketTTL(0, 5))
	assert.Equal(t, 4*time.Second, bucketTTL(10, 20))
	assert.Equal(t, time.Second, bucketTTL(100, 1))
}

func TestBucketRejectsBadInput(t *testing.T) {
	ctx := context.Background()

	var nilBucket *Bucket
	_, err := nilBucket.Take(ctx, "k")
	assert.ErrorIs(t, err, ErrNotConfigured)

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })

	_, err = NewBucket(client, 0, 1).Take(ctx, "k")
	assert.ErrorIs(t, err, ErrInvalidPolicy)
	_, err = NewBucket(client, 1, 1).Take(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestParseTake(t *testing.T) {
	allowed, tokens, err := parseTake([]any{int64(1), "2.5"})
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2.5, tokens)

	for _, res := range [][]any{
		nil,
		{int64(1)},
		{"1", "2"},
		{int64(0), int64(2)},
		{int64(0), "many"},
	} {
		_, _, err := parseTake(res)
		assert.ErrorIs(t, err, ErrScriptResponse, "%v", res)
	}
}
