package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/villagambera/channelbridge/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyBookingClient = "channelbridge:ratelimit:booking:%s"

type LimiterParam struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Redis  *redis.Client `optional:"true"`
}

// BookingLimiter throttles booking submissions per client IP. Every accepted
// submission costs one setBooking call against the PMS.
type BookingLimiter struct {
	bucket *Bucket
	burst  int
	log    *zap.Logger
}

// NewBookingLimiter returns nil when no rate is configured or Redis is absent.
func NewBookingLimiter(p LimiterParam) *BookingLimiter {
	if p.Config.BookingRateLimit <= 0 || p.Redis == nil {
		return nil
	}
	burst := p.Config.BookingRateBurst
	if burst <= 0 {
		burst = 1
	}
	return &BookingLimiter{
		bucket: NewBucket(p.Redis, p.Config.BookingRateLimit, burst),
		burst:  burst,
		log:    p.Log.Named("ratelimit.booking"),
	}
}

func (l *BookingLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow consumes one token for clientIP. Redis failures let the request through.
func (l *BookingLimiter) Allow(ctx context.Context, clientIP string) Decision {
	if !l.Enabled() {
		return Decision{Allowed: true}
	}
	clientIP = strings.TrimSpace(clientIP)
	if clientIP == "" {
		clientIP = "unknown"
	}
	decision, err := l.bucket.Take(ctx, fmt.Sprintf(keyBookingClient, clientIP))
	if err != nil {
		l.log.Warn("rate limiter unavailable", zap.Error(err))
		return Decision{Allowed: true, Limit: l.burst}
	}
	return decision
}
