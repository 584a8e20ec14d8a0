package server

import (
	"context"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/villagambera/channelbridge/internal/apperror"
	"github.com/villagambera/channelbridge/internal/observability/logger"
	"github.com/villagambera/channelbridge/internal/ratelimit"
	"go.uber.org/zap"
)

var errBookingRateLimited = apperror.RateLimited("booking_rate_limited", "too many booking requests")

type clientLimiter interface {
	Enabled() bool
	Allow(ctx context.Context, clientIP string) ratelimit.Decision
}

// BookingRateLimit throttles booking submissions per client IP when a limiter is configured.
func (s *Server) BookingRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.bookingLimiter == nil || !s.bookingLimiter.Enabled() {
			c.Next()
			return
		}

		result := s.bookingLimiter.Allow(c.Request.Context(), c.ClientIP())
		if result.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		}
		if result.Allowed {
			c.Next()
			return
		}

		retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		logger.FromContext(c.Request.Context()).Warn("booking rate limited",
			zap.String("client_ip", c.ClientIP()),
			zap.Int("retry_after_s", retryAfter),
		)
		AbortWithError(c, errBookingRateLimited)
	}
}
