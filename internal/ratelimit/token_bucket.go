package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

var (
	ErrNotConfigured  = errors.New("ratelimit: bucket not configured")
	ErrInvalidPolicy  = errors.New("ratelimit: rate and burst must be positive")
	ErrEmptyKey       = errors.New("ratelimit: empty key")
	ErrScriptResponse = errors.New("ratelimit: unexpected script response")
)

// Refills the bucket from the elapsed server time, then takes one token if
// possible. Returns {allowed, tokens left}; tokens are fractional so they are
// returned as a string.
var takeScript = redis.NewScript(`
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local t = redis.call("TIME")
local now = t[1] * 1000 + math.floor(t[2] / 1000)

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1]) or burst
local last = tonumber(state[2]) or now

tokens = math.min(burst, tokens + math.max(0, now - last) / 1000 * rate)

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", now)
redis.call("PEXPIRE", KEYS[1], ttl)

return {allowed, tostring(tokens)}
`)

// Decision is the outcome of one Take.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Bucket is a token bucket kept in Redis so every replica shares it.
// Rate is tokens per second, Burst the bucket capacity.
type Bucket struct {
	client *redis.Client
	rate   float64
	burst  int
}

func NewBucket(client *redis.Client, rate float64, burst int) *Bucket {
	return &Bucket{client: client, rate: rate, burst: burst}
}

// Take consumes one token from the bucket stored under key.
func (b *Bucket) Take(ctx context.Context, key string) (Decision, error) {
	switch {
	case b == nil || b.client == nil:
		return Decision{}, ErrNotConfigured
	case b.rate <= 0 || b.burst <= 0:
		return Decision{}, ErrInvalidPolicy
	case key == "":
		return Decision{}, ErrEmptyKey
	}

	ttl := bucketTTL(b.rate, b.burst)
	res, err := takeScript.Run(ctx, b.client, []string{key}, b.rate, b.burst, ttl.Milliseconds()).Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: take %s: %w", key, err)
	}
	allowed, tokens, err := parseTake(res)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		Allowed:   allowed,
		Limit:     b.burst,
		Remaining: int(math.Floor(tokens)),
	}
	if !allowed {
		d.RetryAfter = time.Duration((1 - tokens) / b.rate * float64(time.Second))
	}
	return d, nil
}

func parseTake(res []any) (bool, float64, error) {
	if len(res) != 2 {
		return false, 0, ErrScriptResponse
	}
	flag, ok := res[0].(int64)
	if !ok {
		return false, 0, ErrScriptResponse
	}
	raw, ok := res[1].(string)
	if !ok {
		return false, 0, ErrScriptResponse
	}
	tokens, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrScriptResponse, err)
	}
	return flag == 1, tokens, nil
}

// bucketTTL keeps an idle bucket around for twice the time a full refill takes.
func bucketTTL(rate float64, burst int) time.Duration {
	if rate <= 0 || burst <= 0 {
		return time.Second
	}
	seconds := math.Max(1, math.Ceil(float64(burst)/rate*2))
	return time.Duration(seconds) * time.Second
}
