package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// rateLimitPrefix is the Redis key prefix for rate limit buckets.
	rateLimitPrefix = "ratelimit:"
	// minRateLimitTTL keeps idle buckets around long enough to refill.
	minRateLimitTTL = 10 * time.Second
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// tokenBucketScript is a Lua script implementing the token bucket algorithm.
// Refill and consumption happen atomically in Redis.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per second
	local burst = tonumber(ARGV[2])     -- max tokens (bucket capacity)
	local now = tonumber(ARGV[3])       -- current time in seconds
	local ttl = tonumber(ARGV[4])       -- TTL in seconds

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = math.max(0, now - last_update)
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// CheckIPRateLimit consumes one token from the bucket for ip within scope.
// IP is hashed to avoid storing raw IP addresses.
func (c *Cache) CheckIPRateLimit(ctx context.Context, scope, ip string, ratePerMinute, burst int) (*RateLimitResult, error) {
	if ratePerMinute <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rate limit must be positive: rate=%d burst=%d", ratePerMinute, burst)
	}

	key := rateLimitKey(scope, ip)
	ratePerSecond := float64(ratePerMinute) / 60.0

	return c.checkRateLimit(ctx, key, ratePerSecond, burst, bucketTTL(ratePerSecond, burst))
}

// checkRateLimit runs the token bucket script for key.
func (c *Cache) checkRateLimit(ctx context.Context, key string, rate float64, burst int, ttl time.Duration) (*RateLimitResult, error) {
	now := time.Now()

	result, err := tokenBucketScript.Run(ctx, c.client,
		[]string{key},
		rate, burst, now.Unix(), int(ttl.Seconds()),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(result) != 3 {
		return nil, fmt.Errorf("unexpected rate limit script result: %v", result)
	}

	return &RateLimitResult{
		Allowed:    result[0] == 1,
		Remaining:  result[2],
		ResetAt:    now.Add(time.Duration(float64(time.Second) / rate)),
		RetryAfter: time.Duration(result[1]) * time.Second,
	}, nil
}

// rateLimitKey builds the bucket key for subject within scope.
func rateLimitKey(scope, subject string) string {
	return rateLimitPrefix + scope + ":" + hashIP(subject)
}

// bucketTTL is the time an empty bucket needs to refill fully, floored at minRateLimitTTL.
func bucketTTL(ratePerSecond float64, burst int) time.Duration {
	ttl := time.Duration(float64(burst) / ratePerSecond * float64(time.Second))
	if ttl < minRateLimitTTL {
		return minRateLimitTTL
	}
	return ttl.Round(time.Second)
}

// hashIP creates a truncated SHA256 hash of an IP address.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
