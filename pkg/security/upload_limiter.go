package security

import (
	"context"
	"fmt"
	"sync"
	"time"

	"matrimony-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter caps photo-bearing requests per client IP over a sliding
// window. Redis backs the window when available, memory otherwise.
type UploadLimiter struct {
	limit  int
	window time.Duration

	mu    sync.Mutex
	local map[string][]time.Time
}

// Sorted-set sliding window.
// KEYS[1] = key, ARGV[1] = limit, ARGV[2] = window seconds, ARGV[3] = now
// Returns 1 if allowed, 0 if limited.
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
    return 0
end
redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`

// NewUploadLimiter allows limit uploads per window per IP (default 10/minute).
func NewUploadLimiter(limit int, window time.Duration) *UploadLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &UploadLimiter{
		limit:  limit,
		window: window,
		local:  make(map[string][]time.Time),
	}
}

// Allow reports whether ip may upload now. When limited it also returns the
// number of seconds to wait. Redis errors fail open so photo uploads keep
// working during a cache outage.
func (ul *UploadLimiter) Allow(ctx context.Context, ip string) (bool, int, error) {
	retryAfter := int(ul.window.Seconds())

	client := redis.Client()
	if client == nil {
		return ul.allowLocal(ip), retryAfter, nil
	}

	key := redis.Key("ratelimit", "upload", ip)
	allowed, err := ul.check(ctx, client, key)
	if err != nil {
		return true, 0, fmt.Errorf("upload rate limit check: %w", err)
	}
	return allowed, retryAfter, nil
}

func (ul *UploadLimiter) check(ctx context.Context, client *goredis.Client, key string) (bool, error) {
	now := time.Now().Unix()
	result, err := client.Eval(ctx, uploadRateLimitScript, []string{key}, ul.limit, int(ul.window.Seconds()), now).Result()
	if err != nil {
		return false, err
	}
	allowed, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result type from rate limit script")
	}
	return allowed == 1, nil
}

func (ul *UploadLimiter) allowLocal(ip string) bool {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-ul.window)
	hits := ul.local[ip][:0]
	for _, t := range ul.local[ip] {
		if t.After(cutoff) {
			hits = append(hits, t)
		}
	}
	if len(hits) >= ul.limit {
		ul.local[ip] = hits
		return false
	}
	ul.local[ip] = append(hits, now)
	return true
}
