package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"matrimony-backend/internal/delivery/http/response"
	"matrimony-backend/pkg/redis"
	"matrimony-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Key prefix in Redis
	KeyPrefix string
	// Reject with 503 instead of using memory when Redis errors
	FailClosed bool
}

type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// memoryCounters is the fixed-window fallback used when Redis is absent.
type memoryCounters struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	lastGC  time.Time
}

func (m *memoryCounters) incr(key string, window time.Duration, now time.Time) (int, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastGC) > 5*time.Minute {
		for k, e := range m.entries {
			if now.After(e.resetAt) {
				delete(m.entries, k)
			}
		}
		m.lastGC = now
	}

	entry, ok := m.entries[key]
	if !ok || now.After(entry.resetAt) {
		entry = &rateLimitEntry{resetAt: now.Add(window)}
		m.entries[key] = entry
	}
	entry.count++
	return entry.count, entry.resetAt
}

// KEYS[1] = counter key, ARGV[1] = TTL seconds. Returns {count, ttl}.
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

func clientIPKey(c *gin.Context) string { return c.ClientIP() }

// DefaultRateLimitConfig covers every route.
func DefaultRateLimitConfig(limit int) RateLimitConfig {
	if limit <= 0 {
		limit = 100
	}
	return RateLimitConfig{
		Limit:     limit,
		Window:    time.Minute,
		KeyPrefix: redis.Key("rl", "ip", ""),
		KeyFunc:   clientIPKey,
	}
}

// LoginRateLimitConfig throttles credential guessing per IP, on top of the
// per-email lockout done by the login tracker.
func LoginRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:      10,
		Window:     time.Minute,
		KeyPrefix:  redis.Key("rl", "login", ""),
		FailClosed: true,
		KeyFunc:    clientIPKey,
	}
}

// SubmissionRateLimitConfig guards the unauthenticated submission form.
func SubmissionRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:     5,
		Window:    10 * time.Minute,
		KeyPrefix: redis.Key("rl", "submit", ""),
		KeyFunc:   clientIPKey,
	}
}

// RateLimitMiddleware creates a rate limiting middleware with the given config.
// Redis is used when connected; otherwise counters live in this process.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = clientIPKey
	}
	local := &memoryCounters{entries: make(map[string]*rateLimitEntry)}

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var count int
		var resetAt time.Time

		if client := redis.Client(); client != nil {
			var err error
			count, resetAt, err = checkRateLimitRedis(c.Request.Context(), client, fullKey, config)
			if err != nil {
				if config.FailClosed {
					logRateLimitError(c, err)
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				count, resetAt = local.incr(fullKey, config.Window, now)
			}
		} else {
			count, resetAt = local.incr(fullKey, config.Window, now)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			security.DefaultLogger().LogRateLimitTriggered(
				c.Request.Context(),
				c.ClientIP(),
				c.GetHeader("User-Agent"),
				c.GetString(RequestIDKey),
				c.FullPath(),
			)

			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, config RateLimitConfig) (int, time.Time, error) {
	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, int(config.Window.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

func logRateLimitError(c *gin.Context, err error) {
	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRateLimitTriggered,
		SubjectType: "system",
		IP:          c.ClientIP(),
		RequestID:   c.GetString(RequestIDKey),
		Details: map[string]interface{}{
			"error_type": "redis_error",
			"error":      err.Error(),
		},
	})
}
