package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"matrimony-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginTrackerConfig controls the failed-login lockout.
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block
	AttemptWindow time.Duration // how long failures are counted
	BlockDuration time.Duration // how long a block lasts
	UseIPTracking bool          // also block the client IP
}

// DefaultLoginTrackerConfig allows 5 failures per 15 minutes.
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker counts failed logins per email (and IP) and blocks repeat
// offenders. Counters live in Redis when a client is configured, otherwise in
// process memory.
type LoginTracker struct {
	config LoginTrackerConfig
	logger *SecurityLogger
	now    func() time.Time

	mu       sync.Mutex
	counters map[string]*attemptCounter
	blocks   map[string]time.Time
}

type attemptCounter struct {
	count     int
	expiresAt time.Time
}

func NewLoginTracker(config LoginTrackerConfig) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = 15 * time.Minute
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = 15 * time.Minute
	}
	return &LoginTracker{
		config:   config,
		logger:   DefaultLogger(),
		now:      time.Now,
		counters: make(map[string]*attemptCounter),
		blocks:   make(map[string]time.Time),
	}
}

var (
	failLoginUserPrefix    = redis.Key("fail", "login", "user", "")
	failLoginIPPrefix      = redis.Key("fail", "login", "ip", "")
	blockedLoginUserPrefix = redis.Key("blocked", "login", "user", "")
	blockedLoginIPPrefix   = redis.Key("blocked", "login", "ip", "")
)

// INCR and set the TTL on the first hit so the window starts at the first failure.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsBlocked reports whether the email or IP is currently locked out.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	keys := lt.blockKeys(normalizeEmail(email), ip)

	client := redis.Client()
	if client == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		now := lt.now()
		for _, k := range keys {
			if until, ok := lt.blocks[k]; ok {
				if now.Before(until) {
					return true, nil
				}
				delete(lt.blocks, k)
			}
		}
		return false, nil
	}

	n, err := client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("check login block: %w", err)
	}
	return n > 0, nil
}

// RecordFailedAttempt counts a failure and creates a block once the limit is
// reached. It returns whether the caller is now blocked and the current count.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error) {
	email = normalizeEmail(email)
	lt.logger.LogLogin(ctx, EventLoginFailed, email, ip, userAgent, requestID, "invalid_credentials")

	count, err := lt.increment(ctx, failLoginUserPrefix+email)
	if err != nil {
		return false, 0, fmt.Errorf("increment login failures: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_, _ = lt.increment(ctx, failLoginIPPrefix+ip)
	}

	if count < lt.config.MaxAttempts {
		return false, count, nil
	}
	if err := lt.createBlock(ctx, email, ip, requestID); err != nil {
		return true, count, err
	}
	return true, count, nil
}

func (lt *LoginTracker) increment(ctx context.Context, key string) (int, error) {
	client := redis.Client()
	if client == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		now := lt.now()
		c, ok := lt.counters[key]
		if !ok || now.After(c.expiresAt) {
			c = &attemptCounter{expiresAt: now.Add(lt.config.AttemptWindow)}
			lt.counters[key] = c
		}
		c.count++
		return c.count, nil
	}

	ttl := int(lt.config.AttemptWindow.Seconds())
	result, err := client.Eval(ctx, incrWithTTLScript, []string{key}, ttl).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from login counter script")
	}
	return int(count), nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, email, ip, requestID string) error {
	keys := lt.blockKeys(email, ip)

	client := redis.Client()
	if client == nil {
		lt.mu.Lock()
		until := lt.now().Add(lt.config.BlockDuration)
		for _, k := range keys {
			lt.blocks[k] = until
		}
		lt.mu.Unlock()
	} else {
		if err := client.Set(ctx, keys[0], "1", lt.config.BlockDuration).Err(); err != nil {
			return fmt.Errorf("set login block: %w", err)
		}
		for _, k := range keys[1:] {
			if err := client.Set(ctx, k, "1", lt.config.BlockDuration).Err(); err != nil {
				lt.logger.zapLogger.Warn("failed to set IP block", zap.Error(err))
			}
		}
	}

	lt.logger.LogBlockCreated(ctx, "email", email, ip, requestID, int(lt.config.BlockDuration.Minutes()))
	lt.logger.LogLogin(ctx, EventLoginBlocked, email, ip, "", requestID, "too_many_failed_attempts")
	return nil
}

// ClearAttempts resets the failure counters after a successful login.
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email, ip string) error {
	keys := []string{failLoginUserPrefix + normalizeEmail(email)}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, failLoginIPPrefix+ip)
	}

	client := redis.Client()
	if client == nil {
		lt.mu.Lock()
		for _, k := range keys {
			delete(lt.counters, k)
		}
		lt.mu.Unlock()
		return nil
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear login failures: %w", err)
	}
	return nil
}

// GetBlockTTL returns how long the email stays blocked.
func (lt *LoginTracker) GetBlockTTL(ctx context.Context, email string) (time.Duration, bool, error) {
	key := blockedLoginUserPrefix + normalizeEmail(email)

	client := redis.Client()
	if client == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		until, ok := lt.blocks[key]
		if !ok {
			return 0, false, nil
		}
		remaining := until.Sub(lt.now())
		if remaining <= 0 {
			return 0, false, nil
		}
		return remaining, true, nil
	}

	ttl, err := client.TTL(ctx, key).Result()
	if err == goredis.Nil || ttl < 0 {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get block ttl: %w", err)
	}
	return ttl, true, nil
}

func (lt *LoginTracker) blockKeys(email, ip string) []string {
	keys := []string{blockedLoginUserPrefix + email}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}
	return keys
}
