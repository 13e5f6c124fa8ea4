package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	client     *redis.Client
	clientOnce sync.Once
	clientErr  error
)

// Namespace prefixes every key this service writes, so a shared Upstash
// database can host other apps.
const Namespace = "matrimony:"

// Key joins parts under the service namespace.
func Key(parts ...string) string {
	return Namespace + strings.Join(parts, ":")
}

// Config points at an Upstash (or any) Redis. URL uses redis:// or rediss://
// for TLS; Password overrides any password embedded in the URL.
type Config struct {
	URL      string
	Password string
}

// Client returns the shared client, or nil when Redis is not configured or
// unreachable. Callers fall back to in-process state on nil.
func Client() *redis.Client {
	return client
}

// Initialize connects once at startup. Later calls return the first result.
func Initialize(cfg Config) error {
	clientOnce.Do(func() {
		opts, err := options(cfg)
		if err != nil {
			clientErr = err
			return
		}

		c := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Ping(ctx).Err(); err != nil {
			_ = c.Close()
			clientErr = fmt.Errorf("redis: connection failed: %w", err)
			return
		}
		client = c
	})
	return clientErr
}

func options(cfg Config) (*redis.Options, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis: UPSTASH_REDIS_URL not configured")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if opts.TLSConfig != nil {
		opts.TLSConfig.MinVersion = tls.VersionTLS12
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	return opts, nil
}

func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// Checker adapts the package client to a health probe.
type Checker struct{}

// Ping reports nil when the client is initialized and answers.
func (Checker) Ping(ctx context.Context) error {
	if client == nil {
		return errors.New("redis: client not initialized")
	}
	return client.Ping(ctx).Err()
}
