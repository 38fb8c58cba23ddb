// internal/common/cache/cache.go
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"blogforge/internal/common/config"
)

// PageCache caches extracted page text by URL so repeated research runs do
// not re-fetch the same pages. A nil *PageCache is a valid no-op cache.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a page cache from configuration. Returns nil when caching is
// disabled.
func New(cfg config.CacheConfig) *PageCache {
	if !cfg.Enabled {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	return &PageCache{
		client: rdb,
		ttl:    config.GetDuration(cfg.TTL),
	}
}

// NewWithClient wraps an existing Redis client. Used in tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{client: client, ttl: ttl}
}

func key(url string) string {
	return "page:text:" + url
}

// Get returns the cached text for a URL, if present.
func (c *PageCache) Get(ctx context.Context, url string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, key(url)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores extracted text for a URL. Cache write failures are ignored;
// the cache is an optimization, not a source of truth.
func (c *PageCache) Set(ctx context.Context, url, text string) {
	if c == nil {
		return
	}
	_ = c.client.Set(ctx, key(url), text, c.ttl).Err()
}

// Ping tests the Redis connection.
func (c *PageCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *PageCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
