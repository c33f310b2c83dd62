// Package redis provides the shared feed cache backend for multi-instance deployments.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"Storefront/internal/core/feeds"
)

// keyPrefix namespaces feed entries inside a shared Redis database.
const keyPrefix = "storefront:"

// FeedCache is a feeds.Cache backed by Redis. Expiry is native key expiry.
type FeedCache struct {
	client *goredis.Client
}

var _ feeds.Cache = (*FeedCache)(nil)

// NewClient connects to the Redis server at addr and verifies the connection.
func NewClient(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     20,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewFeedCache wraps a connected client.
func NewFeedCache(client *goredis.Client) *FeedCache {
	return &FeedCache{client: client}
}

// Get retrieves the payload cached under key.
// Returns feeds.ErrCacheMiss if not found or expired.
func (c *FeedCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, feeds.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed cache entry: %w", err)
	}
	return val, nil
}

// Set stores value under key for ttl, replacing any existing entry.
func (c *FeedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("%w: %v", feeds.ErrInvalidTTL, ttl)
	}
	if err := c.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set feed cache entry: %w", err)
	}
	return nil
}
