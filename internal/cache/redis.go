// Package cache provides a Redis-backed cache for search suggestions.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long cached suggestions live when no TTL is configured.
const DefaultTTL = 30 * time.Second

const keyPrefix = "talent-search:suggest:"

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// SuggestionCache stores suggestion lists as JSON strings with a TTL.
type SuggestionCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewSuggestionCache wraps rdb. A non-positive ttl means DefaultTTL.
func NewSuggestionCache(rdb redis.Cmdable, ttl time.Duration) *SuggestionCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SuggestionCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached list for key. A missing key is not an error.
func (c *SuggestionCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false, fmt.Errorf("decode cached suggestions: %w", err)
	}
	return values, true, nil
}

// Set stores values under key for the cache TTL.
func (c *SuggestionCache) Set(ctx context.Context, key string, values []string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode suggestions: %w", err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
