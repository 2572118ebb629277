package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const categoriesKey = "catalog:categories"

// CachedCategory is one entry of the cached category list.
type CachedCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryCache keeps the ordered category list as a single JSON value.
// Categories are read-only to the service, so entries simply expire.
type CategoryCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewCategoryCache returns a CategoryCache whose entries live for ttl.
func NewCategoryCache(r *RedisClient, ttl time.Duration) *CategoryCache {
	return &CategoryCache{rdb: r.Client(), ttl: ttl}
}

// Get returns the cached list. A miss is reported as redis.Nil.
func (c *CategoryCache) Get(ctx context.Context) ([]CachedCategory, error) {
	raw, err := c.rdb.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if IsMiss(err) {
			return nil, err
		}
		return nil, fmt.Errorf("category cache get: %w", err)
	}
	var cats []CachedCategory
	if err := json.Unmarshal(raw, &cats); err != nil {
		return nil, fmt.Errorf("category cache decode: %w", err)
	}
	return cats, nil
}

// Set replaces the cached list.
func (c *CategoryCache) Set(ctx context.Context, cats []CachedCategory) error {
	raw, err := json.Marshal(cats)
	if err != nil {
		return fmt.Errorf("category cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, categoriesKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("category cache set: %w", err)
	}
	return nil
}
