package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL bounds how long a cached item can outlive a missed
	// invalidation. Tombstones live as long.
	ItemCacheTTL = 24 * time.Hour

	itemKeyPrefix = "catalog:item"
)

// setItemScript writes the hash only when the key is absent or holds an
// older version. Tombstones are never overwritten.
//
// KEYS[1] item key, ARGV[1] version, ARGV[2] ttl seconds, ARGV[3:] hash fields.
var setItemScript = redis.NewScript(`
local cur = redis.call('HMGET', KEYS[1], 'deleted', 'version')
if cur[1] == '1' then return 0 end
if cur[2] and tonumber(cur[2]) >= tonumber(ARGV[1]) then return 0 end
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], unpack(ARGV, 3))
redis.call('EXPIRE', KEYS[1], ARGV[2])
return 1
`)

// evictItemScript drops a cached item but leaves a tombstone in place.
var evictItemScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'deleted') == '1' then return 0 end
return redis.call('DEL', KEYS[1])
`)

// CachedItem is the flattened item stored as a Redis hash. Deleted marks a
// tombstone: the item is gone and only ID is meaningful.
type CachedItem struct {
	ID               int64
	Name             string
	Price            string
	CategoryID       int64
	SerialNumberName string
	Version          int32
	Deleted          bool
}

// ItemCache reads and writes CachedItem entries keyed "catalog:item:{id}".
type ItemCache struct {
	rdb redis.Cmdable
}

// NewItemCache returns an ItemCache on r.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{rdb: r.Client()}
}

// Get returns the cached item or its tombstone. A miss is reported as
// redis.Nil; see IsMiss.
func (c *ItemCache) Get(ctx context.Context, id int64) (*CachedItem, error) {
	vals, err := c.rdb.HGetAll(ctx, itemKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("item cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	item, err := decodeItem(vals)
	if err != nil {
		return nil, fmt.Errorf("item cache decode %d: %w", id, err)
	}
	return item, nil
}

// Set stores item unless the cache already holds the same or a newer
// version, or a tombstone. It reports whether the entry was written.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) (bool, error) {
	args := append([]any{
		strconv.FormatInt(int64(item.Version), 10),
		int64(ItemCacheTTL / time.Second),
	}, encodeItem(item)...)
	n, err := setItemScript.Run(ctx, c.rdb, []string{itemKey(item.ID)}, args...).Int()
	if err != nil {
		return false, fmt.Errorf("item cache set: %w", err)
	}
	return n == 1, nil
}

// Delete evicts the item. Evicting a missing key is not an error, and a
// tombstone survives eviction.
func (c *ItemCache) Delete(ctx context.Context, id int64) error {
	if err := evictItemScript.Run(ctx, c.rdb, []string{itemKey(id)}).Err(); err != nil {
		return fmt.Errorf("item cache delete: %w", err)
	}
	return nil
}

// Tombstone replaces the entry with a marker that the item is gone. Item ids
// are never reused, so the marker is final until it expires.
func (c *ItemCache) Tombstone(ctx context.Context, id int64) error {
	key := itemKey(id)
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, encodeTombstone(id)...)
	pipe.Expire(ctx, key, ItemCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("item cache tombstone: %w", err)
	}
	return nil
}

func itemKey(id int64) string {
	return itemKeyPrefix + ":" + strconv.FormatInt(id, 10)
}

func encodeItem(item *CachedItem) []any {
	return []any{
		"id", strconv.FormatInt(item.ID, 10),
		"name", item.Name,
		"price", item.Price,
		"category_id", strconv.FormatInt(item.CategoryID, 10),
		"serial_number_name", item.SerialNumberName,
		"version", strconv.FormatInt(int64(item.Version), 10),
	}
}

func encodeTombstone(id int64) []any {
	return []any{
		"id", strconv.FormatInt(id, 10),
		"deleted", "1",
	}
}

func decodeItem(vals map[string]string) (*CachedItem, error) {
	id, err := strconv.ParseInt(vals["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	if vals["deleted"] == "1" {
		return &CachedItem{ID: id, Deleted: true}, nil
	}
	categoryID, err := strconv.ParseInt(vals["category_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("category_id: %w", err)
	}
	version, err := strconv.ParseInt(vals["version"], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}
	return &CachedItem{
		ID:               id,
		Name:             vals["name"],
		Price:            vals["price"],
		CategoryID:       categoryID,
		SerialNumberName: vals["serial_number_name"],
		Version:          int32(version),
	}, nil
}
