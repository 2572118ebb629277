package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-valid-url")
	require.Error(t, err)
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "redis://localhost:19999")
	require.Error(t, err)
}

func TestIsMiss(t *testing.T) {
	require.True(t, IsMiss(redis.Nil))
	require.True(t, IsMiss(fmt.Errorf("wrapped: %w", redis.Nil)))
	require.False(t, IsMiss(errors.New("connection refused")))
	require.False(t, IsMiss(nil))
}

func TestCloseNil(t *testing.T) {
	var rc *RedisClient
	require.NoError(t, rc.Close())
}

func TestItemEncoding(t *testing.T) {
	in := &CachedItem{ID: 42, Name: "Widget", Price: "9.99", CategoryID: 3, SerialNumberName: "SN-1", Version: 7}

	args := encodeItem(in)
	vals := make(map[string]string, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		vals[args[i].(string)] = args[i+1].(string)
	}

	out, err := decodeItem(vals)
	require.NoError(t, err)
	require.Equal(t, in, out)
	require.Equal(t, "catalog:item:42", itemKey(42))
}

func TestDecodeItem_Corrupt(t *testing.T) {
	_, err := decodeItem(map[string]string{"id": "x"})
	require.ErrorContains(t, err, "id")

	_, err = decodeItem(map[string]string{"id": "1", "category_id": "2", "version": "big"})
	require.ErrorContains(t, err, "version")
}

func TestDecodeItem_Tombstone(t *testing.T) {
	args := encodeTombstone(9)
	vals := make(map[string]string, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		vals[args[i].(string)] = args[i+1].(string)
	}

	out, err := decodeItem(vals)
	require.NoError(t, err)
	require.Equal(t, &CachedItem{ID: 9, Deleted: true}, out)
}

func TestRedisIntegration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}
	ctx := context.Background()
	rc, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	defer rc.Close() //nolint:errcheck
	require.NoError(t, rc.Ping(ctx))

	t.Run("item round trip", func(t *testing.T) {
		items := NewItemCache(rc)
		id := time.Now().UnixNano()
		_, err := items.Get(ctx, id)
		require.True(t, IsMiss(err))

		want := &CachedItem{ID: id, Name: "Widget", Price: "1.5", CategoryID: 1, Version: 1}
		stored, err := items.Set(ctx, want)
		require.NoError(t, err)
		require.True(t, stored)
		got, err := items.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, want, got)

		ttl, err := rc.Client().TTL(ctx, itemKey(id)).Result()
		require.NoError(t, err)
		require.Greater(t, ttl, time.Duration(0))

		require.NoError(t, items.Delete(ctx, id))
		_, err = items.Get(ctx, id)
		require.True(t, IsMiss(err))
	})

	t.Run("older versions are ignored", func(t *testing.T) {
		items := NewItemCache(rc)
		id := time.Now().UnixNano()
		defer rc.Client().Del(ctx, itemKey(id))

		stored, err := items.Set(ctx, &CachedItem{ID: id, Name: "v2", Price: "2", CategoryID: 1, Version: 2})
		require.NoError(t, err)
		require.True(t, stored)

		for _, v := range []int32{1, 2} {
			stored, err = items.Set(ctx, &CachedItem{ID: id, Name: "stale", Price: "1", CategoryID: 1, Version: v})
			require.NoError(t, err)
			require.False(t, stored)
		}

		stored, err = items.Set(ctx, &CachedItem{ID: id, Name: "v3", Price: "3", CategoryID: 1, Version: 3})
		require.NoError(t, err)
		require.True(t, stored)
		got, err := items.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "v3", got.Name)
	})

	t.Run("tombstone blocks later writes", func(t *testing.T) {
		items := NewItemCache(rc)
		id := time.Now().UnixNano()
		defer rc.Client().Del(ctx, itemKey(id))

		require.NoError(t, items.Tombstone(ctx, id))
		stored, err := items.Set(ctx, &CachedItem{ID: id, Name: "Widget", Price: "1", CategoryID: 1, Version: 1})
		require.NoError(t, err)
		require.False(t, stored)
		require.NoError(t, items.Delete(ctx, id))

		got, err := items.Get(ctx, id)
		require.NoError(t, err)
		require.True(t, got.Deleted)

		ttl, err := rc.Client().TTL(ctx, itemKey(id)).Result()
		require.NoError(t, err)
		require.Greater(t, ttl, time.Duration(0))
	})

	t.Run("category round trip", func(t *testing.T) {
		cats := NewCategoryCache(rc, time.Minute)
		require.NoError(t, rc.Client().Del(ctx, categoriesKey).Err())
		_, err := cats.Get(ctx)
		require.True(t, IsMiss(err))

		want := []CachedCategory{{ID: 2, Name: "Electronics"}, {ID: 1, Name: "Tools"}}
		require.NoError(t, cats.Set(ctx, want))
		got, err := cats.Get(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.NoError(t, rc.Client().Del(ctx, categoriesKey).Err())
	})
}
