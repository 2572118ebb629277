// Package subscribers reacts to item events published by the store.
package subscribers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	pkgcache "github.com/ghuser/catalog/pkg/cache"
	pkgevents "github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/logger"
	itemevents "github.com/ghuser/catalog/services/item/domain/events"
)

// ItemCache is the cache CacheSync maintains. *cache.ItemCache implements
// it.
type ItemCache interface {
	Set(ctx context.Context, item *pkgcache.CachedItem) (bool, error)
	Delete(ctx context.Context, id int64) error
	Tombstone(ctx context.Context, id int64) error
}

// CacheSync keeps the item read cache in line with committed writes.
// Topics are consumed independently, so events for one item may arrive in
// any order; handlers are idempotent and order-insensitive:
//
//   - item.created evicts. Its snapshot predates the serial number commit.
//   - item.updated with item state writes the snapshot unless the cache
//     holds the same or a newer version. A bare update evicts.
//   - item.deleted leaves a tombstone no later event can overwrite.
type CacheSync struct {
	cache ItemCache
	log   logger.Logger
}

// NewCacheSync returns a CacheSync writing to cache.
func NewCacheSync(cache ItemCache, log logger.Logger) *CacheSync {
	return &CacheSync{cache: cache, log: log}
}

// Handler returns the handler for topic.
func (s *CacheSync) Handler(topic string) (pkgevents.Handler, error) {
	switch topic {
	case itemevents.TopicItemCreated:
		return s.handleCreated, nil
	case itemevents.TopicItemUpdated:
		return s.handleUpdated, nil
	case itemevents.TopicItemDeleted:
		return s.handleDeleted, nil
	default:
		return nil, fmt.Errorf("cache sync: no handler for topic %q", topic)
	}
}

func (s *CacheSync) handleCreated(ctx context.Context, msg *message.Message) error {
	var evt itemevents.ItemChangedEvent
	if err := pkgevents.DecodeJSON(msg, &evt); err != nil {
		return err
	}
	return s.evict(ctx, evt.ItemID)
}

func (s *CacheSync) handleUpdated(ctx context.Context, msg *message.Message) error {
	var evt itemevents.ItemChangedEvent
	if err := pkgevents.DecodeJSON(msg, &evt); err != nil {
		return err
	}

	// A serial-number-only change carries no item state.
	if evt.Name == "" {
		return s.evict(ctx, evt.ItemID)
	}

	stored, err := s.cache.Set(ctx, &pkgcache.CachedItem{
		ID:               evt.ItemID,
		Name:             evt.Name,
		Price:            evt.Price,
		CategoryID:       evt.CategoryID,
		SerialNumberName: evt.SerialNumberName,
		Version:          evt.RowVersion,
	})
	if err != nil {
		return fmt.Errorf("cache item %d: %w", evt.ItemID, err)
	}
	if !stored {
		s.log.DebugContext(ctx, "stale item event skipped", "item_id", evt.ItemID, "event_version", evt.RowVersion)
		return nil
	}
	s.log.InfoContext(ctx, "item cache refreshed", "item_id", evt.ItemID, "version", evt.RowVersion)
	return nil
}

func (s *CacheSync) handleDeleted(ctx context.Context, msg *message.Message) error {
	var evt itemevents.ItemChangedEvent
	if err := pkgevents.DecodeJSON(msg, &evt); err != nil {
		return err
	}
	if err := s.cache.Tombstone(ctx, evt.ItemID); err != nil {
		return fmt.Errorf("tombstone item %d: %w", evt.ItemID, err)
	}
	s.log.InfoContext(ctx, "item cache tombstoned", "item_id", evt.ItemID)
	return nil
}

func (s *CacheSync) evict(ctx context.Context, id int64) error {
	if err := s.cache.Delete(ctx, id); err != nil {
		return fmt.Errorf("evict item %d: %w", id, err)
	}
	s.log.InfoContext(ctx, "item cache evicted", "item_id", id)
	return nil
}
