package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/services/item/domain/models"
)

// ItemCache is the read cache behind PrepareDelete. The service only reads
// and invalidates it; the cache-sync worker fills it from item events.
// *cache.ItemCache implements it.
type ItemCache interface {
	Get(ctx context.Context, id int64) (*cache.CachedItem, error)
	Delete(ctx context.Context, id int64) error
	Tombstone(ctx context.Context, id int64) error
}

// CategoryCache is the read cache behind the category select list.
// *cache.CategoryCache implements it.
type CategoryCache interface {
	Get(ctx context.Context) ([]cache.CachedCategory, error)
	Set(ctx context.Context, cats []cache.CachedCategory) error
}

func fromCachedItem(c *cache.CachedItem) (*models.Item, error) {
	price, err := decimal.NewFromString(c.Price)
	if err != nil {
		return nil, err
	}
	item := &models.Item{
		ID:         c.ID,
		Name:       c.Name,
		Price:      price,
		CategoryID: c.CategoryID,
		Version:    c.Version,
	}
	if c.SerialNumberName != "" {
		item.SerialNumber = &models.SerialNumber{Name: c.SerialNumberName, ItemID: c.ID}
	}
	return item, nil
}

func toCachedCategories(cats []*models.Category) []cache.CachedCategory {
	out := make([]cache.CachedCategory, len(cats))
	for i, c := range cats {
		out[i] = cache.CachedCategory{ID: c.ID, Name: c.Name}
	}
	return out
}

func fromCachedCategories(cats []cache.CachedCategory) []*models.Category {
	out := make([]*models.Category, len(cats))
	for i, c := range cats {
		out[i] = &models.Category{ID: c.ID, Name: c.Name}
	}
	return out
}
