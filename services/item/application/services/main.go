package services

import (
	"fmt"

	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/services/item/domain/repositories"
	"github.com/ghuser/catalog/services/item/infrastructure/persistence/memory"
	"github.com/ghuser/catalog/services/item/infrastructure/persistence/postgres"
)

// DefaultCategories seeds the memory store so the create form has choices.
// The postgres store gets the same rows from its seed migration.
var DefaultCategories = []string{"Electronics", "Furniture", "Office Supplies", "Tools"}

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with infrastructure from the
// Application container.
func New(a *app.Application) (*Services, error) {
	store, err := newStore(a)
	if err != nil {
		return nil, err
	}

	var opts []Option
	if a.Redis != nil {
		opts = append(opts,
			WithItemCache(cache.NewItemCache(a.Redis)),
			WithCategoryCache(cache.NewCategoryCache(a.Redis, a.Config.CategoryCacheTTL)),
		)
	}

	return &Services{
		Item: NewItemService(store, a.Logger.With("component", "item_service"), opts...),
	}, nil
}

func newStore(a *app.Application) (repositories.Store, error) {
	switch a.Config.StoreDriver {
	case config.StoreDriverPostgres:
		if a.DB == nil {
			return nil, fmt.Errorf("store driver %q needs a database", a.Config.StoreDriver)
		}
		return postgres.NewStore(a.DB, a.EventBus, a.Logger), nil
	case config.StoreDriverMemory:
		s := memory.NewStore()
		s.SeedCategories(DefaultCategories...)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", a.Config.StoreDriver)
	}
}
