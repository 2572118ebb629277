package repositories

import (
	"context"
	"errors"

	"github.com/ghuser/catalog/services/item/domain/models"
)

// ErrSessionClosed is returned by every Session method called after Close.
var ErrSessionClosed = errors.New("session closed")

// LoadOpts selects which relationships GetItem expands.
type LoadOpts struct {
	SerialNumber bool
}

// Store hands out request-scoped sessions. The domain layer owns this
// interface; infrastructure implements it.
type Store interface {
	Session(ctx context.Context) (Session, error)
}

// Session is a unit of work over items, categories and serial numbers.
//
// Reads hit the backing store immediately. Add*, Update* and Remove* only
// queue changes; Commit applies everything queued so far as one atomic write
// and assigns generated IDs to added records. Commit returns
// domain.ErrConcurrencyConflict when a queued update or removal targets a row
// whose version changed since it was loaded; nothing is written in that case.
// A failed Commit discards the queue.
//
// Read methods may be called from several goroutines at once; queueing and
// Commit may not.
type Session interface {
	// ListItems returns every item ordered by ID with SerialNumber, Category
	// and Clients expanded.
	ListItems(ctx context.Context) ([]*models.Item, error)

	// ListCategories returns every category ordered by name.
	ListCategories(ctx context.Context) ([]*models.Category, error)

	// CategoryExists reports whether a category with the given ID exists.
	CategoryExists(ctx context.Context, id int64) (bool, error)

	// GetItem returns the item with the given ID, or nil when there is none.
	GetItem(ctx context.Context, id int64, opts LoadOpts) (*models.Item, error)

	// Exists reports whether an item with the given ID exists.
	Exists(ctx context.Context, id int64) (bool, error)

	AddItem(item *models.Item)
	UpdateItem(item *models.Item)
	RemoveItem(item *models.Item)
	AddSerialNumber(sn *models.SerialNumber)
	UpdateSerialNumber(sn *models.SerialNumber)

	Commit(ctx context.Context) error

	// Close discards uncommitted changes and releases the session. It is
	// safe to call more than once.
	Close() error
}
