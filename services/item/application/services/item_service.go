package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	pkgcache "github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/logger"
	itemdomain "github.com/ghuser/catalog/services/item/domain"
	"github.com/ghuser/catalog/services/item/domain/models"
	"github.com/ghuser/catalog/services/item/domain/repositories"
)

var tracer = otel.Tracer("catalog/item")

// EditView is what the edit form needs: the item with its serial number and
// every category to choose from.
type EditView struct {
	Item       *models.Item
	Categories []*models.Category
}

// ItemService implements the item screens. Each call opens its own store
// session and closes it before returning.
type ItemService struct {
	store      repositories.Store
	items      ItemCache
	categories CategoryCache
	log        logger.Logger

	created   metric.Int64Counter
	edited    metric.Int64Counter
	deleted   metric.Int64Counter
	conflicts metric.Int64Counter
}

// Option configures an ItemService.
type Option func(*ItemService)

// WithItemCache serves PrepareDelete through c. Edits evict and deletes
// leave a tombstone.
func WithItemCache(c ItemCache) Option {
	return func(s *ItemService) { s.items = c }
}

// WithCategoryCache serves category lists through c.
func WithCategoryCache(c CategoryCache) Option {
	return func(s *ItemService) { s.categories = c }
}

// NewItemService returns an ItemService on store.
func NewItemService(store repositories.Store, log logger.Logger, opts ...Option) *ItemService {
	s := &ItemService{store: store, log: log}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initMetrics(otel.Meter("catalog/item")); err != nil {
		log.Warn("item counters unavailable", "error", err)
	}
	return s
}

// initMetrics creates the service counters. A counter the meter refuses is
// replaced by a no-op one, and the refusals are returned together.
func (s *ItemService) initMetrics(meter metric.Meter) error {
	var errs []error
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			errs = append(errs, fmt.Errorf("counter %s: %w", name, err))
			c, _ = noop.Meter{}.Int64Counter(name)
		}
		return c
	}
	s.created = counter("catalog.items.created", "Items created")
	s.edited = counter("catalog.items.edited", "Items edited")
	s.deleted = counter("catalog.items.deleted", "Items deleted")
	s.conflicts = counter("catalog.items.edit_conflicts", "Edits rejected by a concurrent write")
	return errors.Join(errs...)
}

// List returns every item with its serial number, category and clients.
func (s *ItemService) List(ctx context.Context) (items []*models.Item, err error) {
	ctx, span := tracer.Start(ctx, "ItemService.List")
	defer func() { endSpan(span, err) }()

	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer s.closeSession(ctx, sess)

	items, err = sess.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	span.SetAttributes(attribute.Int("items.count", len(items)))
	return items, nil
}

// PrepareCreate returns the categories for a new item's select list.
func (s *ItemService) PrepareCreate(ctx context.Context) (cats []*models.Category, err error) {
	ctx, span := tracer.Start(ctx, "ItemService.PrepareCreate")
	defer func() { endSpan(span, err) }()

	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer s.closeSession(ctx, sess)

	return s.listCategories(ctx, sess)
}

// Create validates in and stores a new item, then its serial number when
// one was given. The two writes commit separately: if the second fails the
// item stays and the error is returned.
func (s *ItemService) Create(ctx context.Context, in ItemInput) (item *models.Item, err error) {
	ctx, span := tracer.Start(ctx, "ItemService.Create")
	defer func() { endSpan(span, err) }()

	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer s.closeSession(ctx, sess)

	f, err := parseInput(ctx, sess, in)
	if err != nil {
		return nil, err
	}

	item = models.NewItem(f.name, f.price, f.categoryID)
	sess.AddItem(item)
	if err := sess.Commit(ctx); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	span.SetAttributes(attribute.Int64("item.id", item.ID))

	if f.serial != "" {
		sn := models.NewSerialNumber(f.serial, item.ID)
		sess.AddSerialNumber(sn)
		if err := sess.Commit(ctx); err != nil {
			s.log.ErrorContext(ctx, "item created without its serial number",
				"item_id", item.ID,
				"serial_number", f.serial,
				"error", err,
			)
			return nil, fmt.Errorf("create serial number for item %d: %w", item.ID, err)
		}
		item.SerialNumber = sn
	}

	s.created.Add(ctx, 1)
	s.log.InfoContext(ctx, "item created", "item_id", item.ID)
	return item, nil
}

// PrepareEdit loads the item and the category list concurrently.
func (s *ItemService) PrepareEdit(ctx context.Context, id int64) (view *EditView, err error) {
	ctx, span := tracer.Start(ctx, "ItemService.PrepareEdit", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer func() { endSpan(span, err) }()

	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer s.closeSession(ctx, sess)

	view = &EditView{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		item, err := sess.GetItem(gctx, id, repositories.LoadOpts{SerialNumber: true})
		if err != nil {
			return fmt.Errorf("get item %d: %w", id, err)
		}
		if item == nil {
			return fmt.Errorf("item %d: %w", id, itemdomain.ErrItemNotFound)
		}
		view.Item = item
		return nil
	})
	g.Go(func() error {
		cats, err := s.listCategories(gctx, sess)
		view.Categories = cats
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// Edit validates in and overwrites the item and its serial number in one
// commit. An existing serial number is always updated, even to an empty
// name; a missing one is only created for a non-empty name.
//
// A concurrent write surfaces as domain.ErrConcurrencyConflict, or as
// domain.ErrItemNotFound when the item was deleted meanwhile.
func (s *ItemService) Edit(ctx context.Context, id int64, in ItemInput) (item *models.Item, err error) {
	ctx, span := tracer.Start(ctx, "ItemService.Edit", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer func() { endSpan(span, err) }()

	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer s.closeSession(ctx, sess)

	f, err := parseInput(ctx, sess, in)
	if err != nil {
		return nil, err
	}

	item, err = sess.GetItem(ctx, id, repositories.LoadOpts{SerialNumber: true})
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", id, itemdomain.ErrItemNotFound)
	}

	item.Apply(f.name, f.price, f.categoryID)
	sess.UpdateItem(item)

	switch {
	case item.SerialNumber != nil:
		item.SerialNumber.Name = f.serial
		sess.UpdateSerialNumber(item.SerialNumber)
	case f.serial != "":
		item.SerialNumber = models.NewSerialNumber(f.serial, item.ID)
		sess.AddSerialNumber(item.SerialNumber)
	}

	if err := sess.Commit(ctx); err != nil {
		if !errors.Is(err, itemdomain.ErrConcurrencyConflict) {
			return nil, fmt.Errorf("edit item %d: %w", id, err)
		}
		s.conflicts.Add(ctx, 1)
		exists, exErr := sess.Exists(ctx, id)
		if exErr != nil {
			return nil, fmt.Errorf("edit item %d: %w", id, errors.Join(err, exErr))
		}
		if !exists {
			return nil, fmt.Errorf("edit item %d: %w", id, itemdomain.ErrItemNotFound)
		}
		return nil, fmt.Errorf("edit item %d: %w", id, err)
	}

	s.evict(ctx, id)
	s.edited.Add(ctx, 1)
	s.log.InfoContext(ctx, "item edited", "item_id", id)
	return item, nil
}

// PrepareDelete returns the item to confirm, or nil when there is none. It
// reads the item cache first and falls back to the store on a miss; the
// cache itself is filled by the cache-sync worker, never from here.
func (s *ItemService) PrepareDelete(ctx context.Context, id int64) (item *models.Item, err error) {
	ctx, span := tracer.Start(ctx, "ItemService.PrepareDelete", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer func() { endSpan(span, err) }()

	if cached, hit := s.cachedItem(ctx, id); hit {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer s.closeSession(ctx, sess)

	item, err = sess.GetItem(ctx, id, repositories.LoadOpts{SerialNumber: true})
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

// DeleteConfirmed removes the item and everything it owns. Deleting an item
// that is already gone, or goes while this call runs, is not an error.
func (s *ItemService) DeleteConfirmed(ctx context.Context, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "ItemService.DeleteConfirmed", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer func() { endSpan(span, err) }()

	sess, err := s.store.Session(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer s.closeSession(ctx, sess)

	item, err := sess.GetItem(ctx, id, repositories.LoadOpts{})
	if err != nil {
		return fmt.Errorf("get item %d: %w", id, err)
	}
	if item == nil {
		s.tombstone(ctx, id)
		return nil
	}

	sess.RemoveItem(item)
	if err := sess.Commit(ctx); err != nil {
		if !errors.Is(err, itemdomain.ErrConcurrencyConflict) {
			return fmt.Errorf("delete item %d: %w", id, err)
		}
		exists, exErr := sess.Exists(ctx, id)
		if exErr != nil {
			return fmt.Errorf("delete item %d: %w", id, errors.Join(err, exErr))
		}
		if exists {
			return fmt.Errorf("delete item %d: %w", id, err)
		}
		s.tombstone(ctx, id)
		return nil
	}

	s.tombstone(ctx, id)
	s.deleted.Add(ctx, 1)
	s.log.InfoContext(ctx, "item deleted", "item_id", id)
	return nil
}

func (s *ItemService) listCategories(ctx context.Context, sess repositories.Session) ([]*models.Category, error) {
	if s.categories != nil {
		cached, err := s.categories.Get(ctx)
		switch {
		case err == nil:
			return fromCachedCategories(cached), nil
		case !pkgcache.IsMiss(err):
			s.log.WarnContext(ctx, "category cache get failed", "error", err)
		}
	}

	cats, err := sess.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if s.categories != nil {
		if err := s.categories.Set(ctx, toCachedCategories(cats)); err != nil {
			s.log.WarnContext(ctx, "category cache set failed", "error", err)
		}
	}
	return cats, nil
}

// cachedItem reports hit=true with a nil item for a tombstone.
func (s *ItemService) cachedItem(ctx context.Context, id int64) (item *models.Item, hit bool) {
	if s.items == nil {
		return nil, false
	}
	cached, err := s.items.Get(ctx, id)
	if err != nil {
		if !pkgcache.IsMiss(err) {
			s.log.WarnContext(ctx, "item cache get failed", "item_id", id, "error", err)
		}
		return nil, false
	}
	if cached.Deleted {
		return nil, true
	}
	item, err = fromCachedItem(cached)
	if err != nil {
		s.log.WarnContext(ctx, "item cache entry unreadable", "item_id", id, "error", err)
		return nil, false
	}
	return item, true
}

func (s *ItemService) evict(ctx context.Context, id int64) {
	if s.items == nil {
		return
	}
	if err := s.items.Delete(ctx, id); err != nil {
		s.log.WarnContext(ctx, "item cache evict failed", "item_id", id, "error", err)
	}
}

func (s *ItemService) tombstone(ctx context.Context, id int64) {
	if s.items == nil {
		return
	}
	if err := s.items.Tombstone(ctx, id); err != nil {
		s.log.WarnContext(ctx, "item cache tombstone failed", "item_id", id, "error", err)
	}
}

func (s *ItemService) closeSession(ctx context.Context, sess repositories.Session) {
	if err := sess.Close(); err != nil {
		s.log.WarnContext(ctx, "close session", "error", err)
	}
}

// endSpan records err on span unless it is a validation or not-found
// outcome, which are normal answers rather than failures.
func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, itemdomain.ErrValidation) && !errors.Is(err, itemdomain.ErrItemNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
