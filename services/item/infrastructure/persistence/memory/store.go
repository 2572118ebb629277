// Package memory implements the item Store in process memory. It backs local
// development and the service tests, and follows the same version and
// cascade rules as the PostgreSQL store.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	itemdomain "github.com/ghuser/catalog/services/item/domain"
	"github.com/ghuser/catalog/services/item/domain/models"
	"github.com/ghuser/catalog/services/item/domain/repositories"
	"github.com/ghuser/catalog/services/item/infrastructure/persistence"
)

type itemRecord struct {
	id         int64
	name       string
	price      decimal.Decimal
	categoryID int64
	version    int32
}

type serialRecord struct {
	id      int64
	name    string
	itemID  int64
	version int32
}

// state is everything the store holds. It is never mutated once published;
// writers build a clone and swap it in, so readers may use a snapshot
// without holding the lock.
type state struct {
	items      map[int64]itemRecord
	serials    map[int64]serialRecord // keyed by serial id
	categories map[int64]models.Category
	clients    map[int64]models.Client
	links      map[int64][]int64 // item id -> client ids
	nextItem   int64
	nextSerial int64
}

func (s *state) clone() *state {
	links := make(map[int64][]int64, len(s.links))
	for k, v := range s.links {
		links[k] = slices.Clone(v)
	}
	return &state{
		items:      maps.Clone(s.items),
		serials:    maps.Clone(s.serials),
		categories: s.categories,
		clients:    s.clients,
		links:      links,
		nextItem:   s.nextItem,
		nextSerial: s.nextSerial,
	}
}

func (s *state) serialFor(itemID int64) (serialRecord, bool) {
	for _, sn := range s.serials {
		if sn.itemID == itemID {
			return sn, true
		}
	}
	return serialRecord{}, false
}

// Store is a goroutine-safe in-memory repositories.Store.
type Store struct {
	mu    sync.RWMutex
	state *state
}

var _ repositories.Store = (*Store)(nil)

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{state: &state{
		items:      map[int64]itemRecord{},
		serials:    map[int64]serialRecord{},
		categories: map[int64]models.Category{},
		clients:    map[int64]models.Client{},
		links:      map[int64][]int64{},
	}}
}

// SeedCategories adds categories with the given names and returns them with
// their assigned IDs.
func (s *Store) SeedCategories(names ...string) []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	next.categories = maps.Clone(next.categories)
	out := make([]models.Category, 0, len(names))
	for _, name := range names {
		c := models.Category{ID: int64(len(next.categories) + 1), Name: name}
		next.categories[c.ID] = c
		out = append(out, c)
	}
	s.state = next
	return out
}

// SeedClient adds a client and returns its ID.
func (s *Store) SeedClient(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	next.clients = maps.Clone(next.clients)
	id := int64(len(next.clients) + 1)
	next.clients[id] = models.Client{ID: id, Name: name}
	s.state = next
	return id
}

// LinkClient associates an existing item with an existing client.
func (s *Store) LinkClient(itemID, clientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.items[itemID]; !ok {
		return fmt.Errorf("link client: %w", itemdomain.ErrItemNotFound)
	}
	if _, ok := s.state.clients[clientID]; !ok {
		return fmt.Errorf("link client: client %d not found", clientID)
	}
	if slices.Contains(s.state.links[itemID], clientID) {
		return nil
	}
	next := s.state.clone()
	next.links[itemID] = append(next.links[itemID], clientID)
	s.state = next
	return nil
}

// Session opens a unit of work on the store.
func (s *Store) Session(context.Context) (repositories.Session, error) {
	return &session{store: s}, nil
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// commit applies ops to a clone of the current state and swaps it in.
func (s *Store) commit(ops []persistence.Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	var assign []func()
	for _, op := range ops {
		fn, err := apply(next, op)
		if err != nil {
			return err
		}
		if fn != nil {
			assign = append(assign, fn)
		}
	}
	s.state = next
	for _, fn := range assign {
		fn()
	}
	return nil
}

// apply runs one op against st. The returned func copies generated values
// onto the caller's model and runs only if the whole commit succeeds.
func apply(st *state, op persistence.Op) (func(), error) {
	switch op.Kind {
	case persistence.OpAddItem:
		item := op.Item
		if _, ok := st.categories[item.CategoryID]; !ok {
			return nil, fmt.Errorf("insert item: %w", itemdomain.ErrCategoryNotFound)
		}
		st.nextItem++
		id := st.nextItem
		st.items[id] = itemRecord{id: id, name: item.Name, price: item.Price, categoryID: item.CategoryID, version: 1}
		return func() { item.ID, item.Version = id, 1 }, nil

	case persistence.OpUpdateItem:
		item := op.Item
		cur, ok := st.items[item.ID]
		if !ok || cur.version != item.Version {
			return nil, fmt.Errorf("update item %d: %w", item.ID, itemdomain.ErrConcurrencyConflict)
		}
		if _, ok := st.categories[item.CategoryID]; !ok {
			return nil, fmt.Errorf("update item: %w", itemdomain.ErrCategoryNotFound)
		}
		version := cur.version + 1
		st.items[item.ID] = itemRecord{id: item.ID, name: item.Name, price: item.Price, categoryID: item.CategoryID, version: version}
		return func() { item.Version = version }, nil

	case persistence.OpRemoveItem:
		item := op.Item
		cur, ok := st.items[item.ID]
		if !ok || cur.version != item.Version {
			return nil, fmt.Errorf("delete item %d: %w", item.ID, itemdomain.ErrConcurrencyConflict)
		}
		delete(st.items, item.ID)
		delete(st.links, item.ID)
		if sn, ok := st.serialFor(item.ID); ok {
			delete(st.serials, sn.id)
		}
		return nil, nil

	case persistence.OpAddSerialNumber:
		sn := op.SerialNumber
		if _, ok := st.items[sn.ItemID]; !ok {
			return nil, fmt.Errorf("insert serial number: %w", itemdomain.ErrConcurrencyConflict)
		}
		if _, taken := st.serialFor(sn.ItemID); taken {
			return nil, fmt.Errorf("insert serial number: %w", itemdomain.ErrConcurrencyConflict)
		}
		st.nextSerial++
		id := st.nextSerial
		st.serials[id] = serialRecord{id: id, name: sn.Name, itemID: sn.ItemID, version: 1}
		return func() { sn.ID, sn.Version = id, 1 }, nil

	case persistence.OpUpdateSerialNumber:
		sn := op.SerialNumber
		cur, ok := st.serials[sn.ID]
		if !ok || cur.version != sn.Version {
			return nil, fmt.Errorf("update serial number %d: %w", sn.ID, itemdomain.ErrConcurrencyConflict)
		}
		version := cur.version + 1
		st.serials[sn.ID] = serialRecord{id: sn.ID, name: sn.Name, itemID: cur.itemID, version: version}
		return func() { sn.Version = version }, nil
	}
	return nil, fmt.Errorf("unknown op %s", op.Kind)
}

type session struct {
	store   *Store
	pending persistence.ChangeSet
	closed  bool
}

func (s *session) ListItems(context.Context) ([]*models.Item, error) {
	if s.closed {
		return nil, repositories.ErrSessionClosed
	}
	st := s.store.snapshot()

	ids := slices.Sorted(maps.Keys(st.items))
	out := make([]*models.Item, 0, len(ids))
	for _, id := range ids {
		item := toItem(st.items[id])
		cat := st.categories[item.CategoryID]
		item.Category = &cat
		if sn, ok := st.serialFor(id); ok {
			item.SerialNumber = toSerial(sn)
		}
		for _, clientID := range st.links[id] {
			c := st.clients[clientID]
			item.Clients = append(item.Clients, models.ItemClient{ItemID: id, ClientID: clientID, Client: &c})
		}
		slices.SortFunc(item.Clients, func(a, b models.ItemClient) int {
			return strings.Compare(a.Client.Name, b.Client.Name)
		})
		out = append(out, item)
	}
	return out, nil
}

func (s *session) ListCategories(context.Context) ([]*models.Category, error) {
	if s.closed {
		return nil, repositories.ErrSessionClosed
	}
	st := s.store.snapshot()

	out := make([]*models.Category, 0, len(st.categories))
	for _, c := range st.categories {
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *models.Category) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *session) CategoryExists(_ context.Context, id int64) (bool, error) {
	if s.closed {
		return false, repositories.ErrSessionClosed
	}
	_, ok := s.store.snapshot().categories[id]
	return ok, nil
}

func (s *session) GetItem(_ context.Context, id int64, opts repositories.LoadOpts) (*models.Item, error) {
	if s.closed {
		return nil, repositories.ErrSessionClosed
	}
	st := s.store.snapshot()
	rec, ok := st.items[id]
	if !ok {
		return nil, nil
	}
	item := toItem(rec)
	if opts.SerialNumber {
		if sn, ok := st.serialFor(id); ok {
			item.SerialNumber = toSerial(sn)
		}
	}
	return item, nil
}

func (s *session) Exists(_ context.Context, id int64) (bool, error) {
	if s.closed {
		return false, repositories.ErrSessionClosed
	}
	_, ok := s.store.snapshot().items[id]
	return ok, nil
}

func (s *session) AddItem(item *models.Item)               { s.pending.AddItem(item) }
func (s *session) UpdateItem(item *models.Item)            { s.pending.UpdateItem(item) }
func (s *session) RemoveItem(item *models.Item)            { s.pending.RemoveItem(item) }
func (s *session) AddSerialNumber(sn *models.SerialNumber) { s.pending.AddSerialNumber(sn) }

func (s *session) UpdateSerialNumber(sn *models.SerialNumber) {
	s.pending.UpdateSerialNumber(sn)
}

func (s *session) Commit(context.Context) error {
	if s.closed {
		return repositories.ErrSessionClosed
	}
	ops := s.pending.Drain()
	if len(ops) == 0 {
		return nil
	}
	if err := persistence.Validate(ops); err != nil {
		return err
	}
	return s.store.commit(ops)
}

func (s *session) Close() error {
	s.pending.Reset()
	s.closed = true
	return nil
}

func toItem(r itemRecord) *models.Item {
	return &models.Item{ID: r.id, Name: r.name, Price: r.price, CategoryID: r.categoryID, Version: r.version}
}

func toSerial(r serialRecord) *models.SerialNumber {
	return &models.SerialNumber{ID: r.id, Name: r.name, ItemID: r.itemID, Version: r.version}
}
