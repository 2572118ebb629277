package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	itemdomain "github.com/ghuser/catalog/services/item/domain"
	"github.com/ghuser/catalog/services/item/domain/models"
	"github.com/ghuser/catalog/services/item/domain/repositories"
)

func newSeeded(t *testing.T) (*Store, repositories.Session, []models.Category) {
	t.Helper()
	store := NewStore()
	cats := store.SeedCategories("Tools", "Electronics")
	sess, err := store.Session(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	return store, sess, cats
}

func addItem(t *testing.T, sess repositories.Session, name string, categoryID int64) *models.Item {
	t.Helper()
	item := models.NewItem(name, decimal.RequireFromString("9.99"), categoryID)
	sess.AddItem(item)
	require.NoError(t, sess.Commit(context.Background()))
	return item
}

func TestCommit_AssignsIDsOnlyAfterSuccess(t *testing.T) {
	_, sess, cats := newSeeded(t)
	ctx := context.Background()

	item := models.NewItem("Drill", decimal.NewFromInt(50), cats[0].ID)
	sess.AddItem(item)
	require.Zero(t, item.ID)
	require.NoError(t, sess.Commit(ctx))
	require.Equal(t, int64(1), item.ID)
	require.Equal(t, int32(1), item.Version)

	orphan := models.NewItem("Ghost", decimal.NewFromInt(1), 999)
	sess.AddItem(orphan)
	require.ErrorIs(t, sess.Commit(ctx), itemdomain.ErrCategoryNotFound)
	require.Zero(t, orphan.ID)
}

func TestCommit_IsAtomic(t *testing.T) {
	_, sess, cats := newSeeded(t)
	ctx := context.Background()

	first := addItem(t, sess, "Hammer", cats[0].ID)
	stale := *first
	first.Name = "Claw Hammer"
	sess.UpdateItem(first)
	require.NoError(t, sess.Commit(ctx))

	fresh := models.NewItem("Saw", decimal.NewFromInt(20), cats[0].ID)
	sess.AddItem(fresh)
	stale.Name = "Mallet"
	sess.UpdateItem(&stale)
	require.ErrorIs(t, sess.Commit(ctx), itemdomain.ErrConcurrencyConflict)

	items, err := sess.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Claw Hammer", items[0].Name)
	require.Zero(t, fresh.ID)
}

func TestUpdate_VersionConflict(t *testing.T) {
	store, sess, cats := newSeeded(t)
	ctx := context.Background()
	item := addItem(t, sess, "Lamp", cats[1].ID)

	a, _ := store.Session(ctx)
	b, _ := store.Session(ctx)
	itemA, err := a.GetItem(ctx, item.ID, repositories.LoadOpts{})
	require.NoError(t, err)
	itemB, err := b.GetItem(ctx, item.ID, repositories.LoadOpts{})
	require.NoError(t, err)

	itemA.Name = "Desk Lamp"
	a.UpdateItem(itemA)
	require.NoError(t, a.Commit(ctx))
	require.Equal(t, int32(2), itemA.Version)

	itemB.Name = "Floor Lamp"
	b.UpdateItem(itemB)
	require.ErrorIs(t, b.Commit(ctx), itemdomain.ErrConcurrencyConflict)
}

func TestRemoveItem_CascadesAndConflictsTwice(t *testing.T) {
	store, sess, cats := newSeeded(t)
	ctx := context.Background()
	item := addItem(t, sess, "Radio", cats[1].ID)
	sess.AddSerialNumber(models.NewSerialNumber("RAD-1", item.ID))
	require.NoError(t, sess.Commit(ctx))
	clientID := store.SeedClient("Acme")
	require.NoError(t, store.LinkClient(item.ID, clientID))

	sess.RemoveItem(item)
	require.NoError(t, sess.Commit(ctx))

	got, err := sess.GetItem(ctx, item.ID, repositories.LoadOpts{SerialNumber: true})
	require.NoError(t, err)
	require.Nil(t, got)
	require.Empty(t, store.snapshot().serials)
	require.Empty(t, store.snapshot().links)

	sess.RemoveItem(item)
	require.ErrorIs(t, sess.Commit(ctx), itemdomain.ErrConcurrencyConflict)
}

func TestSerialNumber_OnePerItem(t *testing.T) {
	_, sess, cats := newSeeded(t)
	ctx := context.Background()
	item := addItem(t, sess, "Phone", cats[1].ID)

	sn := models.NewSerialNumber("PH-1", item.ID)
	sess.AddSerialNumber(sn)
	require.NoError(t, sess.Commit(ctx))
	require.NotZero(t, sn.ID)

	sess.AddSerialNumber(models.NewSerialNumber("PH-2", item.ID))
	require.ErrorIs(t, sess.Commit(ctx), itemdomain.ErrConcurrencyConflict)

	sn.Name = ""
	sess.UpdateSerialNumber(sn)
	require.NoError(t, sess.Commit(ctx))

	got, err := sess.GetItem(ctx, item.ID, repositories.LoadOpts{SerialNumber: true})
	require.NoError(t, err)
	require.NotNil(t, got.SerialNumber)
	require.Equal(t, "", got.SerialNumber.Name)
	require.Equal(t, int32(2), got.SerialNumber.Version)
}

func TestGetItem_SerialOnlyWhenRequested(t *testing.T) {
	_, sess, cats := newSeeded(t)
	ctx := context.Background()
	item := addItem(t, sess, "Tablet", cats[1].ID)
	sess.AddSerialNumber(models.NewSerialNumber("TB-1", item.ID))
	require.NoError(t, sess.Commit(ctx))

	plain, err := sess.GetItem(ctx, item.ID, repositories.LoadOpts{})
	require.NoError(t, err)
	require.Nil(t, plain.SerialNumber)

	missing, err := sess.GetItem(ctx, 12345, repositories.LoadOpts{SerialNumber: true})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestListItems_ExpandsRelations(t *testing.T) {
	store, sess, cats := newSeeded(t)
	ctx := context.Background()
	a := addItem(t, sess, "A", cats[0].ID)
	addItem(t, sess, "B", cats[1].ID)
	sess.AddSerialNumber(models.NewSerialNumber("SN-A", a.ID))
	require.NoError(t, sess.Commit(ctx))
	require.NoError(t, store.LinkClient(a.ID, store.SeedClient("Zeta")))
	require.NoError(t, store.LinkClient(a.ID, store.SeedClient("Alpha")))

	items, err := sess.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "A", items[0].Name)
	require.Equal(t, "Tools", items[0].Category.Name)
	require.Equal(t, "SN-A", items[0].SerialNumberName())
	require.Len(t, items[0].Clients, 2)
	require.Equal(t, "Alpha", items[0].Clients[0].Client.Name)
	require.Nil(t, items[1].SerialNumber)
}

func TestListCategories_SortedByName(t *testing.T) {
	_, sess, _ := newSeeded(t)
	cats, err := sess.ListCategories(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Electronics", cats[0].Name)
	require.Equal(t, "Tools", cats[1].Name)

	ok, err := sess.CategoryExists(context.Background(), cats[0].ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestClose_DiscardsPending(t *testing.T) {
	store, sess, cats := newSeeded(t)
	ctx := context.Background()
	sess.AddItem(models.NewItem("Unsaved", decimal.NewFromInt(1), cats[0].ID))
	require.NoError(t, sess.Close())
	require.ErrorIs(t, sess.Commit(ctx), repositories.ErrSessionClosed)
	require.Empty(t, store.snapshot().items)
}

func TestConcurrentCommits(t *testing.T) {
	store, sess, cats := newSeeded(t)
	ctx := context.Background()
	item := addItem(t, sess, "Shared", cats[0].ID)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, _ := store.Session(ctx)
			defer s.Close() //nolint:errcheck
			copyOf := *item
			copyOf.Name = "edited"
			s.UpdateItem(&copyOf)
			if s.Commit(ctx) == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, succeeded)
}
