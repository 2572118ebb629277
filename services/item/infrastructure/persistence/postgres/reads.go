package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ghuser/catalog/services/item/domain/models"
	"github.com/ghuser/catalog/services/item/domain/repositories"
	"github.com/ghuser/catalog/services/item/infrastructure/persistence/postgres/db"
)

func (s *session) ListItems(ctx context.Context) ([]*models.Item, error) {
	if s.closed {
		return nil, repositories.ErrSessionClosed
	}
	rows, err := s.q.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	links, err := s.q.ListItemClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list item clients: %w", err)
	}

	clients := make(map[int64][]models.ItemClient)
	for _, l := range links {
		clients[l.ItemID] = append(clients[l.ItemID], models.ItemClient{
			ItemID:   l.ItemID,
			ClientID: l.ClientID,
			Client:   &models.Client{ID: l.ClientID, Name: l.ClientName},
		})
	}

	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		item := &models.Item{
			ID:         row.ID,
			Name:       row.Name,
			Price:      row.Price,
			CategoryID: row.CategoryID,
			Version:    row.Version,
			Category:   &models.Category{ID: row.CategoryID, Name: row.CategoryName},
			Clients:    clients[row.ID],
		}
		if row.SerialNumberID.Valid {
			item.SerialNumber = &models.SerialNumber{
				ID:      row.SerialNumberID.Int64,
				Name:    row.SerialNumberName.String,
				ItemID:  row.ID,
				Version: row.SerialNumberVersion.Int32,
			}
		}
		items[i] = item
	}
	return items, nil
}

func (s *session) ListCategories(ctx context.Context) ([]*models.Category, error) {
	if s.closed {
		return nil, repositories.ErrSessionClosed
	}
	rows, err := s.q.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]*models.Category, len(rows))
	for i, row := range rows {
		out[i] = &models.Category{ID: row.ID, Name: row.Name}
	}
	return out, nil
}

func (s *session) CategoryExists(ctx context.Context, id int64) (bool, error) {
	if s.closed {
		return false, repositories.ErrSessionClosed
	}
	ok, err := s.q.CategoryExists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check category exists: %w", err)
	}
	return ok, nil
}

func (s *session) GetItem(ctx context.Context, id int64, opts repositories.LoadOpts) (*models.Item, error) {
	if s.closed {
		return nil, repositories.ErrSessionClosed
	}
	row, err := s.q.GetItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	item := rowToItem(row)

	if opts.SerialNumber {
		sn, err := s.q.GetSerialNumberByItemID(ctx, id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return nil, fmt.Errorf("get serial number for item %d: %w", id, err)
		default:
			item.SerialNumber = &models.SerialNumber{ID: sn.ID, Name: sn.Name, ItemID: sn.ItemID, Version: sn.Version}
		}
	}
	return item, nil
}

func (s *session) Exists(ctx context.Context, id int64) (bool, error) {
	if s.closed {
		return false, repositories.ErrSessionClosed
	}
	ok, err := s.q.ItemExists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check item exists: %w", err)
	}
	return ok, nil
}

func rowToItem(row db.CatalogItem) *models.Item {
	return &models.Item{
		ID:         row.ID,
		Name:       row.Name,
		Price:      row.Price,
		CategoryID: row.CategoryID,
		Version:    row.Version,
	}
}
