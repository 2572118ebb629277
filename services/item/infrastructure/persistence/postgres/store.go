// Package postgres implements the item Store on PostgreSQL using the
// sqlc-generated queries in ./db.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ghuser/catalog/pkg/database"
	"github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/logger"
	itemdomain "github.com/ghuser/catalog/services/item/domain"
	"github.com/ghuser/catalog/services/item/domain/models"
	"github.com/ghuser/catalog/services/item/domain/repositories"
	"github.com/ghuser/catalog/services/item/infrastructure/persistence"
	"github.com/ghuser/catalog/services/item/infrastructure/persistence/postgres/db"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var tracer = otel.Tracer("catalog/store/postgres")

// Store implements repositories.Store against PostgreSQL.
type Store struct {
	db  *database.Database
	bus *events.EventBus
	log logger.Logger
	now func() time.Time
}

var _ repositories.Store = (*Store)(nil)

// NewStore returns a Store on the given pool. When bus is non-nil every
// commit also writes item events to the outbox in the same transaction.
func NewStore(database *database.Database, bus *events.EventBus, log logger.Logger) *Store {
	return &Store{db: database, bus: bus, log: log, now: time.Now}
}

// Session opens a unit of work. Sessions hold no connection between calls.
func (s *Store) Session(context.Context) (repositories.Session, error) {
	return &session{store: s, q: db.New(s.db.DB())}, nil
}

type session struct {
	store   *Store
	q       *db.Queries
	pending persistence.ChangeSet
	closed  bool
}

func (s *session) AddItem(item *models.Item)              { s.pending.AddItem(item) }
func (s *session) UpdateItem(item *models.Item)           { s.pending.UpdateItem(item) }
func (s *session) RemoveItem(item *models.Item)           { s.pending.RemoveItem(item) }
func (s *session) AddSerialNumber(sn *models.SerialNumber) { s.pending.AddSerialNumber(sn) }

func (s *session) UpdateSerialNumber(sn *models.SerialNumber) {
	s.pending.UpdateSerialNumber(sn)
}

func (s *session) Close() error {
	s.pending.Reset()
	s.closed = true
	return nil
}

// Commit applies the queued writes in one transaction, then hands out the
// generated IDs and bumped versions.
func (s *session) Commit(ctx context.Context) (err error) {
	if s.closed {
		return repositories.ErrSessionClosed
	}
	ops := s.pending.Drain()
	if len(ops) == 0 {
		return nil
	}

	ctx, span := tracer.Start(ctx, "postgres.Session.Commit")
	span.SetAttributes(attribute.Int("store.ops", len(ops)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := persistence.Validate(ops); err != nil {
		return err
	}

	var results []applied
	err = s.store.db.WithTx(ctx, func(tx *sql.Tx) error {
		var applyErr error
		results, applyErr = applyOps(ctx, s.q.WithTx(tx), ops)
		if applyErr != nil {
			return applyErr
		}
		if s.store.bus == nil {
			return nil
		}
		return publishChanges(ctx, s.store.bus, tx, results, s.store.now())
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		r.assign()
	}
	return nil
}

// applied records the outcome of one op so the model is only touched after
// the transaction commits.
type applied struct {
	op      persistence.Op
	id      int64
	version int32
}

func (a applied) assign() {
	switch a.op.Kind {
	case persistence.OpAddItem, persistence.OpUpdateItem:
		a.op.Item.ID = a.id
		a.op.Item.Version = a.version
	case persistence.OpAddSerialNumber, persistence.OpUpdateSerialNumber:
		a.op.SerialNumber.ID = a.id
		a.op.SerialNumber.Version = a.version
	}
}

func applyOps(ctx context.Context, q *db.Queries, ops []persistence.Op) ([]applied, error) {
	out := make([]applied, 0, len(ops))
	for _, op := range ops {
		r := applied{op: op}
		switch op.Kind {
		case persistence.OpAddItem:
			row, err := q.InsertItem(ctx, db.InsertItemParams{
				Name:       op.Item.Name,
				Price:      op.Item.Price,
				CategoryID: op.Item.CategoryID,
			})
			if err != nil {
				return nil, mapWriteError("insert item", err)
			}
			r.id, r.version = row.ID, row.Version

		case persistence.OpUpdateItem:
			n, err := q.UpdateItem(ctx, db.UpdateItemParams{
				ID:         op.Item.ID,
				Name:       op.Item.Name,
				Price:      op.Item.Price,
				CategoryID: op.Item.CategoryID,
				Version:    op.Item.Version,
			})
			if err != nil {
				return nil, mapWriteError("update item", err)
			}
			if n == 0 {
				return nil, fmt.Errorf("update item %d: %w", op.Item.ID, itemdomain.ErrConcurrencyConflict)
			}
			r.id, r.version = op.Item.ID, op.Item.Version+1

		case persistence.OpRemoveItem:
			n, err := q.DeleteItem(ctx, db.DeleteItemParams{ID: op.Item.ID, Version: op.Item.Version})
			if err != nil {
				return nil, mapWriteError("delete item", err)
			}
			if n == 0 {
				return nil, fmt.Errorf("delete item %d: %w", op.Item.ID, itemdomain.ErrConcurrencyConflict)
			}

		case persistence.OpAddSerialNumber:
			row, err := q.InsertSerialNumber(ctx, db.InsertSerialNumberParams{
				Name:   op.SerialNumber.Name,
				ItemID: op.SerialNumber.ItemID,
			})
			if err != nil {
				return nil, mapWriteError("insert serial number", err)
			}
			r.id, r.version = row.ID, row.Version

		case persistence.OpUpdateSerialNumber:
			n, err := q.UpdateSerialNumber(ctx, db.UpdateSerialNumberParams{
				ID:      op.SerialNumber.ID,
				Name:    op.SerialNumber.Name,
				Version: op.SerialNumber.Version,
			})
			if err != nil {
				return nil, mapWriteError("update serial number", err)
			}
			if n == 0 {
				return nil, fmt.Errorf("update serial number %d: %w", op.SerialNumber.ID, itemdomain.ErrConcurrencyConflict)
			}
			r.id, r.version = op.SerialNumber.ID, op.SerialNumber.Version+1
		}
		out = append(out, r)
	}
	return out, nil
}

// mapWriteError turns constraint violations into domain errors. A duplicate
// serial number or a vanished parent row means another writer got there
// first; a missing category on an item write is reported as such.
func mapWriteError(what string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", what, err)
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%s: %w", what, itemdomain.ErrConcurrencyConflict)
	case pgForeignKeyViolation:
		if pgErr.ConstraintName == "items_category_id_fkey" {
			return fmt.Errorf("%s: %w", what, itemdomain.ErrCategoryNotFound)
		}
		return fmt.Errorf("%s: %w", what, itemdomain.ErrConcurrencyConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}
