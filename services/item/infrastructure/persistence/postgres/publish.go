package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/ghuser/catalog/pkg/events"
	domainevents "github.com/ghuser/catalog/services/item/domain/events"
	"github.com/ghuser/catalog/services/item/infrastructure/persistence"
)

// publishChanges writes one event per touched item: item.created for
// inserts, item.deleted for removals and item.updated for anything else. An
// item inserted or removed in the same commit gets no update event.
func publishChanges(ctx context.Context, bus *events.EventBus, tx *sql.Tx, results []applied, at time.Time) error {
	var (
		created []events.Envelope
		updated []events.Envelope
		deleted []events.Envelope
		seen    = map[int64]bool{}
	)

	for _, r := range results {
		switch r.op.Kind {
		case persistence.OpAddItem:
			snapshot := *r.op.Item
			snapshot.ID, snapshot.Version = r.id, r.version
			created = append(created, domainevents.ItemSnapshot(&snapshot, at))
			seen[r.id] = true
		case persistence.OpRemoveItem:
			deleted = append(deleted, domainevents.NewItemChanged(r.op.Item.ID, at))
			seen[r.op.Item.ID] = true
		}
	}

	for _, r := range results {
		var itemID int64
		var evt domainevents.ItemChangedEvent
		switch r.op.Kind {
		case persistence.OpUpdateItem:
			itemID = r.id
			snapshot := *r.op.Item
			snapshot.Version = r.version
			evt = domainevents.ItemSnapshot(&snapshot, at)
		case persistence.OpAddSerialNumber, persistence.OpUpdateSerialNumber:
			itemID = r.op.SerialNumber.ItemID
			evt = domainevents.NewItemChanged(itemID, at)
		default:
			continue
		}
		if seen[itemID] {
			continue
		}
		seen[itemID] = true
		updated = append(updated, evt)
	}

	for topic, batch := range map[string][]events.Envelope{
		domainevents.TopicItemCreated: created,
		domainevents.TopicItemUpdated: updated,
		domainevents.TopicItemDeleted: deleted,
	} {
		if err := bus.PublishTx(ctx, tx, topic, batch...); err != nil {
			return err
		}
	}
	return nil
}
