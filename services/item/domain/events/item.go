package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/catalog/services/item/domain/models"
)

// Watermill topics published by the item store inside the commit transaction.
const (
	TopicItemCreated = "item.created"
	TopicItemUpdated = "item.updated"
	TopicItemDeleted = "item.deleted"
)

// ItemChangedEvent carries the state of an item after a committed write.
// For TopicItemDeleted only EventID, Version, ItemID and OccurredAt are set.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemUpdated, ...).
type ItemChangedEvent struct {
	EventID          uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version          int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID           int64     `json:"item_id"`
	Name             string    `json:"name,omitempty"`
	Price            string    `json:"price,omitempty"`
	CategoryID       int64     `json:"category_id,omitempty"`
	SerialNumberName string    `json:"serial_number_name,omitempty"`
	RowVersion       int32     `json:"row_version"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Topics lists every item topic, in the order subscribers are registered.
func Topics() []string {
	return []string{TopicItemCreated, TopicItemUpdated, TopicItemDeleted}
}

// ID returns the deduplication key stamped into message metadata.
func (e ItemChangedEvent) ID() string { return e.EventID.String() }

// SchemaVersion returns the payload schema version.
func (e ItemChangedEvent) SchemaVersion() int { return e.Version }

// NewItemChanged builds a version 1 event stamped with a fresh ID.
func NewItemChanged(itemID int64, at time.Time) ItemChangedEvent {
	return ItemChangedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     itemID,
		OccurredAt: at.UTC(),
	}
}

// ItemSnapshot builds an event carrying the committed state of item.
func ItemSnapshot(item *models.Item, at time.Time) ItemChangedEvent {
	evt := NewItemChanged(item.ID, at)
	evt.Name = item.Name
	evt.Price = item.Price.String()
	evt.CategoryID = item.CategoryID
	evt.SerialNumberName = item.SerialNumberName()
	evt.RowVersion = item.Version
	return evt
}
