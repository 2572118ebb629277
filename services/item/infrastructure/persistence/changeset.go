// Package persistence holds pieces shared by the item store drivers.
package persistence

import (
	"fmt"

	"github.com/ghuser/catalog/services/item/domain/models"
	"github.com/ghuser/catalog/services/item/domain/services"
)

// OpKind identifies a queued write.
type OpKind int

const (
	OpAddItem OpKind = iota + 1
	OpUpdateItem
	OpRemoveItem
	OpAddSerialNumber
	OpUpdateSerialNumber
)

func (k OpKind) String() string {
	switch k {
	case OpAddItem:
		return "add item"
	case OpUpdateItem:
		return "update item"
	case OpRemoveItem:
		return "remove item"
	case OpAddSerialNumber:
		return "add serial number"
	case OpUpdateSerialNumber:
		return "update serial number"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// Op is one queued write. Exactly one of Item and SerialNumber is set.
type Op struct {
	Kind         OpKind
	Item         *models.Item
	SerialNumber *models.SerialNumber
}

// ChangeSet is the ordered write queue behind a Session. It is not safe for
// concurrent use.
type ChangeSet struct {
	ops []Op
}

func (c *ChangeSet) AddItem(item *models.Item)    { c.push(Op{Kind: OpAddItem, Item: item}) }
func (c *ChangeSet) UpdateItem(item *models.Item) { c.push(Op{Kind: OpUpdateItem, Item: item}) }
func (c *ChangeSet) RemoveItem(item *models.Item) { c.push(Op{Kind: OpRemoveItem, Item: item}) }

func (c *ChangeSet) AddSerialNumber(sn *models.SerialNumber) {
	c.push(Op{Kind: OpAddSerialNumber, SerialNumber: sn})
}

func (c *ChangeSet) UpdateSerialNumber(sn *models.SerialNumber) {
	c.push(Op{Kind: OpUpdateSerialNumber, SerialNumber: sn})
}

func (c *ChangeSet) push(op Op) {
	c.ops = append(c.ops, op)
}

// Len reports the number of queued writes.
func (c *ChangeSet) Len() int { return len(c.ops) }

// Drain returns the queued writes and empties the set.
func (c *ChangeSet) Drain() []Op {
	ops := c.ops
	c.ops = nil
	return ops
}

// Reset drops every queued write.
func (c *ChangeSet) Reset() { c.ops = nil }

// Validate checks every queued record against the domain save rules. Removals
// only need an identity.
func Validate(ops []Op) error {
	for i, op := range ops {
		var err error
		switch op.Kind {
		case OpAddItem, OpUpdateItem:
			err = services.ValidateItemForSave(op.Item)
		case OpRemoveItem:
			if op.Item == nil || op.Item.ID <= 0 {
				err = fmt.Errorf("item to remove has no id")
			}
		case OpAddSerialNumber, OpUpdateSerialNumber:
			err = services.ValidateSerialNumberForSave(op.SerialNumber)
		}
		if err != nil {
			return fmt.Errorf("%s (op %d): %w", op.Kind, i, err)
		}
	}
	return nil
}
