package models

import (
	"github.com/shopspring/decimal"
)

// Item is the catalog record managed by this bounded context. It is the
// root of the edit transaction and owns its SerialNumber.
type Item struct {
	ID         int64
	Name       string
	Price      decimal.Decimal
	CategoryID int64
	// Version is the optimistic concurrency token; stores bump it on every
	// successful write.
	Version int32

	SerialNumber *SerialNumber // nil when the item has none
	Category     *Category     // loaded on list only
	Clients      []ItemClient  // loaded on list only
}

// NewItem returns an unsaved Item. The store assigns ID on commit.
func NewItem(name string, price decimal.Decimal, categoryID int64) *Item {
	return &Item{
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
	}
}

// Apply overwrites the editable fields in place.
func (i *Item) Apply(name string, price decimal.Decimal, categoryID int64) {
	i.Name = name
	i.Price = price
	i.CategoryID = categoryID
}

// SerialNumberName returns the serial number's name, or "" when there is none.
func (i *Item) SerialNumberName() string {
	if i.SerialNumber == nil {
		return ""
	}
	return i.SerialNumber.Name
}
