package models

// SerialNumber is the optional one-to-one attribute record of an Item.
// ItemID owns the back-reference; at most one exists per item.
type SerialNumber struct {
	ID      int64
	Name    string
	ItemID  int64
	Version int32
}

// NewSerialNumber returns an unsaved SerialNumber linked to itemID.
func NewSerialNumber(name string, itemID int64) *SerialNumber {
	return &SerialNumber{Name: name, ItemID: itemID}
}
