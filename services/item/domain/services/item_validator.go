// Package services contains stateless domain services for the item bounded context.
// They operate purely on domain types and depend on nothing beyond stdlib and
// the domain layer.
package services

import (
	"errors"
	"strings"

	"github.com/ghuser/catalog/services/item/domain/models"
)

// ValidateItemForSave checks the invariants an Item must satisfy before any
// store may persist it: a non-blank Name and a CategoryID. Price is always
// numeric once it is a decimal.Decimal.
func ValidateItemForSave(item *models.Item) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}

	var errs []error
	if strings.TrimSpace(item.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if item.CategoryID <= 0 {
		errs = append(errs, errors.New("category_id is required"))
	}
	return errors.Join(errs...)
}

// ValidateSerialNumberForSave checks that a serial number is linked to an item.
// An empty Name is allowed: editing may blank an existing serial number.
func ValidateSerialNumberForSave(sn *models.SerialNumber) error {
	if sn == nil {
		return errors.New("serial number cannot be nil")
	}
	if sn.ItemID <= 0 {
		return errors.New("serial number item_id must be set")
	}
	return nil
}
