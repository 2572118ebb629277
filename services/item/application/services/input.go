package services

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	pkgvalidator "github.com/ghuser/catalog/pkg/validator"
	itemdomain "github.com/ghuser/catalog/services/item/domain"
	"github.com/ghuser/catalog/services/item/domain/repositories"
)

// ItemInput is the editable part of an item as submitted by a client. Every
// field is kept as text so a rejected submission can be echoed back exactly.
type ItemInput struct {
	Name             string `json:"name"               validate:"notblank"        example:"Cordless drill"`
	Price            string `json:"price"              validate:"required,numeric" example:"129.90"`
	CategoryID       string `json:"category_id"        validate:"required,number"  example:"1"`
	SerialNumberName string `json:"serial_number_name" example:"CD-2024-0001"`
} // @name ItemInput

// itemFields is ItemInput after parsing.
type itemFields struct {
	name       string
	price      decimal.Decimal
	categoryID int64
	serial     string
}

// parseInput validates in and resolves the category. Every problem is
// reported at once as a *domain.ValidationError; other errors come from the
// store.
func parseInput(ctx context.Context, sess repositories.Session, in ItemInput) (itemFields, error) {
	fields := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&in))
	out := itemFields{name: in.Name, serial: in.SerialNumberName}

	if _, bad := fields["price"]; !bad {
		price, err := decimal.NewFromString(in.Price)
		if err != nil {
			fields["price"] = "Must be a numeric value"
		}
		out.price = price
	}

	if _, bad := fields["category_id"]; !bad {
		id, err := strconv.ParseInt(in.CategoryID, 10, 64)
		if err != nil {
			fields["category_id"] = "Must be a whole number"
		} else {
			ok, err := sess.CategoryExists(ctx, id)
			if err != nil {
				return itemFields{}, err
			}
			if !ok {
				fields["category_id"] = "Category does not exist"
			}
			out.categoryID = id
		}
	}

	if len(fields) > 0 {
		return itemFields{}, itemdomain.NewValidationError(fields)
	}
	return out, nil
}
