package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ghuser/catalog/services/item/domain/models"
)

func TestValidateItemForSave(t *testing.T) {
	price := decimal.RequireFromString("1.00")

	tests := []struct {
		name    string
		item    *models.Item
		wantErr bool
	}{
		{"nil item", nil, true},
		{"valid item", models.NewItem("Widget", price, 1), false},
		{"empty name", models.NewItem("", price, 1), true},
		{"whitespace name", models.NewItem("   ", price, 1), true},
		{"missing category", models.NewItem("Widget", price, 0), true},
		{"negative category", models.NewItem("Widget", price, -3), true},
		{"zero price is valid", models.NewItem("Freebie", decimal.Zero, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItemForSave(tt.item)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateItemForSave() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateItemForSave_ReportsEveryViolation(t *testing.T) {
	err := ValidateItemForSave(models.NewItem("", decimal.Zero, 0))
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"name is required", "category_id is required"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestValidateSerialNumberForSave(t *testing.T) {
	if err := ValidateSerialNumberForSave(nil); err == nil {
		t.Fatal("expected error for nil serial number")
	}
	if err := ValidateSerialNumberForSave(models.NewSerialNumber("SN-1", 0)); err == nil {
		t.Fatal("expected error for unlinked serial number")
	}
	if err := ValidateSerialNumberForSave(models.NewSerialNumber("", 4)); err != nil {
		t.Fatalf("empty name must be allowed, got %v", err)
	}
}
