package persistence

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/catalog/services/item/domain/models"
)

func TestChangeSet_PreservesOrder(t *testing.T) {
	var cs ChangeSet
	item := models.NewItem("Widget", decimal.NewFromInt(1), 1)
	sn := models.NewSerialNumber("SN", 1)

	cs.AddItem(item)
	cs.UpdateSerialNumber(sn)
	cs.RemoveItem(item)
	require.Equal(t, 3, cs.Len())

	ops := cs.Drain()
	require.Equal(t, 0, cs.Len())
	require.Equal(t, []OpKind{OpAddItem, OpUpdateSerialNumber, OpRemoveItem},
		[]OpKind{ops[0].Kind, ops[1].Kind, ops[2].Kind})
	require.Same(t, sn, ops[1].SerialNumber)
}

func TestValidate(t *testing.T) {
	good := models.NewItem("Widget", decimal.NewFromInt(1), 1)
	good.ID = 5

	tests := []struct {
		name    string
		ops     []Op
		wantErr string
	}{
		{"empty", nil, ""},
		{"valid add", []Op{{Kind: OpAddItem, Item: good}}, ""},
		{"blank name", []Op{{Kind: OpUpdateItem, Item: models.NewItem("  ", decimal.Zero, 1)}}, "update item (op 0): name is required"},
		{"remove without id", []Op{{Kind: OpRemoveItem, Item: models.NewItem("x", decimal.Zero, 1)}}, "remove item (op 0)"},
		{"orphan serial", []Op{{Kind: OpAddItem, Item: good}, {Kind: OpAddSerialNumber, SerialNumber: models.NewSerialNumber("SN", 0)}}, "add serial number (op 1)"},
		{"blank serial allowed", []Op{{Kind: OpUpdateSerialNumber, SerialNumber: models.NewSerialNumber("", 5)}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.ops)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
