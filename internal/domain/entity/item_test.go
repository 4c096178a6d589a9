package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Casos frontera del umbral de stock bajo. Con umbral 0 la alerta solo se
// dispara cuando el ítem quedó exactamente en 0.
func TestItem_IsLowStock_Fronteras(t *testing.T) {
	cases := []struct {
		name      string
		quantity  int64
		threshold int64
		want      bool
	}{
		{"igual al umbral", 5, 5, true},
		{"por debajo del umbral", 4, 5, true},
		{"por encima del umbral", 6, 5, false},
		{"umbral cero y cantidad cero", 0, 0, true},
		{"umbral cero y cantidad uno", 1, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := &entity.Item{Quantity: tc.quantity, Threshold: tc.threshold}
			assert.Equal(t, tc.want, item.IsLowStock())
		})
	}
}

func TestTransaction_SignedQuantity(t *testing.T) {
	in := &entity.Transaction{Type: entity.TransactionTypeIn, Quantity: 7}
	out := &entity.Transaction{Type: entity.TransactionTypeOut, Quantity: 7}

	assert.Equal(t, int64(7), in.SignedQuantity())
	assert.Equal(t, int64(-7), out.SignedQuantity())
}
