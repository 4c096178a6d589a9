package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del inventario. Quantity es una proyección
// materializada del libro de transacciones: todo cambio de stock pasa por un
// asiento y ambos se escriben en la misma transacción de BD.
type Item struct {
	ID            string
	Name          string
	Description   string
	CategoryID    string // referencia opaca; la integridad no se valida aquí
	Quantity      int64  // cache derivado del libro, nunca negativo
	Price         decimal.Decimal
	Unit          string
	Location      string
	SKU           string // vacío = sin SKU; único cuando existe
	Threshold     int64  // umbral de stock bajo
	Image         string
	CreatedBy     string
	LastUpdatedBy string
	CreatedAt     time.Time
	LastUpdated   time.Time
}

// IsLowStock indica si el ítem está en o por debajo de su umbral.
// Con Threshold = 0 solo se marca cuando la cantidad llegó a 0.
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.Threshold
}
