package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem. Quantity > 0 genera el asiento
// semilla del libro dentro de la misma transacción que crea el ítem.
type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	Quantity    int64           `json:"quantity" validate:"min=0"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	Location    string          `json:"location"`
	SKU         string          `json:"sku"`
	Threshold   int64           `json:"threshold" validate:"min=0"`
	Image       string          `json:"image"`
}

// UpdateItemRequest entrada parcial: nil = sin cambio. El string vacío SÍ aplica
// para description y location; para el resto de campos de texto se ignora.
type UpdateItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"category_id"`
	Quantity    *int64           `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	Unit        *string          `json:"unit"`
	Location    *string          `json:"location"`
	SKU         *string          `json:"sku"`
	Threshold   *int64           `json:"threshold"`
	Image       *string          `json:"image"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Unit          string          `json:"unit"`
	Location      string          `json:"location"`
	SKU           string          `json:"sku"`
	Threshold     int64           `json:"threshold"`
	Image         string          `json:"image"`
	LowStock      bool            `json:"low_stock"`
	CreatedBy     string          `json:"created_by"`
	LastUpdatedBy string          `json:"last_updated_by"`
	CreatedAt     time.Time       `json:"created_at"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items  []ItemResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ListItemsRequest query params de GET /api/items.
type ListItemsRequest struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	LowStock bool   `query:"lowStock"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}
