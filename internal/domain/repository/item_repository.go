package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ItemFilter filtros de listado; se componen en conjunción.
type ItemFilter struct {
	CategoryID string // igualdad exacta
	Search     string // substring case-insensitive sobre el nombre
	LowStock   bool   // quantity <= threshold
	Limit      int
	Offset     int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE). Solo tiene
	// sentido dentro de una transacción; es el lock por ítem del motor de stock.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	// UpdateStock escribe la cantidad cacheada y el sello de última modificación.
	// Único mutador de Quantity además de Create.
	UpdateStock(ctx context.Context, itemID string, quantity int64, updatedBy string, updatedAt time.Time) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	Delete(ctx context.Context, id string) error
}
