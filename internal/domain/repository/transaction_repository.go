package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia del libro de movimientos.
// Append-only: no hay Update; el borrado existe solo como cascada por ítem.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	// ListByItem devuelve los asientos de un ítem, más recientes primero.
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.Transaction, error)
	// DeleteByItem borra todos los asientos de un ítem (cascada al eliminarlo).
	DeleteByItem(ctx context.Context, itemID string) (int64, error)
}
