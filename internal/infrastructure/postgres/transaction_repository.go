package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Append-only: solo INSERT, listado y cascada por ítem.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste un asiento del libro.
func (r *TransactionRepo) Create(ctx context.Context, txn *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, item_id, type, quantity, date, notes, reference, performed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		txn.ID, txn.ItemID, txn.Type, txn.Quantity, txn.Date,
		nullIfEmpty(txn.Notes), nullIfEmpty(txn.Reference), txn.PerformedBy,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByItem lista asientos de un ítem, más recientes primero. El id como
// segunda clave hace el orden total aun con fechas idénticas.
func (r *TransactionRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.Transaction, error) {
	query := `
		SELECT id, item_id, type, quantity, date, notes, reference, performed_by
		FROM transactions WHERE item_id = $1
		ORDER BY date DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		var notes, reference *string
		if err := rows.Scan(&t.ID, &t.ItemID, &t.Type, &t.Quantity, &t.Date, &notes, &reference, &t.PerformedBy); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if notes != nil {
			t.Notes = *notes
		}
		if reference != nil {
			t.Reference = *reference
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// DeleteByItem borra todos los asientos de un ítem (cascada al eliminarlo).
func (r *TransactionRepo) DeleteByItem(ctx context.Context, itemID string) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE item_id = $1`, itemID)
	if err != nil {
		return 0, fmt.Errorf("delete transactions by item: %w", err)
	}
	return cmd.RowsAffected(), nil
}
