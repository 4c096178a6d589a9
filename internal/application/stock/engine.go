package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Notas fijas para asientos sintetizados por el motor.
const (
	NoteInitialInventory   = "Inventario inicial"
	NoteQuantityAdjustment = "Ajuste de cantidad"
)

// Engine es el motor de stock: todo cambio de cantidad pasa por aquí y se
// ejecuta bajo el lock de fila del ítem (SELECT FOR UPDATE) dentro de una
// transacción, escribiendo primero el asiento del libro y después la cantidad
// cacheada. Dos operaciones concurrentes sobre el mismo ítem se serializan;
// ítems distintos no contienden entre sí.
type Engine struct {
	txRunner TxRunner
	items    repository.ItemRepository        // lecturas fuera de transacción
	ledger   repository.TransactionRepository // lecturas de historial (snapshot)
}

// NewEngine construye el motor.
func NewEngine(txRunner TxRunner, items repository.ItemRepository, ledger repository.TransactionRepository) *Engine {
	return &Engine{txRunner: txRunner, items: items, ledger: ledger}
}

// RecordTransaction registra un movimiento explícito (in/out) sobre un ítem.
// Para salidas verifica suficiencia contra la cantidad cacheada bajo lock;
// nunca deja la cantidad negativa ni un asiento sin su actualización de cache.
func (e *Engine) RecordTransaction(ctx context.Context, itemID, txType string, quantity int64, notes, reference, actor string) (*entity.Transaction, error) {
	if !entity.IsValidTransactionType(txType) {
		return nil, domain.ErrInvalidInput
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var created *entity.Transaction
	err := e.txRunner.Run(ctx, func(items repository.ItemRepository, ledger repository.TransactionRepository) error {
		item, err := items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if txType == entity.TransactionTypeOut && item.Quantity < quantity {
			return domain.ErrInsufficientStock
		}
		now := time.Now()
		txn := &entity.Transaction{
			ID:          uuid.New().String(),
			ItemID:      item.ID,
			Type:        txType,
			Quantity:    quantity,
			Date:        now,
			Notes:       notes,
			Reference:   reference,
			PerformedBy: actor,
		}
		// Asiento primero, cache después: un crash entre ambos deja el libro
		// como fuente para el replay del job de auditoría, nunca al revés.
		if err := ledger.Create(ctx, txn); err != nil {
			return err
		}
		newQty := item.Quantity + entity.TransactionSign(txType)*quantity
		if err := items.UpdateStock(ctx, item.ID, newQty, actor, now); err != nil {
			return err
		}
		created = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SetQuantity fija la cantidad absoluta de un ítem (override autoritativo de
// una edición). Sintetiza un asiento in/out por la diferencia; con diferencia
// cero no se registra nada. El override es un mecanismo de corrección, no un
// movimiento de stock: omite la verificación de suficiencia, pero rechaza
// objetivos negativos.
func (e *Engine) SetQuantity(ctx context.Context, itemID string, newQuantity int64, actor, notes string) (*entity.Transaction, error) {
	if newQuantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if notes == "" {
		notes = NoteQuantityAdjustment
	}

	var created *entity.Transaction
	err := e.txRunner.Run(ctx, func(items repository.ItemRepository, ledger repository.TransactionRepository) error {
		item, err := items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		difference := newQuantity - item.Quantity
		if difference == 0 {
			return nil
		}
		txType := entity.TransactionTypeIn
		if difference < 0 {
			txType = entity.TransactionTypeOut
			difference = -difference
		}
		now := time.Now()
		txn := &entity.Transaction{
			ID:          uuid.New().String(),
			ItemID:      item.ID,
			Type:        txType,
			Quantity:    difference,
			Date:        now,
			Notes:       notes,
			PerformedBy: actor,
		}
		if err := ledger.Create(ctx, txn); err != nil {
			return err
		}
		if err := items.UpdateStock(ctx, item.ID, newQuantity, actor, now); err != nil {
			return err
		}
		created = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateWithInitialStock crea el ítem y, si trae cantidad inicial, el asiento
// semilla del libro, todo en UNA transacción: no existe ventana en la que el
// ítem tenga cantidad sin asiento que la explique.
func (e *Engine) CreateWithInitialStock(ctx context.Context, item *entity.Item, actor string) (*entity.Transaction, error) {
	if item.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var seed *entity.Transaction
	err := e.txRunner.Run(ctx, func(items repository.ItemRepository, ledger repository.TransactionRepository) error {
		if err := items.Create(ctx, item); err != nil {
			return err
		}
		if item.Quantity == 0 {
			return nil
		}
		txn := &entity.Transaction{
			ID:          uuid.New().String(),
			ItemID:      item.ID,
			Type:        entity.TransactionTypeIn,
			Quantity:    item.Quantity,
			Date:        item.CreatedAt,
			Notes:       NoteInitialInventory,
			PerformedBy: actor,
		}
		if err := ledger.Create(ctx, txn); err != nil {
			return err
		}
		seed = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seed, nil
}

// DeleteItem elimina el ítem y todos sus asientos en una sola transacción.
// El libro no tiene ciclo de vida propio más allá de su ítem dueño.
func (e *Engine) DeleteItem(ctx context.Context, itemID string) error {
	return e.txRunner.Run(ctx, func(items repository.ItemRepository, ledger repository.TransactionRepository) error {
		item, err := items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if _, err := ledger.DeleteByItem(ctx, itemID); err != nil {
			return err
		}
		return items.Delete(ctx, itemID)
	})
}

// History devuelve los asientos de un ítem, más recientes primero. Lectura
// snapshot sin lock; puede ir una escritura por detrás de la última confirmada.
func (e *Engine) History(ctx context.Context, itemID string, limit, offset int) ([]*entity.Transaction, error) {
	return e.ledger.ListByItem(ctx, itemID, limit, offset)
}

// CurrentQuantity lee la cantidad cacheada (O(1)). La conciliación contra la
// suma del libro es trabajo del job de auditoría, no del camino caliente.
func (e *Engine) CurrentQuantity(ctx context.Context, itemID string) (int64, error) {
	item, err := e.items.GetByID(ctx, itemID)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, domain.ErrNotFound
	}
	return item.Quantity, nil
}
