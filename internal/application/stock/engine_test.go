package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore emula la BD: un mutex global hace las veces de la serialización que
// en PostgreSQL aporta el SELECT FOR UPDATE sobre la fila del ítem. El TxRunner
// falso mantiene el lock durante todo el callback, igual que una transacción
// real mantiene el lock de fila hasta el commit.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu     sync.Mutex
	items  map[string]*entity.Item
	ledger []*entity.Transaction // orden de inserción; ListByItem invierte
}

func newMemStore() *memStore {
	return &memStore{items: map[string]*entity.Item{}}
}

type memItemRepo struct{ s *memStore }

func (r *memItemRepo) Create(_ context.Context, item *entity.Item) error {
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *memItemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	for _, item := range r.s.items {
		if item.SKU == sku && sku != "" {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *memItemRepo) Update(_ context.Context, item *entity.Item) error {
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) UpdateStock(_ context.Context, itemID string, quantity int64, updatedBy string, updatedAt time.Time) error {
	item, ok := r.s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.Quantity = quantity
	item.LastUpdatedBy = updatedBy
	item.LastUpdated = updatedAt
	return nil
}

func (r *memItemRepo) List(_ context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, item := range r.s.items {
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memItemRepo) Delete(_ context.Context, id string) error {
	delete(r.s.items, id)
	return nil
}

type memLedgerRepo struct{ s *memStore }

func (r *memLedgerRepo) Create(_ context.Context, txn *entity.Transaction) error {
	cp := *txn
	r.s.ledger = append(r.s.ledger, &cp)
	return nil
}

func (r *memLedgerRepo) ListByItem(_ context.Context, itemID string, limit, offset int) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for i := len(r.s.ledger) - 1; i >= 0; i-- {
		if r.s.ledger[i].ItemID == itemID {
			cp := *r.s.ledger[i]
			out = append(out, &cp)
		}
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memLedgerRepo) DeleteByItem(_ context.Context, itemID string) (int64, error) {
	var kept []*entity.Transaction
	var deleted int64
	for _, txn := range r.s.ledger {
		if txn.ItemID == itemID {
			deleted++
			continue
		}
		kept = append(kept, txn)
	}
	r.s.ledger = kept
	return deleted, nil
}

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(_ context.Context, fn func(repository.ItemRepository, repository.TransactionRepository) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return fn(&memItemRepo{s: t.s}, &memLedgerRepo{s: t.s})
}

func newEngine() (*stock.Engine, *memStore) {
	s := newMemStore()
	return stock.NewEngine(&memTxRunner{s: s}, &memItemRepo{s: s}, &memLedgerRepo{s: s}), s
}

func seedItem(s *memStore, quantity, threshold int64) *entity.Item {
	item := &entity.Item{
		ID:        uuid.New().String(),
		Name:      "Tornillo 3/8",
		Quantity:  quantity,
		Threshold: threshold,
		Unit:      "unidad",
		CreatedAt: time.Now(),
	}
	s.items[item.ID] = item
	return item
}

// ledgerSum suma firmada del libro de un ítem (in = +, out = -).
func ledgerSum(s *memStore, itemID string) int64 {
	var sum int64
	for _, txn := range s.ledger {
		if txn.ItemID == itemID {
			sum += txn.SignedQuantity()
		}
	}
	return sum
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordTransaction
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordTransaction_EntradaActualizaCacheYLibro(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 0, 0)

	txn, err := eng.RecordTransaction(context.Background(), item.ID, entity.TransactionTypeIn, 7, "compra", "OC-001", "user-1")
	require.NoError(t, err)
	require.NotNil(t, txn)

	assert.Equal(t, entity.TransactionTypeIn, txn.Type)
	assert.Equal(t, int64(7), txn.Quantity)
	assert.Equal(t, "user-1", txn.PerformedBy)
	assert.Equal(t, "OC-001", txn.Reference)

	qty, err := eng.CurrentQuantity(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), qty, "la cantidad cacheada debe reflejar la entrada")
	assert.Equal(t, int64(7), ledgerSum(s, item.ID), "cache y suma del libro deben coincidir")
	assert.Equal(t, "user-1", s.items[item.ID].LastUpdatedBy)
}

func TestRecordTransaction_SalidaExactaDejaCero(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 5, 0)

	_, err := eng.RecordTransaction(context.Background(), item.ID, entity.TransactionTypeOut, 5, "", "", "user-1")
	require.NoError(t, err, "retirar exactamente el stock disponible debe ser válido")

	qty, err := eng.CurrentQuantity(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)
}

func TestRecordTransaction_SalidaExcedente_StockInsuficiente(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 5, 0)

	_, err := eng.RecordTransaction(context.Background(), item.ID, entity.TransactionTypeOut, 6, "", "", "user-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Sin escritura parcial: ni cantidad ni libro cambian.
	assert.Equal(t, int64(5), s.items[item.ID].Quantity)
	assert.Empty(t, s.ledger, "un rechazo no debe dejar asiento en el libro")
}

func TestRecordTransaction_CantidadNoPositiva(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 5, 0)

	for _, qty := range []int64{0, -3} {
		_, err := eng.RecordTransaction(context.Background(), item.ID, entity.TransactionTypeIn, qty, "", "", "user-1")
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
}

func TestRecordTransaction_TipoDesconocido(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 5, 0)

	_, err := eng.RecordTransaction(context.Background(), item.ID, "transfer", 1, "", "", "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordTransaction_ItemInexistente(t *testing.T) {
	eng, _ := newEngine()

	_, err := eng.RecordTransaction(context.Background(), uuid.New().String(), entity.TransactionTypeIn, 1, "", "", "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetQuantity (override autoritativo)
// ──────────────────────────────────────────────────────────────────────────────

func TestSetQuantity_SinDiferenciaNoAsienta(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 4, 0)

	txn, err := eng.SetQuantity(context.Background(), item.ID, 4, "user-1", "")
	require.NoError(t, err)
	assert.Nil(t, txn, "sin diferencia no debe sintetizarse asiento")
	assert.Empty(t, s.ledger)
	assert.Equal(t, int64(4), s.items[item.ID].Quantity)
}

func TestSetQuantity_AumentoSintetizaEntrada(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 4, 0)

	txn, err := eng.SetQuantity(context.Background(), item.ID, 10, "user-1", "")
	require.NoError(t, err)
	require.NotNil(t, txn)

	assert.Equal(t, entity.TransactionTypeIn, txn.Type)
	assert.Equal(t, int64(6), txn.Quantity)
	assert.Equal(t, stock.NoteQuantityAdjustment, txn.Notes)
	assert.Equal(t, int64(10), s.items[item.ID].Quantity)
}

func TestSetQuantity_ReduccionOmiteVerificacionDeSuficiencia(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 10, 0)

	// El override es corrección autoritativa: bajar a 0 retira todo el stock
	// sin pasar por el chequeo de suficiencia de las salidas explícitas.
	txn, err := eng.SetQuantity(context.Background(), item.ID, 0, "user-1", "")
	require.NoError(t, err)
	require.NotNil(t, txn)

	assert.Equal(t, entity.TransactionTypeOut, txn.Type)
	assert.Equal(t, int64(10), txn.Quantity)
	assert.Equal(t, int64(0), s.items[item.ID].Quantity)
}

func TestSetQuantity_ObjetivoNegativoRechazado(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 10, 0)

	_, err := eng.SetQuantity(context.Background(), item.ID, -1, "user-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, int64(10), s.items[item.ID].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación con semilla y borrado en cascada
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateWithInitialStock_SiembraEnUnaTransaccion(t *testing.T) {
	eng, s := newEngine()
	item := &entity.Item{ID: uuid.New().String(), Name: "Cinta métrica", Quantity: 10, Threshold: 5, CreatedAt: time.Now()}

	seed, err := eng.CreateWithInitialStock(context.Background(), item, "user-1")
	require.NoError(t, err)
	require.NotNil(t, seed)

	assert.Equal(t, entity.TransactionTypeIn, seed.Type)
	assert.Equal(t, int64(10), seed.Quantity)
	assert.Equal(t, stock.NoteInitialInventory, seed.Notes)
	assert.Equal(t, int64(10), s.items[item.ID].Quantity)
	assert.Equal(t, int64(10), ledgerSum(s, item.ID))
}

func TestCreateWithInitialStock_SinCantidadNoSiembra(t *testing.T) {
	eng, s := newEngine()
	item := &entity.Item{ID: uuid.New().String(), Name: "Caja vacía", CreatedAt: time.Now()}

	seed, err := eng.CreateWithInitialStock(context.Background(), item, "user-1")
	require.NoError(t, err)
	assert.Nil(t, seed)
	assert.Empty(t, s.ledger)
}

func TestDeleteItem_CascadaBorraElLibro(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 0, 0)

	for i := 0; i < 3; i++ {
		_, err := eng.RecordTransaction(context.Background(), item.ID, entity.TransactionTypeIn, 2, "", "", "user-1")
		require.NoError(t, err)
	}
	require.Len(t, s.ledger, 3)

	require.NoError(t, eng.DeleteItem(context.Background(), item.ID))

	assert.NotContains(t, s.items, item.ID)
	history, err := eng.History(context.Background(), item.ID, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, history, "tras el borrado el historial debe quedar vacío")
}

func TestDeleteItem_Inexistente(t *testing.T) {
	eng, _ := newEngine()
	err := eng.DeleteItem(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial e invariante global
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_MasRecientePrimeroYRepetible(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 0, 0)

	for _, qty := range []int64{1, 2, 3} {
		_, err := eng.RecordTransaction(context.Background(), item.ID, entity.TransactionTypeIn, qty, "", "", "user-1")
		require.NoError(t, err)
	}

	first, err := eng.History(context.Background(), item.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, int64(3), first[0].Quantity, "el asiento más reciente va primero")
	assert.Equal(t, int64(1), first[2].Quantity)

	// Sin escrituras intermedias la relectura es idéntica.
	second, err := eng.History(context.Background(), item.ID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInvariante_CacheIgualASumaDelLibro(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 0, 0)
	ctx := context.Background()

	_, err := eng.RecordTransaction(ctx, item.ID, entity.TransactionTypeIn, 10, "", "", "u")
	require.NoError(t, err)
	_, err = eng.RecordTransaction(ctx, item.ID, entity.TransactionTypeOut, 4, "", "", "u")
	require.NoError(t, err)
	_, err = eng.SetQuantity(ctx, item.ID, 9, "u", "")
	require.NoError(t, err)
	_, err = eng.RecordTransaction(ctx, item.ID, entity.TransactionTypeOut, 9, "", "", "u")
	require.NoError(t, err)

	assert.Equal(t, s.items[item.ID].Quantity, ledgerSum(s, item.ID),
		"después de cualquier secuencia de operaciones la cantidad cacheada debe igualar la suma firmada del libro")
	assert.GreaterOrEqual(t, s.items[item.ID].Quantity, int64(0))
}

// Escenario completo del flujo de stock bajo.
func TestFlujo_MovimientosYStockBajo(t *testing.T) {
	eng, s := newEngine()
	ctx := context.Background()

	item := &entity.Item{ID: uuid.New().String(), Name: "Guantes", Quantity: 10, Threshold: 5, CreatedAt: time.Now()}
	_, err := eng.CreateWithInitialStock(ctx, item, "u")
	require.NoError(t, err)
	assert.False(t, s.items[item.ID].IsLowStock(), "con 10 sobre umbral 5 no hay stock bajo")

	_, err = eng.RecordTransaction(ctx, item.ID, entity.TransactionTypeOut, 6, "", "", "u")
	require.NoError(t, err)
	assert.Equal(t, int64(4), s.items[item.ID].Quantity)
	assert.True(t, s.items[item.ID].IsLowStock(), "con 4 bajo umbral 5 debe marcarse stock bajo")

	history, err := eng.History(ctx, item.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = eng.RecordTransaction(ctx, item.ID, entity.TransactionTypeOut, 10, "", "", "u")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(4), s.items[item.ID].Quantity, "un rechazo no cambia la cantidad")

	history, err = eng.History(ctx, item.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2, "un rechazo no deja asiento")
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: dos salidas simultáneas por todo el stock
// ──────────────────────────────────────────────────────────────────────────────

func TestConcurrencia_DobleSalidaSoloUnaGana(t *testing.T) {
	eng, s := newEngine()
	item := seedItem(s, 8, 0)
	ctx := context.Background()

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.RecordTransaction(ctx, item.ID, entity.TransactionTypeOut, 8, "", "", "u")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, insufficient int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case err == domain.ErrInsufficientStock:
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactamente una salida debe ganar")
	assert.Equal(t, 1, insufficient, "la otra debe fallar por stock insuficiente")
	assert.Equal(t, int64(0), s.items[item.ID].Quantity, "la cantidad nunca queda negativa")

	history, err := eng.History(ctx, item.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1, "solo la salida ganadora deja asiento")
}
