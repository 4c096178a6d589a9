package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ItemCache contrato mínimo del caché de lectura de ítems. Lo implementa
// *rediscache.ItemCache; la interfaz evita acoplar el caso de uso a Redis
// y permite operar sin caché (nil).
type ItemCache interface {
	Get(ctx context.Context, id string) (*entity.Item, error)
	Set(ctx context.Context, item *entity.Item) error
	Invalidate(ctx context.Context, id string) error
}

// ItemUseCase orquesta el CRUD de ítems. Todo cambio que afecte la cantidad
// (semilla inicial, override de edición, movimientos, borrado en cascada) se
// delega al motor de stock; aquí solo viven los campos simples y el caché.
type ItemUseCase struct {
	repo   repository.ItemRepository
	engine *stock.Engine
	cache  ItemCache // opcional; nil = sin caché
}

// NewItemUseCase construye el caso de uso. cache puede ser nil.
func NewItemUseCase(repo repository.ItemRepository, engine *stock.Engine, cache ItemCache) *ItemUseCase {
	return &ItemUseCase{repo: repo, engine: engine, cache: cache}
}

// Create crea un ítem; con cantidad inicial > 0 el motor siembra el asiento
// del libro en la misma transacción. SKU duplicado -> ErrDuplicate.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest, actor string) (*dto.ItemResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 || in.Threshold < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.SKU != "" {
		existing, err := uc.repo.GetBySKU(ctx, in.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	item := &entity.Item{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		Quantity:      in.Quantity,
		Price:         in.Price,
		Unit:          in.Unit,
		Location:      in.Location,
		SKU:           in.SKU,
		Threshold:     in.Threshold,
		Image:         in.Image,
		CreatedBy:     actor,
		LastUpdatedBy: actor,
		CreatedAt:     now,
		LastUpdated:   now,
	}
	if _, err := uc.engine.CreateWithInitialStock(ctx, item, actor); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem, primero del caché si está habilitado.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, id); err == nil && cached != nil {
			return toItemResponse(cached), nil
		}
	}
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if uc.cache != nil {
		_ = uc.cache.Set(ctx, item)
	}
	return toItemResponse(item), nil
}

// Update aplica una edición parcial. Si la cantidad entrante difiere de la
// actual, el motor la fija primero (override + asiento sintetizado en una
// transacción); después se reemplazan los campos simples. Semántica parcial:
// nil = sin cambio; el string vacío aplica para description y location.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest, actor string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.SKU != nil && *in.SKU != "" && *in.SKU != item.SKU {
		existing, err := uc.repo.GetBySKU(ctx, *in.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		item.SKU = *in.SKU
	}
	if in.Quantity != nil && *in.Quantity != item.Quantity {
		if _, err := uc.engine.SetQuantity(ctx, id, *in.Quantity, actor, ""); err != nil {
			return nil, err
		}
		item.Quantity = *in.Quantity
	}
	if in.Name != nil && *in.Name != "" {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.CategoryID != nil && *in.CategoryID != "" {
		item.CategoryID = *in.CategoryID
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.Price = *in.Price
	}
	if in.Unit != nil && *in.Unit != "" {
		item.Unit = *in.Unit
	}
	if in.Location != nil {
		item.Location = *in.Location
	}
	if in.Threshold != nil {
		if *in.Threshold < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		item.Threshold = *in.Threshold
	}
	if in.Image != nil && *in.Image != "" {
		item.Image = *in.Image
	}
	item.LastUpdatedBy = actor
	item.LastUpdated = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, id)
	return toItemResponse(item), nil
}

// Delete elimina el ítem y su libro completo (cascada, una transacción).
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.engine.DeleteItem(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx, id)
	return nil
}

// List lista ítems con filtros conjuntivos (categoría, búsqueda, stock bajo).
func (uc *ItemUseCase) List(ctx context.Context, in dto.ListItemsRequest) (*dto.ItemListResponse, error) {
	page := dto.PageRequest{Limit: in.Limit, Offset: in.Offset}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ItemFilter{
		CategoryID: in.Category,
		Search:     in.Search,
		LowStock:   in.LowStock,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, item := range list {
		items = append(items, *toItemResponse(item))
	}
	return &dto.ItemListResponse{Items: items, Total: len(items), Limit: page.Limit, Offset: page.Offset}, nil
}

// RecordTransaction registra un movimiento explícito delegando al motor.
func (uc *ItemUseCase) RecordTransaction(ctx context.Context, itemID string, in dto.RecordTransactionRequest, actor string) (*dto.TransactionResponse, error) {
	txn, err := uc.engine.RecordTransaction(ctx, itemID, in.Type, in.Quantity, in.Notes, in.Reference, actor)
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, itemID)
	return toTransactionResponse(txn), nil
}

// ListTransactions devuelve el historial de un ítem, más reciente primero.
func (uc *ItemUseCase) ListTransactions(ctx context.Context, itemID string, limit, offset int) (*dto.TransactionListResponse, error) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.DefaultPage()
	list, err := uc.engine.History(ctx, itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	txns := make([]dto.TransactionResponse, 0, len(list))
	for _, txn := range list {
		txns = append(txns, *toTransactionResponse(txn))
	}
	return &dto.TransactionListResponse{Transactions: txns, Limit: page.Limit, Offset: page.Offset}, nil
}

// invalidate saca el ítem del caché tras cualquier escritura. El error se
// ignora: un caché caído degrada a lecturas de BD, no rompe la operación.
func (uc *ItemUseCase) invalidate(ctx context.Context, id string) {
	if uc.cache != nil {
		_ = uc.cache.Invalidate(ctx, id)
	}
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:            i.ID,
		Name:          i.Name,
		Description:   i.Description,
		CategoryID:    i.CategoryID,
		Quantity:      i.Quantity,
		Price:         i.Price,
		Unit:          i.Unit,
		Location:      i.Location,
		SKU:           i.SKU,
		Threshold:     i.Threshold,
		Image:         i.Image,
		LowStock:      i.IsLowStock(),
		CreatedBy:     i.CreatedBy,
		LastUpdatedBy: i.LastUpdatedBy,
		CreatedAt:     i.CreatedAt,
		LastUpdated:   i.LastUpdated,
	}
}

func toTransactionResponse(t *entity.Transaction) *dto.TransactionResponse {
	if t == nil {
		return nil
	}
	return &dto.TransactionResponse{
		ID:          t.ID,
		ItemID:      t.ItemID,
		Type:        t.Type,
		Quantity:    t.Quantity,
		Date:        t.Date,
		Notes:       t.Notes,
		Reference:   t.Reference,
		PerformedBy: t.PerformedBy,
	}
}
