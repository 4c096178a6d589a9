package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, description, category_id, quantity, price, unit, location, sku, threshold, image, created_by, last_updated_by, created_at, last_updated`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo ítem. SKU vacío se guarda como NULL para no chocar
// con el índice único parcial.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, name, description, category_id, quantity, price, unit, location, sku, threshold, image, created_by, last_updated_by, created_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, nullIfEmpty(item.CategoryID), item.Quantity,
		item.Price, item.Unit, item.Location, nullIfEmpty(item.SKU), item.Threshold,
		item.Image, item.CreatedBy, item.LastUpdatedBy, item.CreatedAt, item.LastUpdated,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.scanOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetBySKU obtiene un ítem por SKU.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	return r.scanOne(ctx, `SELECT `+itemColumns+` FROM items WHERE sku = $1`, sku)
}

// GetForUpdate obtiene el ítem y bloquea su fila (SELECT FOR UPDATE). Es el
// lock por ítem del motor de stock; solo útil dentro de una transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.scanOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// Update actualiza los campos simples de un ítem. Quantity no se toca aquí:
// su único mutador es UpdateStock, vía motor de stock.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, description = $3, category_id = $4, price = $5, unit = $6,
			location = $7, sku = $8, threshold = $9, image = $10, last_updated_by = $11, last_updated = $12
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, nullIfEmpty(item.CategoryID), item.Price, item.Unit,
		item.Location, nullIfEmpty(item.SKU), item.Threshold, item.Image, item.LastUpdatedBy, item.LastUpdated,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateStock escribe la cantidad cacheada y el sello de última modificación.
func (r *ItemRepo) UpdateStock(ctx context.Context, itemID string, quantity int64, updatedBy string, updatedAt time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE items SET quantity = $2, last_updated_by = $3, last_updated = $4 WHERE id = $1`,
		itemID, quantity, updatedBy, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item stock: %w", err)
	}
	return nil
}

// List lista ítems aplicando los filtros en conjunción.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.CategoryID != "" {
		query += fmt.Sprintf(" AND category_id = $%d", pos)
		args = append(args, filter.CategoryID)
		pos++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND name ILIKE '%%' || $%d || '%%'", pos)
		args = append(args, filter.Search)
		pos++
	}
	if filter.LowStock {
		query += " AND quantity <= threshold"
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Delete elimina un ítem por ID.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (r *ItemRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	var categoryID, sku *string
	err := row.Scan(
		&i.ID, &i.Name, &i.Description, &categoryID, &i.Quantity, &i.Price, &i.Unit,
		&i.Location, &sku, &i.Threshold, &i.Image, &i.CreatedBy, &i.LastUpdatedBy,
		&i.CreatedAt, &i.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		i.CategoryID = *categoryID
	}
	if sku != nil {
		i.SKU = *sku
	}
	return &i, nil
}
