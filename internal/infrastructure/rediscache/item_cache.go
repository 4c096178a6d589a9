package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

var _ usecase.ItemCache = (*ItemCache)(nil)

const (
	itemKeyPrefix = "items:detail:"
	itemTTL       = 5 * time.Minute // red de seguridad; toda escritura invalida explícitamente
)

// ItemCache caché de lectura de ítems sobre Redis. Implementa usecase.ItemCache.
// Solo cachea el detalle por id: las escrituras de stock lo invalidan para que
// nunca se sirva una cantidad anterior junto a un historial más nuevo.
type ItemCache struct {
	client *redis.Client
}

// NewItemCache construye el caché con un cliente Redis ya configurado.
func NewItemCache(client *redis.Client) *ItemCache {
	return &ItemCache{client: client}
}

// Get devuelve el ítem cacheado o (nil, nil) en miss.
func (c *ItemCache) Get(ctx context.Context, id string) (*entity.Item, error) {
	raw, err := c.client.Get(ctx, itemKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get item: %w", err)
	}
	var item entity.Item
	if err := json.Unmarshal(raw, &item); err != nil {
		// Entrada corrupta: descartarla y tratar como miss.
		_ = c.client.Del(ctx, itemKeyPrefix+id).Err()
		return nil, nil
	}
	return &item, nil
}

// Set guarda el ítem con TTL.
func (c *ItemCache) Set(ctx context.Context, item *entity.Item) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("cache marshal item: %w", err)
	}
	if err := c.client.Set(ctx, itemKeyPrefix+item.ID, raw, itemTTL).Err(); err != nil {
		return fmt.Errorf("cache set item: %w", err)
	}
	return nil
}

// Invalidate elimina el ítem del caché.
func (c *ItemCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, itemKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("cache invalidate item: %w", err)
	}
	return nil
}
