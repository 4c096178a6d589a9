// Job de auditoría offline: concilia la cantidad cacheada de cada ítem contra
// la suma firmada de su libro de movimientos. No corrige nada; reporta la
// deriva para intervención manual. Pensado para correrse por cron.
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// La suma se calcula en SQL: agregar en el servidor evita traer cada libro a
// memoria y lee un snapshot consistente por ítem.
const driftQuery = `
	SELECT i.id, i.name, i.quantity,
	       COALESCE(SUM(CASE WHEN t.type = 'in' THEN t.quantity ELSE -t.quantity END), 0) AS ledger_sum
	FROM items i
	LEFT JOIN transactions t ON t.item_id = i.id
	GROUP BY i.id, i.name, i.quantity
	HAVING i.quantity <> COALESCE(SUM(CASE WHEN t.type = 'in' THEN t.quantity ELSE -t.quantity END), 0)
	ORDER BY i.name`

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	start := time.Now()
	rows, err := pool.Query(ctx, driftQuery)
	if err != nil {
		log.Fatal().Err(err).Msg("consulta de conciliación")
	}
	defer rows.Close()

	var drifted int
	for rows.Next() {
		var (
			id, name  string
			quantity  int64
			ledgerSum int64
		)
		if err := rows.Scan(&id, &name, &quantity, &ledgerSum); err != nil {
			log.Fatal().Err(err).Msg("scan de fila de conciliación")
		}
		drifted++
		log.Warn().
			Str("item_id", id).
			Str("name", name).
			Int64("cached_quantity", quantity).
			Int64("ledger_sum", ledgerSum).
			Int64("drift", quantity-ledgerSum).
			Msg("deriva detectada entre cantidad cacheada y libro")
	}
	if err := rows.Err(); err != nil {
		log.Fatal().Err(err).Msg("iteración de conciliación")
	}

	log.Info().
		Int("items_con_deriva", drifted).
		Dur("duracion", time.Since(start)).
		Msg("conciliación finalizada")

	if drifted > 0 {
		os.Exit(1)
	}
}
