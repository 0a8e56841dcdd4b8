package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/mrp-planner/internal/application/inventory"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
	"github.com/jhoicas/mrp-planner/internal/infrastructure/catalog"
	"github.com/jhoicas/mrp-planner/internal/infrastructure/memory"
	"github.com/jhoicas/mrp-planner/internal/infrastructure/postgres"
	"github.com/jhoicas/mrp-planner/pkg/config"
	"github.com/jhoicas/mrp-planner/pkg/logger"
)

// storage repositorios y transacciones del driver elegido (STORAGE_DRIVER).
type storage struct {
	txRunner  inventory.TxRunner
	materials repository.MaterialRepository
	batches   repository.InventoryBatchRepository
	events    repository.ConsumptionEventRepository
	ping      func(ctx context.Context) error
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.StorageDriver == "memory" {
		return openMemory(cfg, log)
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &storage{
		txRunner:  postgres.NewTxRunner(pool),
		materials: postgres.NewMaterialRepository(pool),
		batches:   postgres.NewInventoryBatchRepository(pool),
		events:    postgres.NewConsumptionEventRepository(pool),
		ping:      pool.Ping,
		close:     pool.Close,
	}, nil
}

// openMemory store en proceso; los datos se pierden al reiniciar.
func openMemory(cfg *config.Config, log *logger.Logger) (*storage, error) {
	store := memory.NewStore()
	if cfg.App.MaterialsFile != "" {
		materials, err := catalog.LoadMaterials(cfg.App.MaterialsFile)
		if err != nil {
			return nil, err
		}
		for _, m := range materials {
			store.PutMaterial(m)
		}
		log.Info().Int("materials", len(materials)).Str("file", cfg.App.MaterialsFile).Msg("maestro de materiales cargado")
	} else {
		log.Warn().Msg("driver memory sin MATERIALS_SEED_FILE: no hay materiales")
	}
	return &storage{
		txRunner:  store,
		materials: store.Materials(),
		batches:   store.Batches(),
		events:    store.Events(),
		ping:      func(context.Context) error { return nil },
		close:     func() {},
	}, nil
}
