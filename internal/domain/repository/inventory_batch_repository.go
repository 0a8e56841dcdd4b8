package repository

import (
	"context"

	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryBatchRepository define el puerto de persistencia de lotes.
// Usado dentro de transacciones para garantizar consistencia del saldo.
type InventoryBatchRepository interface {
	Create(ctx context.Context, batch *entity.InventoryBatch) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.InventoryBatch, error)
	// GetForUpdate igual que GetByID pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error)
	ListByMaterial(ctx context.Context, materialID string) ([]*entity.InventoryBatch, error)
	// ListAvailableForUpdate bloquea los lotes disponibles del material (SELECT FOR UPDATE).
	ListAvailableForUpdate(ctx context.Context, materialID string) ([]*entity.InventoryBatch, error)
	UpdateQuantity(ctx context.Context, batchID string, quantity decimal.Decimal, status string) error
	UpdateStatus(ctx context.Context, batchID, status string) error
	// AvailableBalance suma los lotes en estado available del material.
	AvailableBalance(ctx context.Context, materialID string) (decimal.Decimal, error)
}
