package inventory

import (
	"context"

	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza atomicidad del libro de inventario: o se aplican todos los descuentos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.InventoryBatchRepository,
		eventRepo repository.ConsumptionEventRepository,
	) error) error
}

// MovementNotifier recibe cada movimiento confirmado del libro (después del commit).
// Lo implementan la caché de requerimientos, las métricas y el productor Kafka.
type MovementNotifier interface {
	MovementRecorded(ctx context.Context, mov entity.LedgerMovement)
}

// Notifiers reparte un movimiento a varios suscriptores, en orden.
type Notifiers []MovementNotifier

// MovementRecorded implementa MovementNotifier.
func (n Notifiers) MovementRecorded(ctx context.Context, mov entity.LedgerMovement) {
	for _, sub := range n {
		if sub != nil {
			sub.MovementRecorded(ctx, mov)
		}
	}
}
