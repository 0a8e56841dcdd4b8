package repository

import (
	"context"
	"time"

	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

// ConsumptionEventRepository puerto del log append-only de consumos.
type ConsumptionEventRepository interface {
	// Create persiste el evento; una clave de idempotencia repetida devuelve domain.ErrDuplicate.
	Create(ctx context.Context, event *entity.ConsumptionEvent) error
	CreateAllocations(ctx context.Context, allocations []entity.BatchAllocation) error
	// GetByIdempotencyKey devuelve nil, nil si la clave no se ha registrado.
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.ConsumptionEvent, error)
	ListAllocations(ctx context.Context, eventID string) ([]entity.BatchAllocation, error)
	// ListSince eventos del material con occurred_at en [from, to].
	ListSince(ctx context.Context, materialID string, from, to time.Time) ([]*entity.ConsumptionEvent, error)
}
