package repository

import (
	"context"

	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

// MaterialFilter filtros opcionales para listar materiales.
type MaterialFilter struct {
	Type   string // raw, component, finished; vacío = todos
	Limit  int    // 0 = sin límite
	Offset int
}

// MaterialRepository define el puerto de lectura para Material (datos de referencia).
type MaterialRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	List(ctx context.Context, filter MaterialFilter) ([]*entity.Material, error)
	// Count total de materiales que cumplen el filtro (ignora Limit/Offset).
	Count(ctx context.Context, filter MaterialFilter) (int, error)
}
