package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/mrp-planner/internal/application/dto"
	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
)

// MaterialUseCase consultas de materiales. Los materiales son datos de referencia:
// este servicio no los crea ni los edita.
type MaterialUseCase struct {
	repo repository.MaterialRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo}
}

// GetByID obtiene un material por ID; ErrNotFound si no existe.
func (uc *MaterialUseCase) GetByID(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidInput
	}
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toMaterialResponse(m), nil
}

// List lista materiales paginados, opcionalmente por tipo (raw, component, finished).
func (uc *MaterialUseCase) List(ctx context.Context, materialType string, page dto.PageRequest) (*dto.MaterialListResponse, error) {
	if materialType != "" && !entity.IsValidMaterialType(materialType) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	filter := repository.MaterialFilter{Type: materialType, Limit: page.Limit, Offset: page.Offset}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMaterialResponse(m))
	}
	return &dto.MaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	if m == nil {
		return nil
	}
	return &dto.MaterialResponse{
		ID:           m.ID,
		Name:         m.Name,
		Type:         m.Type,
		SupplierID:   m.SupplierID,
		UnitPrice:    m.UnitPrice,
		MOQ:          m.MOQ,
		LeadTimeDays: m.LeadTimeDays,
		ReorderPoint: m.ReorderPoint,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
