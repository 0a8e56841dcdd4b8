package mrp

import (
	"context"
	"errors"

	"github.com/jhoicas/mrp-planner/internal/application/dto"
	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

// ToRequirementResponse convierte un requerimiento a su DTO.
func ToRequirementResponse(r *entity.MaterialRequirement) dto.RequirementResponse {
	return dto.RequirementResponse{
		MaterialID:       r.MaterialID,
		Name:             r.Name,
		Type:             r.Type,
		CurrentBalance:   r.Balance,
		ReorderPoint:     r.ReorderPoint,
		MOQ:              r.MOQ,
		LeadTimeDays:     r.LeadTimeDays,
		DailyRate:        r.DailyRate,
		LowConfidence:    r.LowConfidence,
		DaysUntilReorder: r.DaysUntilReorder,
		Immediate:        r.Immediate,
		Status:           r.Status,
	}
}

// ToRequirementListResponse listado para un horizonte (y tipo, si se filtró).
func ToRequirementListResponse(horizonDays int, typeFilter string, reqs []*entity.MaterialRequirement) dto.RequirementListResponse {
	items := make([]dto.RequirementResponse, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, ToRequirementResponse(r))
	}
	return dto.RequirementListResponse{HorizonDays: horizonDays, Type: typeFilter, Items: items}
}

// ToReorderPlanResponse sugerencias y fallos parciales del planificador.
func ToReorderPlanResponse(res *PlanResult) dto.ReorderPlanResponse {
	out := dto.ReorderPlanResponse{
		Suggestions: make([]dto.ReorderSuggestionResponse, 0, len(res.Suggestions)),
		Failures:    make([]dto.PlanFailureResponse, 0, len(res.Failures)),
	}
	for _, s := range res.Suggestions {
		out.Suggestions = append(out.Suggestions, dto.ReorderSuggestionResponse{
			MaterialID:    s.MaterialID,
			MaterialName:  s.MaterialName,
			SuggestedQty:  s.SuggestedQty,
			Rationale:     s.Rationale,
			Message:       s.Message,
			Status:        s.Status,
			Balance:       s.Balance,
			ReorderPoint:  s.ReorderPoint,
			MOQ:           s.MOQ,
			OpenOrderQty:  s.OpenOrderQty,
			UnitPrice:     s.UnitPrice,
			EstimatedCost: s.EstimatedCost,
			LeadTimeDays:  s.LeadTimeDays,
			LowConfidence: s.LowConfidence,
		})
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, dto.PlanFailureResponse{
			MaterialID: f.MaterialID,
			Code:       FailureCode(f.Err),
			Message:    f.Err.Error(),
		})
	}
	return out
}

// FailureCode código estable para un fallo de planeación.
func FailureCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, domain.ErrInvalidInput):
		return "VALIDATION"
	default:
		return "LOOKUP_FAILED"
	}
}
