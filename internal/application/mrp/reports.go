package mrp

import (
	"context"
	"fmt"
)

// ReportUseCase arma los reportes descargables a partir de la fachada y el planificador.
type ReportUseCase struct {
	query    *QueryFacade
	planner  *Planner
	renderer ReportRenderer
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(query *QueryFacade, planner *Planner, renderer ReportRenderer) *ReportUseCase {
	return &ReportUseCase{query: query, planner: planner, renderer: renderer}
}

// RequirementsExport XLSX con los requerimientos del horizonte (y tipo, si se indica).
func (uc *ReportUseCase) RequirementsExport(ctx context.Context, horizonDays int, typeFilter string) ([]byte, error) {
	reqs, err := uc.query.ListRequirements(ctx, horizonDays, typeFilter)
	if err != nil {
		return nil, err
	}
	out, err := uc.renderer.RequirementsXLSX(ctx, reqs, horizonDays)
	if err != nil {
		return nil, fmt.Errorf("export requirements: %w", err)
	}
	return out, nil
}

// SuggestionsReport PDF con las sugerencias de reposición de los materiales indicados (vacío = todos).
func (uc *ReportUseCase) SuggestionsReport(ctx context.Context, materialIDs []string) ([]byte, error) {
	res, err := uc.planner.PlanReorders(ctx, materialIDs)
	if err != nil {
		return nil, err
	}
	out, err := uc.renderer.SuggestionsPDF(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("suggestions report: %w", err)
	}
	return out, nil
}
