package report

import (
	"context"
	"time"

	"github.com/jhoicas/mrp-planner/internal/application/mrp"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

// Verificar en tiempo de compilación que Renderer implementa mrp.ReportRenderer.
var _ mrp.ReportRenderer = (*Renderer)(nil)

// Renderer implementa mrp.ReportRenderer con Maroto (PDF) y Excelize (XLSX).
type Renderer struct {
	now func() time.Time
}

// NewRenderer construye el generador de reportes.
func NewRenderer() *Renderer { return &Renderer{now: time.Now} }

// SuggestionsPDF reporte de sugerencias de reposición con los fallos parciales al final.
func (r *Renderer) SuggestionsPDF(_ context.Context, res *mrp.PlanResult) ([]byte, error) {
	failures := make([]failedMaterial, 0, len(res.Failures))
	for _, f := range res.Failures {
		failures = append(failures, failedMaterial{MaterialID: f.MaterialID, Reason: f.Err.Error()})
	}
	return suggestionsPDF(res.Suggestions, failures, r.now())
}

// RequirementsXLSX hoja de requerimientos para el horizonte indicado.
func (r *Renderer) RequirementsXLSX(_ context.Context, reqs []*entity.MaterialRequirement, horizonDays int) ([]byte, error) {
	return requirementsXLSX(reqs, horizonDays)
}
