package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mrp-planner/internal/application/mrp"
)

// ReorderHandler sugerencias de reposición (órdenes de compra propuestas).
type ReorderHandler struct {
	planner *mrp.Planner
	reports *mrp.ReportUseCase
}

// NewReorderHandler construye el handler.
func NewReorderHandler(planner *mrp.Planner, reports *mrp.ReportUseCase) *ReorderHandler {
	return &ReorderHandler{planner: planner, reports: reports}
}

func materialIDs(c *fiber.Ctx) []string {
	raw := c.Query("material_ids")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// Suggestions godoc
// @Summary      Sugerencias de reposición
// @Description  Materiales urgent/warning no cubiertos por órdenes abiertas. Los materiales que no se pudieron
//
//	planear se informan en failures sin abortar el resto.
//
// @Tags         reorder
// @Produce      json
// @Param        material_ids  query  string  false  "IDs separados por coma (vacío = todos)"
// @Success      200  {object}  dto.ReorderPlanResponse
// @Router       /api/reorder-suggestions [get]
func (h *ReorderHandler) Suggestions(c *fiber.Ctx) error {
	res, err := h.planner.PlanReorders(c.Context(), materialIDs(c))
	if err != nil {
		return writeError(c, err, "material no encontrado")
	}
	return c.JSON(mrp.ToReorderPlanResponse(res))
}

// Report godoc
// @Summary      Reporte PDF de sugerencias de reposición
// @Tags         reorder
// @Produce      application/pdf
// @Param        material_ids  query  string  false  "IDs separados por coma (vacío = todos)"
// @Success      200  {file}  binary
// @Router       /api/reorder-suggestions/report [get]
func (h *ReorderHandler) Report(c *fiber.Ctx) error {
	out, err := h.reports.SuggestionsReport(c.Context(), materialIDs(c))
	if err != nil {
		return writeError(c, err, "material no encontrado")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="sugerencias_%s.pdf"`, time.Now().Format("20060102_150405")))
	return c.Send(out)
}
