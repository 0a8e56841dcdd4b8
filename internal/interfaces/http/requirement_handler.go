package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mrp-planner/internal/application/mrp"
)

// RequirementHandler consultas de requerimientos de material (tablero de planeación).
type RequirementHandler struct {
	query   *mrp.QueryFacade
	reports *mrp.ReportUseCase
}

// NewRequirementHandler construye el handler.
func NewRequirementHandler(query *mrp.QueryFacade, reports *mrp.ReportUseCase) *RequirementHandler {
	return &RequirementHandler{query: query, reports: reports}
}

// horizon lee el horizonte de la query; ausente = horizonte por defecto, no numérico o <= 0 = inválido.
func (h *RequirementHandler) horizon(c *fiber.Ctx, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return h.query.DefaultHorizon(), true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// List godoc
// @Summary      Requerimientos de material
// @Description  Saldo, tasa de consumo, días hasta reorden y estado por material para el horizonte pedido.
// @Tags         requirements
// @Produce      json
// @Param        horizon_days  query  int     false  "Horizonte en días (por defecto PLANNING_DEFAULT_HORIZON_DAYS)"
// @Param        type          query  string  false  "raw | component | finished"
// @Success      200  {object}  dto.RequirementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/requirements [get]
func (h *RequirementHandler) List(c *fiber.Ctx) error {
	horizon, ok := h.horizon(c, "horizon_days")
	if !ok {
		return badRequest(c, "VALIDATION", "horizon_days debe ser un entero positivo")
	}
	typeFilter := c.Query("type")
	list, err := h.query.ListRequirements(c.Context(), horizon, typeFilter)
	if err != nil {
		return writeError(c, err, "material no encontrado")
	}
	return c.JSON(mrp.ToRequirementListResponse(horizon, typeFilter, list))
}

// Urgent godoc
// @Summary      Alertas de bajo stock
// @Description  Solo los materiales en estado urgent (saldo en o bajo el punto de reorden).
// @Tags         requirements
// @Produce      json
// @Param        horizon_days  query  int  false  "Horizonte en días"
// @Success      200  {object}  dto.RequirementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/requirements/urgent [get]
func (h *RequirementHandler) Urgent(c *fiber.Ctx) error {
	horizon, ok := h.horizon(c, "horizon_days")
	if !ok {
		return badRequest(c, "VALIDATION", "horizon_days debe ser un entero positivo")
	}
	list, err := h.query.ListUrgent(c.Context(), horizon)
	if err != nil {
		return writeError(c, err, "material no encontrado")
	}
	return c.JSON(mrp.ToRequirementListResponse(horizon, "", list))
}

// ByMaterial godoc
// @Summary      Requerimiento de un material
// @Tags         requirements
// @Produce      json
// @Param        id    path   string  true   "ID del material"
// @Param        days  query  int     false  "Horizonte en días"
// @Success      200  {object}  dto.RequirementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/requirements [get]
func (h *RequirementHandler) ByMaterial(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "MISSING_ID", "id es requerido")
	}
	horizon, ok := h.horizon(c, "days")
	if !ok {
		return badRequest(c, "VALIDATION", "days debe ser un entero positivo")
	}
	req, err := h.query.Requirement(c.Context(), id, horizon)
	if err != nil {
		return writeError(c, err, "material no encontrado")
	}
	return c.JSON(mrp.ToRequirementResponse(req))
}

// Export godoc
// @Summary      Exportar requerimientos a Excel
// @Tags         requirements
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        horizon_days  query  int     false  "Horizonte en días"
// @Param        type          query  string  false  "raw | component | finished"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/requirements/export [get]
func (h *RequirementHandler) Export(c *fiber.Ctx) error {
	horizon, ok := h.horizon(c, "horizon_days")
	if !ok {
		return badRequest(c, "VALIDATION", "horizon_days debe ser un entero positivo")
	}
	out, err := h.reports.RequirementsExport(c.Context(), horizon, c.Query("type"))
	if err != nil {
		return writeError(c, err, "material no encontrado")
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="requerimientos_%s.xlsx"`, time.Now().Format("20060102_150405")))
	return c.Send(out)
}
