package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mrp-planner/internal/application/dto"
	"github.com/jhoicas/mrp-planner/internal/application/inventory"
)

// InventoryHandler libro de inventario: lotes, consumos y saldo.
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// CreateBatch godoc
// @Summary      Registrar recepción de lote
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "material_id, batch_number, quantity, location, expiry_date"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [post]
func (h *InventoryHandler) CreateBatch(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.MaterialID == "" || in.BatchNumber == "" {
		return badRequest(c, "VALIDATION", "material_id y batch_number son requeridos")
	}
	batch, err := h.ledger.RecordReceiptFromRequest(c.Context(), in)
	if err != nil {
		return writeError(c, err, "material no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToBatchResponse(batch))
}

// ListBatches godoc
// @Summary      Lotes de un material
// @Tags         inventory
// @Produce      json
// @Param        material_id  query  string  true  "ID del material"
// @Success      200  {object}  dto.BatchListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	materialID := c.Query("material_id")
	if materialID == "" {
		return badRequest(c, "VALIDATION", "material_id es requerido")
	}
	batches, err := h.ledger.ListBatches(c.Context(), materialID)
	if err != nil {
		return writeError(c, err, "material no encontrado")
	}
	return c.JSON(inventory.ToBatchListResponse(materialID, batches))
}

// QuarantineBatch godoc
// @Summary      Poner un lote en cuarentena
// @Description  El lote deja de contar en el saldo disponible. Un lote consumido o ya en cuarentena responde 409.
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/{id}/quarantine [post]
func (h *InventoryHandler) QuarantineBatch(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "MISSING_ID", "id es requerido")
	}
	batch, err := h.ledger.QuarantineBatch(c.Context(), id)
	if err != nil {
		return writeError(c, err, "lote no encontrado")
	}
	return c.JSON(inventory.ToBatchResponse(batch))
}

// RecordConsumption godoc
// @Summary      Registrar consumo de producción
// @Description  Descuenta en orden FEFO. Con la misma clave de idempotencia se devuelve el consumo original (200).
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "Clave de idempotencia (prioridad sobre el body)"
// @Param        body             body    dto.ConsumptionRequest  true   "material_id, quantity, production_run_id"
// @Success      201  {object}  dto.ConsumptionResponse
// @Success      200  {object}  dto.ConsumptionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/consumption [post]
func (h *InventoryHandler) RecordConsumption(c *fiber.Ctx) error {
	var in dto.ConsumptionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.MaterialID == "" || in.ProductionRunID == "" {
		return badRequest(c, "VALIDATION", "material_id y production_run_id son requeridos")
	}
	res, err := h.ledger.RecordConsumptionFromRequest(c.Context(), c.Get("Idempotency-Key"), in)
	if err != nil {
		return writeError(c, err, "material no encontrado")
	}
	status := fiber.StatusCreated
	if res.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(inventory.ToConsumptionResponse(res))
}

// Balance godoc
// @Summary      Saldo disponible de un material
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del material"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/materials/{id}/balance [get]
func (h *InventoryHandler) Balance(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "MISSING_ID", "id es requerido")
	}
	balance, err := h.ledger.CurrentBalance(c.Context(), id)
	if err != nil {
		return writeError(c, err, "material no encontrado")
	}
	return c.JSON(dto.BalanceResponse{MaterialID: id, Balance: balance})
}
