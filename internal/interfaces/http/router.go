package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mrp-planner/internal/application/inventory"
	"github.com/jhoicas/mrp-planner/internal/application/mrp"
	"github.com/jhoicas/mrp-planner/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MaterialUC *usecase.MaterialUseCase
	Ledger     *inventory.LedgerUseCase
	Query      *mrp.QueryFacade
	Planner    *mrp.Planner
	Reports    *mrp.ReportUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	requirementHandler := NewRequirementHandler(deps.Query, deps.Reports)

	// Requirements (tablero de planeación)
	requirements := api.Group("/requirements")
	requirements.Get("/", requirementHandler.List)
	requirements.Get("/urgent", requirementHandler.Urgent)
	requirements.Get("/export", requirementHandler.Export)

	// Materials (solo lectura)
	materials := api.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Get("/:id/requirements", requirementHandler.ByMaterial)

	// Inventory ledger
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup.Get("/batches", inventoryHandler.ListBatches)
	invGroup.Post("/batches", inventoryHandler.CreateBatch)
	invGroup.Post("/batches/:id/quarantine", inventoryHandler.QuarantineBatch)
	invGroup.Post("/consumption", inventoryHandler.RecordConsumption)
	invGroup.Get("/materials/:id/balance", inventoryHandler.Balance)

	// Reorder suggestions
	reorder := api.Group("/reorder-suggestions")
	reorderHandler := NewReorderHandler(deps.Planner, deps.Reports)
	reorder.Get("/", reorderHandler.Suggestions)
	reorder.Get("/report", reorderHandler.Report)
}
