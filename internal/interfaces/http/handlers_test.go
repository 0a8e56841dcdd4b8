package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-planner/internal/application/dto"
	"github.com/jhoicas/mrp-planner/internal/application/inventory"
	"github.com/jhoicas/mrp-planner/internal/application/mrp"
	"github.com/jhoicas/mrp-planner/internal/application/usecase"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/infrastructure/memory"
	"github.com/jhoicas/mrp-planner/internal/infrastructure/report"
	apphttp "github.com/jhoicas/mrp-planner/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app    *fiber.App
	store  *memory.Store
	ledger *inventory.LedgerUseCase
}

// buildTestApp arma la API completa sobre el store en memoria, sin servicio de compras.
func buildTestApp(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	policy := mrp.DefaultPolicy()

	ledger := inventory.NewLedgerUseCase(store, store.Materials(), store.Batches(), store.Events())
	forecaster := mrp.NewForecaster(store.Materials(), store.Events(), policy)
	calc := mrp.NewCalculator(store.Materials(), ledger, forecaster, policy)
	query := mrp.NewQueryFacade(store.Materials(), calc, policy, mrp.CacheConfig{TTL: time.Minute, MaxEntries: 8})
	ledger.Subscribe(query)
	planner := mrp.NewPlanner(store.Materials(), calc, nil, policy, zerolog.Nop())

	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		MaterialUC: usecase.NewMaterialUseCase(store.Materials()),
		Ledger:     ledger,
		Query:      query,
		Planner:    planner,
		Reports:    mrp.NewReportUseCase(query, planner, report.NewRenderer()),
	})
	return &testAPI{app: app, store: store, ledger: ledger}
}

func (a *testAPI) material(t *testing.T, typ string, reorderPoint, moq int64) *entity.Material {
	t.Helper()
	m := &entity.Material{
		ID:           gofakeit.UUID(),
		Name:         gofakeit.ProductName(),
		Type:         typ,
		UnitPrice:    decimal.NewFromInt(3),
		MOQ:          decimal.NewFromInt(moq),
		LeadTimeDays: 5,
		ReorderPoint: decimal.NewFromInt(reorderPoint),
	}
	a.store.PutMaterial(m)
	return m
}

func (a *testAPI) do(t *testing.T, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

// Caso: recepción + consumo FEFO + saldo.
func TestInventory_RecepcionConsumoYSaldo(t *testing.T) {
	api := buildTestApp(t)
	m := api.material(t, entity.MaterialTypeRaw, 20, 50)

	resp := api.do(t, http.MethodPost, "/api/inventory/batches", map[string]any{
		"material_id": m.ID, "batch_number": "L-1", "quantity": 30, "location": "A-01",
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	batch := decode[dto.BatchResponse](t, resp)
	assert.Equal(t, entity.BatchStatusAvailable, batch.Status)

	resp = api.do(t, http.MethodPost, "/api/inventory/consumption", map[string]any{
		"material_id": m.ID, "quantity": "12", "production_run_id": "run-1",
	}, map[string]string{"Idempotency-Key": "k-1"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	cons := decode[dto.ConsumptionResponse](t, resp)
	require.Len(t, cons.Allocations, 1)
	assert.Equal(t, batch.ID, cons.Allocations[0].BatchID)

	resp = api.do(t, http.MethodGet, "/api/inventory/materials/"+m.ID+"/balance", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	bal := decode[dto.BalanceResponse](t, resp)
	assert.True(t, bal.Balance.Equal(decimal.NewFromInt(18)), "saldo esperado 18, obtenido %s", bal.Balance)
}

// Caso: vencimiento solo fecha o RFC3339; ambos quedan como fecha y ordenan FEFO.
func TestInventory_VencimientoSoloFecha(t *testing.T) {
	api := buildTestApp(t)
	m := api.material(t, entity.MaterialTypeRaw, 5, 10)

	resp := api.do(t, http.MethodPost, "/api/inventory/batches", map[string]any{
		"material_id": m.ID, "batch_number": "FEB", "quantity": 10, "expiry_date": "2024-02-01",
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var raw map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Equal(t, "2024-02-01", raw["expiry_date"])

	resp = api.do(t, http.MethodPost, "/api/inventory/batches", map[string]any{
		"material_id": m.ID, "batch_number": "JAN", "quantity": 5, "expiry_date": "2024-01-01T18:30:00-05:00",
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	jan := decode[dto.BatchResponse](t, resp)
	require.NotNil(t, jan.ExpiryDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), jan.ExpiryDate.Time)

	resp = api.do(t, http.MethodPost, "/api/inventory/consumption", map[string]any{
		"material_id": m.ID, "quantity": 5, "production_run_id": "run-1",
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	cons := decode[dto.ConsumptionResponse](t, resp)
	require.Len(t, cons.Allocations, 1)
	assert.Equal(t, jan.ID, cons.Allocations[0].BatchID, "vence primero, se consume primero")

	resp = api.do(t, http.MethodPost, "/api/inventory/batches", map[string]any{
		"material_id": m.ID, "batch_number": "X", "quantity": 1, "expiry_date": "01/02/2024",
	}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// Caso: misma Idempotency-Key → 200 con el evento original, sin descontar de nuevo.
func TestInventory_ConsumoIdempotente(t *testing.T) {
	api := buildTestApp(t)
	m := api.material(t, entity.MaterialTypeRaw, 5, 10)
	api.do(t, http.MethodPost, "/api/inventory/batches", map[string]any{
		"material_id": m.ID, "batch_number": "L-1", "quantity": 10,
	}, nil)

	body := map[string]any{"material_id": m.ID, "quantity": 4, "production_run_id": "run-1"}
	first := api.do(t, http.MethodPost, "/api/inventory/consumption", body, map[string]string{"Idempotency-Key": "dup"})
	require.Equal(t, fiber.StatusCreated, first.StatusCode)
	second := api.do(t, http.MethodPost, "/api/inventory/consumption", body, map[string]string{"Idempotency-Key": "dup"})
	require.Equal(t, fiber.StatusOK, second.StatusCode)
	assert.True(t, decode[dto.ConsumptionResponse](t, second).Replayed)

	bal, err := api.ledger.CurrentBalance(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(6)))
}

// Caso: consumo mayor al saldo → 409 INSUFFICIENT_STOCK.
func TestInventory_StockInsuficiente(t *testing.T) {
	api := buildTestApp(t)
	m := api.material(t, entity.MaterialTypeRaw, 5, 10)

	resp := api.do(t, http.MethodPost, "/api/inventory/consumption", map[string]any{
		"material_id": m.ID, "quantity": 1, "production_run_id": "run-1",
	}, nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)
}

// Caso: errores de validación y recursos inexistentes.
func TestInventory_ValidacionesYNoEncontrado(t *testing.T) {
	api := buildTestApp(t)

	resp := api.do(t, http.MethodPost, "/api/inventory/batches", map[string]any{"batch_number": "L-1", "quantity": 1}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/inventory/batches", map[string]any{
		"material_id": "no-existe", "batch_number": "L-1", "quantity": 1,
	}, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/inventory/batches", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/inventory/batches/no-existe/quarantine", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// Caso: cuarentena saca el lote del saldo; repetirla es conflicto.
func TestInventory_Cuarentena(t *testing.T) {
	api := buildTestApp(t)
	m := api.material(t, entity.MaterialTypeRaw, 5, 10)
	resp := api.do(t, http.MethodPost, "/api/inventory/batches", map[string]any{
		"material_id": m.ID, "batch_number": "L-1", "quantity": 10,
	}, nil)
	batch := decode[dto.BatchResponse](t, resp)

	resp = api.do(t, http.MethodPost, "/api/inventory/batches/"+batch.ID+"/quarantine", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.BatchStatusQuarantine, decode[dto.BatchResponse](t, resp).Status)

	resp = api.do(t, http.MethodPost, "/api/inventory/batches/"+batch.ID+"/quarantine", nil, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/inventory/batches?material_id="+m.ID, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.BatchListResponse](t, resp).Items, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Requerimientos y sugerencias
// ──────────────────────────────────────────────────────────────────────────────

// Caso: saldo cero → urgent; tasa cero → days_until_reorder null cuando hay saldo.
func TestRequirements_ListadoYUrgentes(t *testing.T) {
	api := buildTestApp(t)
	urgent := api.material(t, entity.MaterialTypeRaw, 20, 50)
	ok := api.material(t, entity.MaterialTypeComponent, 5, 10)
	_, err := api.ledger.RecordReceipt(context.Background(), inventory.ReceiptInput{
		MaterialID: ok.ID, BatchNumber: "L-1", Quantity: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	resp := api.do(t, http.MethodGet, "/api/requirements?horizon_days=15", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.RequirementListResponse](t, resp)
	assert.Equal(t, 15, list.HorizonDays)
	require.Len(t, list.Items, 2)

	resp = api.do(t, http.MethodGet, "/api/requirements/urgent", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	urgentList := decode[dto.RequirementListResponse](t, resp)
	require.Len(t, urgentList.Items, 1)
	assert.Equal(t, urgent.ID, urgentList.Items[0].MaterialID)

	resp = api.do(t, http.MethodGet, "/api/materials/"+ok.ID+"/requirements?days=10", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `"days_until_reorder":null`)
	assert.Contains(t, string(raw), `"status":"ok"`)
	assert.Contains(t, string(raw), `"current_inventory":"100"`, "campo que lee el tablero MRP")
}

func TestRequirements_HorizonteYTipoInvalidos(t *testing.T) {
	api := buildTestApp(t)

	for _, path := range []string{
		"/api/requirements?horizon_days=0",
		"/api/requirements?horizon_days=abc",
		"/api/requirements?type=liquido",
		"/api/materials?type=liquido",
	} {
		resp := api.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, path)
	}

	resp := api.do(t, http.MethodGet, "/api/materials/no-existe/requirements", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// Caso: sugerencia respeta MOQ y el material inexistente va a failures.
func TestReorderSuggestions_SugerenciasYFallos(t *testing.T) {
	api := buildTestApp(t)
	m := api.material(t, entity.MaterialTypeRaw, 20, 50)

	resp := api.do(t, http.MethodGet, "/api/reorder-suggestions?material_ids="+m.ID+",no-existe", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	plan := decode[dto.ReorderPlanResponse](t, resp)

	require.Len(t, plan.Suggestions, 1)
	assert.True(t, plan.Suggestions[0].SuggestedQty.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, entity.RationaleBelowReorderPoint, plan.Suggestions[0].Rationale)
	require.Len(t, plan.Failures, 1)
	assert.Equal(t, "NOT_FOUND", plan.Failures[0].Code)
}

func TestReportes_PDFyXLSX(t *testing.T) {
	api := buildTestApp(t)
	api.material(t, entity.MaterialTypeRaw, 20, 50)

	resp := api.do(t, http.MethodGet, "/api/reorder-suggestions/report", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp = api.do(t, http.MethodGet, "/api/requirements/export?horizon_days=30", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}

func TestMaterials_ListarYObtener(t *testing.T) {
	api := buildTestApp(t)
	m := api.material(t, entity.MaterialTypeFinished, 1, 1)

	resp := api.do(t, http.MethodGet, "/api/materials?type=finished", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.MaterialListResponse](t, resp)
	assert.Equal(t, 1, list.Page.Total)
	assert.Equal(t, dto.DefaultPageLimit, list.Page.Limit)

	resp = api.do(t, http.MethodGet, "/api/materials/"+m.ID, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, m.Name, decode[dto.MaterialResponse](t, resp).Name)

	resp = api.do(t, http.MethodGet, "/api/materials/no-existe", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// Caso: limit/offset recortan la página; total sigue contando todos los materiales.
func TestMaterials_Paginacion(t *testing.T) {
	api := buildTestApp(t)
	for i := 0; i < 5; i++ {
		api.material(t, entity.MaterialTypeRaw, 1, 1)
	}

	resp := api.do(t, http.MethodGet, "/api/materials?limit=2&offset=1", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.MaterialListResponse](t, resp)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, dto.PageResponse{Limit: 2, Offset: 1, Total: 5}, list.Page)

	resp = api.do(t, http.MethodGet, "/api/materials?offset=4&limit=500", nil, nil)
	list = decode[dto.MaterialListResponse](t, resp)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, dto.MaxPageLimit, list.Page.Limit)

	resp = api.do(t, http.MethodGet, "/api/materials?offset=10", nil, nil)
	assert.Empty(t, decode[dto.MaterialListResponse](t, resp).Items)
}
