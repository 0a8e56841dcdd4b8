package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/mrp-planner/internal/application/mrp"
	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

func TestFormatQuantity_SeparadoresEnEspanol(t *testing.T) {
	assert.Equal(t, "2.500.000,50", formatQuantity(decimal.RequireFromString("2500000.5")))
	assert.Equal(t, "$150,00", formatMoney(decimal.NewFromInt(150)))
	assert.Equal(t, "N/A", formatDays(nil))
}

func TestSuggestionsPDF_GeneraDocumento(t *testing.T) {
	suggestions := []entity.ReorderSuggestion{{
		MaterialID:    "mat-1",
		MaterialName:  "Harina",
		SuggestedQty:  decimal.NewFromInt(50),
		Status:        entity.RequirementUrgent,
		Balance:       decimal.NewFromInt(5),
		ReorderPoint:  decimal.NewFromInt(20),
		MOQ:           decimal.NewFromInt(50),
		UnitPrice:     decimal.NewFromInt(3),
		EstimatedCost: decimal.NewFromInt(150),
	}}
	failures := []failedMaterial{{MaterialID: "mat-x", Reason: "material no encontrado"}}

	out, err := suggestionsPDF(suggestions, failures, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestSuggestionsPDF_SinSugerencias(t *testing.T) {
	out, err := suggestionsPDF(nil, nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRequirementsXLSX_UnaFilaPorMaterial(t *testing.T) {
	days := decimal.RequireFromString("7.78")
	reqs := []*entity.MaterialRequirement{
		{MaterialID: "mat-1", Name: "Harina", Type: entity.MaterialTypeRaw, Balance: decimal.NewFromInt(100),
			ReorderPoint: decimal.NewFromInt(20), DailyRate: decimal.NewFromInt(4), DaysUntilReorder: &days, Status: entity.RequirementWarning},
		{MaterialID: "mat-2", Name: "Tornillo", Type: entity.MaterialTypeComponent, Balance: decimal.NewFromInt(9),
			Status: entity.RequirementOK},
	}

	out, err := requirementsXLSX(reqs, 30)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(requirementsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "material_id", rows[0][0])
	assert.Equal(t, "Harina", rows[1][1])
	assert.Equal(t, "7.78", rows[1][9])
	assert.Equal(t, "", rows[2][9], "sin tasa no hay días hasta reorden")
	assert.Equal(t, entity.RequirementOK, rows[2][11])
}

func TestRenderer_IncluyeFallosDelPlan(t *testing.T) {
	r := &Renderer{now: func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }}
	out, err := r.SuggestionsPDF(context.Background(), &mrp.PlanResult{
		Failures: []mrp.PlanFailure{{MaterialID: "mat-x", Err: domain.ErrNotFound}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
