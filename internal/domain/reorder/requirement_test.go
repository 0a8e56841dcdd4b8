package reorder_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/reorder"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// Caso: saldo 100, punto de reorden 20, tasa 4/día → (100-20)/4 = 20 días.
func TestDaysUntilReorder_Basico(t *testing.T) {
	days, finite := reorder.DaysUntilReorder(d(100), d(20), d(4))
	require.True(t, finite)
	assert.True(t, days.Equal(d(20)), "got %s", days)
}

// Caso: tasa 0 → no aplica (infinito), sin división por cero.
func TestDaysUntilReorder_TasaCero(t *testing.T) {
	_, finite := reorder.DaysUntilReorder(d(100), d(20), decimal.Zero)
	assert.False(t, finite)

	res := reorder.Evaluate(reorder.Input{Balance: d(100), ReorderPoint: d(20), DailyRate: decimal.Zero, LeadTimeDays: 5, HorizonDays: 30})
	assert.Equal(t, entity.RequirementOK, res.Status)
	assert.Nil(t, res.DaysUntilReorder, "con tasa cero los días no aplican")
	assert.False(t, res.Immediate)
}

// Caso: saldo 0, punto de reorden 10, lead time 5 → urgent sin importar la tasa.
func TestEvaluate_UrgenteIndependienteDeLaTasa(t *testing.T) {
	for _, rate := range []decimal.Decimal{decimal.Zero, d(1), d(1000)} {
		res := reorder.Evaluate(reorder.Input{Balance: decimal.Zero, ReorderPoint: d(10), DailyRate: rate, LeadTimeDays: 5, HorizonDays: 30})
		assert.Equal(t, entity.RequirementUrgent, res.Status, "rate=%s", rate)
		assert.True(t, res.Immediate)
		require.NotNil(t, res.DaysUntilReorder)
		assert.True(t, res.DaysUntilReorder.IsZero(), "ya alcanzado se reporta como 0")
	}
}

func TestEvaluate_WarningCuandoNoAlcanzaElLeadTime(t *testing.T) {
	// (30-20)/2 = 5 días <= lead time 7
	res := reorder.Evaluate(reorder.Input{Balance: d(30), ReorderPoint: d(20), DailyRate: d(2), LeadTimeDays: 7, HorizonDays: 30})
	assert.Equal(t, entity.RequirementWarning, res.Status)
	require.NotNil(t, res.DaysUntilReorder)
	assert.True(t, res.DaysUntilReorder.Equal(d(5)))
	assert.False(t, res.Immediate)
}

func TestEvaluate_LimiteIgualAlLeadTimeEsWarning(t *testing.T) {
	res := reorder.Evaluate(reorder.Input{Balance: d(30), ReorderPoint: d(20), DailyRate: d(2), LeadTimeDays: 5, HorizonDays: 30})
	assert.Equal(t, entity.RequirementWarning, res.Status)
}

func TestEvaluate_SaldoIgualAlPuntoDeReordenEsUrgente(t *testing.T) {
	res := reorder.Evaluate(reorder.Input{Balance: d(20), ReorderPoint: d(20), DailyRate: d(2), LeadTimeDays: 5, HorizonDays: 30})
	assert.Equal(t, entity.RequirementUrgent, res.Status)
}

func TestEvaluate_DiasSeAcotanAlHorizonte(t *testing.T) {
	// (1000-20)/1 = 980 días, horizonte 30
	res := reorder.Evaluate(reorder.Input{Balance: d(1000), ReorderPoint: d(20), DailyRate: d(1), LeadTimeDays: 5, HorizonDays: 30})
	assert.Equal(t, entity.RequirementOK, res.Status)
	require.NotNil(t, res.DaysUntilReorder)
	assert.True(t, res.DaysUntilReorder.Equal(d(30)))
	assert.True(t, res.RawDays.Equal(d(980)), "el valor sin acotar se conserva")
}

func TestClampDays(t *testing.T) {
	assert.True(t, reorder.ClampDays(d(-3), 30).IsZero())
	assert.True(t, reorder.ClampDays(d(45), 30).Equal(d(30)))
	assert.True(t, reorder.ClampDays(decimal.RequireFromString("12.3456"), 30).Equal(decimal.RequireFromString("12.35")))
}

// Caso: MOQ 50, punto de reorden 20, saldo 5 → max(50, 15) = 50.
func TestSuggestedQuantity_NuncaMenorAlMOQ(t *testing.T) {
	qty := reorder.SuggestedQuantity(d(50), d(20), d(5), decimal.Zero)
	assert.True(t, qty.Equal(d(50)), "got %s", qty)
}

func TestSuggestedQuantity_ConColchonDeSeguridad(t *testing.T) {
	qty := reorder.SuggestedQuantity(d(10), d(100), d(5), d(15))
	assert.True(t, qty.Equal(d(110)), "got %s", qty)
}

func TestDailyRate(t *testing.T) {
	assert.True(t, reorder.DailyRate(d(120), 30).Equal(d(4)))
	assert.True(t, reorder.DailyRate(d(120), 0).IsZero())
}
