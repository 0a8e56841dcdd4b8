package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/inventory"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func batch(id string, qty int64, expiry *time.Time) *entity.InventoryBatch {
	return &entity.InventoryBatch{
		ID:          id,
		MaterialID:  "mat-1",
		BatchNumber: id,
		Quantity:    decimal.NewFromInt(qty),
		Status:      entity.BatchStatusAvailable,
		ExpiryDate:  expiry,
		ReceivedAt:  time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Caso: lotes [2024-01-01: 5, 2024-02-01: 10], consumo de 7 → primero se vacía el que vence antes.
func TestAllocateFEFO_VenceAntesSeConsumePrimero(t *testing.T) {
	// Orden de entrada invertido a propósito
	batches := []*entity.InventoryBatch{
		batch("feb", 10, date(2024, 2, 1)),
		batch("ene", 5, date(2024, 1, 1)),
	}

	allocs, err := inventory.AllocateFEFO(batches, decimal.NewFromInt(7))
	require.NoError(t, err)
	require.Len(t, allocs, 2)

	assert.Equal(t, "ene", allocs[0].BatchID)
	assert.True(t, allocs[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, allocs[0].Remaining.IsZero(), "el lote de enero debe quedar en cero")

	assert.Equal(t, "feb", allocs[1].BatchID)
	assert.True(t, allocs[1].Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, allocs[1].Remaining.Equal(decimal.NewFromInt(8)), "el lote de febrero debe quedar en 8")
}

func TestAllocateFEFO_SinVencimientoAlFinal(t *testing.T) {
	batches := []*entity.InventoryBatch{
		batch("sin-fecha", 10, nil),
		batch("mar", 3, date(2024, 3, 1)),
	}

	allocs, err := inventory.AllocateFEFO(batches, decimal.NewFromInt(4))
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, "mar", allocs[0].BatchID)
	assert.Equal(t, "sin-fecha", allocs[1].BatchID)
	assert.True(t, allocs[1].Remaining.Equal(decimal.NewFromInt(9)))
}

func TestAllocateFEFO_EmpateSeResuelvePorRecepcionYNumero(t *testing.T) {
	a := batch("B", 5, date(2024, 1, 1))
	b := batch("A", 5, date(2024, 1, 1))
	c := batch("C", 5, date(2024, 1, 1))
	c.ReceivedAt = c.ReceivedAt.Add(-time.Hour) // recibido antes

	allocs, err := inventory.AllocateFEFO([]*entity.InventoryBatch{a, b, c}, decimal.NewFromInt(15))
	require.NoError(t, err)
	require.Len(t, allocs, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{allocs[0].BatchID, allocs[1].BatchID, allocs[2].BatchID})
}

// Caso: el saldo no alcanza → error y ninguna asignación (todo o nada).
func TestAllocateFEFO_StockInsuficiente(t *testing.T) {
	batches := []*entity.InventoryBatch{
		batch("a", 5, date(2024, 1, 1)),
		batch("b", 10, date(2024, 2, 1)),
	}

	allocs, err := inventory.AllocateFEFO(batches, decimal.NewFromInt(16))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, allocs)
	assert.True(t, batches[0].Quantity.Equal(decimal.NewFromInt(5)), "no debe modificar los lotes recibidos")
}

func TestAllocateFEFO_IgnoraLotesNoDisponibles(t *testing.T) {
	q := batch("cuarentena", 100, date(2023, 1, 1))
	q.Status = entity.BatchStatusQuarantine
	r := batch("reservado", 100, date(2023, 1, 2))
	r.Status = entity.BatchStatusReserved
	ok := batch("ok", 4, date(2024, 1, 1))

	_, err := inventory.AllocateFEFO([]*entity.InventoryBatch{q, r, ok}, decimal.NewFromInt(5))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	allocs, err := inventory.AllocateFEFO([]*entity.InventoryBatch{q, r, ok}, decimal.NewFromInt(4))
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "ok", allocs[0].BatchID)
}

func TestAllocateFEFO_CantidadNoPositiva(t *testing.T) {
	_, err := inventory.AllocateFEFO([]*entity.InventoryBatch{batch("a", 5, nil)}, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAvailableBalance_SoloDisponibles(t *testing.T) {
	q := batch("q", 7, nil)
	q.Status = entity.BatchStatusQuarantine
	total := inventory.AvailableBalance([]*entity.InventoryBatch{batch("a", 5, nil), batch("b", 3, nil), q})
	assert.True(t, total.Equal(decimal.NewFromInt(8)))
}
