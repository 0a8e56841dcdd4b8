package inventory

import (
	"sort"

	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Allocation porción que se descuenta de un lote en un consumo.
type Allocation struct {
	BatchID   string
	Quantity  decimal.Decimal // cantidad tomada del lote
	Remaining decimal.Decimal // saldo del lote después del descuento
}

// SortFEFO ordena los lotes First-Expired-First-Out (servicio de dominio):
// vencimiento más próximo primero, lotes sin vencimiento al final,
// empates por fecha de recepción y luego por número de lote.
func SortFEFO(batches []*entity.InventoryBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		switch {
		case a.ExpiryDate != nil && b.ExpiryDate == nil:
			return true
		case a.ExpiryDate == nil && b.ExpiryDate != nil:
			return false
		case a.ExpiryDate != nil && b.ExpiryDate != nil && !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
		if !a.ReceivedAt.Equal(b.ReceivedAt) {
			return a.ReceivedAt.Before(b.ReceivedAt)
		}
		return a.BatchNumber < b.BatchNumber
	})
}

// AvailableBalance suma la cantidad de los lotes en estado available.
func AvailableBalance(batches []*entity.InventoryBatch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		if b.Status == entity.BatchStatusAvailable {
			total = total.Add(b.Quantity)
		}
	}
	return total
}

// AllocateFEFO reparte qty entre los lotes disponibles en orden FEFO.
// Si el saldo disponible no alcanza devuelve ErrInsufficientStock y ninguna asignación:
// el descuento es todo o nada. No modifica los lotes recibidos.
func AllocateFEFO(batches []*entity.InventoryBatch, qty decimal.Decimal) ([]Allocation, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	candidates := make([]*entity.InventoryBatch, 0, len(batches))
	for _, b := range batches {
		if b.Status == entity.BatchStatusAvailable && b.Quantity.IsPositive() {
			candidates = append(candidates, b)
		}
	}
	if AvailableBalance(candidates).LessThan(qty) {
		return nil, domain.ErrInsufficientStock
	}
	SortFEFO(candidates)

	pending := qty
	allocations := make([]Allocation, 0, len(candidates))
	for _, b := range candidates {
		if !pending.IsPositive() {
			break
		}
		take := decimal.Min(b.Quantity, pending)
		allocations = append(allocations, Allocation{
			BatchID:   b.ID,
			Quantity:  take,
			Remaining: b.Quantity.Sub(take),
		})
		pending = pending.Sub(take)
	}
	return allocations, nil
}
