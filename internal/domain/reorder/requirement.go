// Package reorder contiene la aritmética de planificación de requerimientos (servicio de dominio puro):
// tasa de consumo, días hasta el punto de reorden, clasificación y cantidad sugerida.
// Es el único lugar donde vive esta política; ningún consumidor debe recalcularla.
package reorder

import (
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Input datos de un material para evaluar su requerimiento.
type Input struct {
	Balance      decimal.Decimal
	ReorderPoint decimal.Decimal
	DailyRate    decimal.Decimal
	LeadTimeDays int
	HorizonDays  int
}

// Result evaluación de un material.
type Result struct {
	Status string
	// RawDays días sin acotar hasta el punto de reorden; solo válido si Finite.
	RawDays decimal.Decimal
	Finite  bool
	// DaysUntilReorder valor para mostrar, acotado a [0, HorizonDays]; nil si no aplica.
	DaysUntilReorder *decimal.Decimal
	Immediate        bool
}

// DailyRate promedio móvil simple: total consumido / días de la ventana.
func DailyRate(total decimal.Decimal, lookbackDays int) decimal.Decimal {
	if lookbackDays <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(lookbackDays)))
}

// DaysUntilReorder = (saldo - punto de reorden) / tasa. Con tasa cero (o negativa) es infinito y finite=false.
func DaysUntilReorder(balance, reorderPoint, rate decimal.Decimal) (days decimal.Decimal, finite bool) {
	if !rate.IsPositive() {
		return decimal.Zero, false
	}
	return balance.Sub(reorderPoint).Div(rate), true
}

// Evaluate aplica el orden fijo de verificaciones: urgent (saldo <= punto de reorden)
// antes que warning (días hasta reorden <= lead time), luego ok.
// La urgencia no depende de la tasa, así que una tasa cero nunca la oculta.
func Evaluate(in Input) Result {
	days, finite := DaysUntilReorder(in.Balance, in.ReorderPoint, in.DailyRate)
	res := Result{RawDays: days, Finite: finite}

	switch {
	case in.Balance.LessThanOrEqual(in.ReorderPoint):
		res.Status = entity.RequirementUrgent
		res.Immediate = true
	case finite && days.LessThanOrEqual(decimal.NewFromInt(int64(in.LeadTimeDays))):
		res.Status = entity.RequirementWarning
	default:
		res.Status = entity.RequirementOK
	}

	switch {
	case res.Immediate:
		zero := decimal.Zero
		res.DaysUntilReorder = &zero
	case finite:
		clamped := ClampDays(days, in.HorizonDays)
		res.DaysUntilReorder = &clamped
	}
	return res
}

// ClampDays acota días a [0, horizon] para presentación; negativos se reportan como 0.
func ClampDays(days decimal.Decimal, horizon int) decimal.Decimal {
	if days.IsNegative() {
		return decimal.Zero
	}
	h := decimal.NewFromInt(int64(horizon))
	if horizon >= 0 && days.GreaterThan(h) {
		return h
	}
	return days.Round(2)
}

// SuggestedQuantity = max(MOQ, punto de reorden - saldo + colchón de seguridad).
func SuggestedQuantity(moq, reorderPoint, balance, safetyBuffer decimal.Decimal) decimal.Decimal {
	return decimal.Max(moq, reorderPoint.Sub(balance).Add(safetyBuffer))
}
