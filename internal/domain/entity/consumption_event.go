package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumptionEvent registro inmutable de consumo de material por una orden de producción.
// Es la fuente de verdad para el pronóstico de demanda.
type ConsumptionEvent struct {
	ID              string
	MaterialID      string
	Quantity        decimal.Decimal
	ProductionRunID string
	IdempotencyKey  string // opcional; único cuando viene informado
	OccurredAt      time.Time
}

// BatchAllocation detalle de cuánto se descontó de cada lote en un consumo.
type BatchAllocation struct {
	EventID  string
	BatchID  string
	Quantity decimal.Decimal
}
