package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento confirmados por el libro de inventario.
const (
	MovementReceipt     = "receipt"
	MovementConsumption = "consumption"
	MovementQuarantine  = "quarantine"
)

// LedgerMovement notificación de un movimiento ya confirmado (después del commit).
type LedgerMovement struct {
	Type            string
	MaterialID      string
	BatchID         string // vacío en consumos que tocan varios lotes
	EventID         string
	ProductionRunID string
	Quantity        decimal.Decimal
	OccurredAt      time.Time
}
