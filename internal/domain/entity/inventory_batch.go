package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote de inventario.
const (
	BatchStatusAvailable  = "available"
	BatchStatusReserved   = "reserved"
	BatchStatusQuarantine = "quarantine"
	BatchStatusConsumed   = "consumed" // terminal: cantidad en cero
)

// InventoryBatch representa un lote recibido de un material (recepción de compra o salida de producción).
// Solo los lotes "available" cuentan para el saldo disponible.
type InventoryBatch struct {
	ID          string
	MaterialID  string
	BatchNumber string
	Quantity    decimal.Decimal // nunca negativa
	Location    string
	Status      string
	ExpiryDate  *time.Time // solo fecha, medianoche UTC
	ReceivedAt  time.Time
	UpdatedAt   time.Time
}

// IsTerminal indica si el lote ya no puede cambiar de estado.
func (b *InventoryBatch) IsTerminal() bool {
	return b.Status == BatchStatusConsumed || b.Status == BatchStatusQuarantine
}

// DateOnly normaliza a la medianoche UTC del día calendario de t (columna DATE).
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
