package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de orden de compra que ya no aportan cantidad pendiente.
const (
	PurchaseOrderReceived  = "received"
	PurchaseOrderCancelled = "cancelled"
	PurchaseOrderClosed    = "closed"
)

// OpenOrderLine cantidad pendiente de recibir de un material en una orden de compra abierta.
// Lo entrega el servicio de compras (colaborador externo).
type OpenOrderLine struct {
	PurchaseOrderID  string
	PONumber         string
	MaterialID       string
	PendingQuantity  decimal.Decimal
	ExpectedDelivery *time.Time
}
