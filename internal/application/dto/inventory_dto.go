package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest body para POST /api/inventory/batches.
type CreateBatchRequest struct {
	MaterialID  string          `json:"material_id" validate:"required"`
	BatchNumber string          `json:"batch_number" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Location    string          `json:"location"`
	ExpiryDate  *Date           `json:"expiry_date,omitempty" swaggertype:"string" format:"date"`
}

// BatchResponse salida de un lote de inventario.
type BatchResponse struct {
	ID          string          `json:"id"`
	MaterialID  string          `json:"material_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	Location    string          `json:"location"`
	Status      string          `json:"status"`
	ExpiryDate  *Date           `json:"expiry_date,omitempty" swaggertype:"string" format:"date"`
	ReceivedAt  time.Time       `json:"received_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BatchListResponse lotes de un material.
type BatchListResponse struct {
	MaterialID string          `json:"material_id"`
	Items      []BatchResponse `json:"items"`
}

// ConsumptionRequest body para POST /api/inventory/consumption.
// La clave de idempotencia también puede venir en el header Idempotency-Key.
type ConsumptionRequest struct {
	MaterialID      string          `json:"material_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	ProductionRunID string          `json:"production_run_id" validate:"required"`
	IdempotencyKey  string          `json:"idempotency_key,omitempty"`
	OccurredAt      *time.Time      `json:"occurred_at,omitempty"`
}

// AllocationResponse cantidad descontada de un lote.
type AllocationResponse struct {
	BatchID  string          `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ConsumptionResponse evento registrado (o repetido por idempotencia).
type ConsumptionResponse struct {
	ID              string               `json:"id"`
	MaterialID      string               `json:"material_id"`
	Quantity        decimal.Decimal      `json:"quantity"`
	ProductionRunID string               `json:"production_run_id"`
	IdempotencyKey  string               `json:"idempotency_key,omitempty"`
	OccurredAt      time.Time            `json:"occurred_at"`
	Allocations     []AllocationResponse `json:"allocations"`
	Replayed        bool                 `json:"replayed"`
}

// BalanceResponse saldo disponible de un material.
type BalanceResponse struct {
	MaterialID string          `json:"material_id"`
	Balance    decimal.Decimal `json:"balance"`
}
