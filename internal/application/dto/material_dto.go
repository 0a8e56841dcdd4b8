package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialResponse salida de un material (solo lectura).
type MaterialResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	MOQ          decimal.Decimal `json:"moq"`
	LeadTimeDays int             `json:"lead_time_days"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MaterialListResponse lista paginada de materiales.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
