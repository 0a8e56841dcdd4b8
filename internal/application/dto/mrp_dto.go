package dto

import "github.com/shopspring/decimal"

// RequirementResponse proyección de requerimiento de un material para el horizonte pedido.
// DaysUntilReorder es null cuando la tasa de consumo es cero (no aplica).
// current_inventory es el saldo disponible (nombre que usa el tablero MRP).
type RequirementResponse struct {
	MaterialID       string           `json:"material_id"`
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	CurrentBalance   decimal.Decimal  `json:"current_inventory"`
	ReorderPoint     decimal.Decimal  `json:"reorder_point"`
	MOQ              decimal.Decimal  `json:"moq"`
	LeadTimeDays     int              `json:"lead_time_days"`
	DailyRate        decimal.Decimal  `json:"daily_rate"`
	LowConfidence    bool             `json:"low_confidence"`
	DaysUntilReorder *decimal.Decimal `json:"days_until_reorder"`
	Immediate        bool             `json:"immediate"`
	Status           string           `json:"status"`
}

// RequirementListResponse requerimientos para un horizonte de planeación.
type RequirementListResponse struct {
	HorizonDays int                   `json:"horizon_days"`
	Type        string                `json:"type,omitempty"`
	Items       []RequirementResponse `json:"items"`
}

// ReorderSuggestionResponse línea sugerida de orden de compra.
type ReorderSuggestionResponse struct {
	MaterialID    string          `json:"material_id"`
	MaterialName  string          `json:"material_name"`
	SuggestedQty  decimal.Decimal `json:"suggested_qty"`
	Rationale     string          `json:"rationale"`
	Message       string          `json:"message"`
	Status        string          `json:"status"`
	Balance       decimal.Decimal `json:"balance"`
	ReorderPoint  decimal.Decimal `json:"reorder_point"`
	MOQ           decimal.Decimal `json:"moq"`
	OpenOrderQty  decimal.Decimal `json:"open_order_qty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	LeadTimeDays  int             `json:"lead_time_days"`
	LowConfidence bool            `json:"low_confidence"`
}

// PlanFailureResponse material que no se pudo planear (el resto del lote sí se procesa).
type PlanFailureResponse struct {
	MaterialID string `json:"material_id"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// ReorderPlanResponse sugerencias y fallos parciales.
type ReorderPlanResponse struct {
	Suggestions []ReorderSuggestionResponse `json:"suggestions"`
	Failures    []PlanFailureResponse       `json:"failures"`
}
