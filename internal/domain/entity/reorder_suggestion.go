package entity

import "github.com/shopspring/decimal"

// Motivos de una sugerencia de reposición.
const (
	RationaleBelowReorderPoint = "below_reorder_point"
	RationaleLeadTimeBreach    = "lead_time_breach"
)

// ReorderSuggestion línea sugerida de orden de compra para un material.
type ReorderSuggestion struct {
	MaterialID    string
	MaterialName  string
	SuggestedQty  decimal.Decimal // siempre >= MOQ
	Rationale     string
	Message       string
	Status        string
	Balance       decimal.Decimal
	ReorderPoint  decimal.Decimal
	MOQ           decimal.Decimal
	OpenOrderQty  decimal.Decimal
	UnitPrice     decimal.Decimal
	EstimatedCost decimal.Decimal
	LeadTimeDays  int
	LowConfidence bool
}
