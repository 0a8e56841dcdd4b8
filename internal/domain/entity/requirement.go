package entity

import "github.com/shopspring/decimal"

// Estados de un requerimiento de material.
const (
	RequirementUrgent  = "urgent"  // saldo en o bajo el punto de reorden
	RequirementWarning = "warning" // no alcanza a reponerse dentro del lead time
	RequirementOK      = "ok"
)

// MaterialRequirement proyección calculada en el momento de la consulta; nunca se persiste.
type MaterialRequirement struct {
	MaterialID    string
	Name          string
	Type          string
	Balance       decimal.Decimal
	ReorderPoint  decimal.Decimal
	MOQ           decimal.Decimal
	LeadTimeDays  int
	UnitPrice     decimal.Decimal
	DailyRate     decimal.Decimal
	LowConfidence bool // historial de consumo insuficiente; la tasa es la de política

	// DaysUntilReorder acotado a [0, horizonte]. nil cuando no aplica (tasa cero y saldo sobre el punto de reorden).
	DaysUntilReorder *decimal.Decimal
	Immediate        bool // el punto de reorden ya fue alcanzado
	HorizonDays      int
	Status           string
}
