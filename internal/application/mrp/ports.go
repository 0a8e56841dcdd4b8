package mrp

import (
	"context"
	"time"

	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BalanceReader saldo disponible por material (lo implementa el libro de inventario).
type BalanceReader interface {
	CurrentBalance(ctx context.Context, materialID string) (decimal.Decimal, error)
}

// OpenOrderProvider consulta al servicio de compras las órdenes abiertas de un material.
type OpenOrderProvider interface {
	OpenOrders(ctx context.Context, materialID string) ([]entity.OpenOrderLine, error)
}

// ReportRenderer genera los documentos descargables (PDF de sugerencias y XLSX de requerimientos).
type ReportRenderer interface {
	SuggestionsPDF(ctx context.Context, res *PlanResult) ([]byte, error)
	RequirementsXLSX(ctx context.Context, reqs []*entity.MaterialRequirement, horizonDays int) ([]byte, error)
}

// Policy constantes de política de planeación (configurables, ver PLANNING_*).
type Policy struct {
	DefaultLookbackDays int
	DefaultDailyRate    decimal.Decimal // tasa cuando no hay historial suficiente
	SafetyBuffer        decimal.Decimal
	DefaultHorizonDays  int
	LookupTimeout       time.Duration // por consulta al servicio de compras
	Workers             int
}

// DefaultPolicy valores por defecto: sin colchón de seguridad ni tasa inventada.
func DefaultPolicy() Policy {
	return Policy{
		DefaultLookbackDays: 30,
		DefaultDailyRate:    decimal.Zero,
		SafetyBuffer:        decimal.Zero,
		DefaultHorizonDays:  30,
		LookupTimeout:       5 * time.Second,
		Workers:             8,
	}
}

func (p Policy) workers() int {
	if p.Workers <= 0 {
		return 1
	}
	return p.Workers
}
