package mrp

import (
	"context"

	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/reorder"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
)

// Calculator arma el requerimiento de un material: saldo del libro, tasa pronosticada
// y la política del material. Es el único punto donde se clasifica urgent/warning/ok.
type Calculator struct {
	materialRepo repository.MaterialRepository
	balances     BalanceReader
	forecaster   *Forecaster
	lookbackDays int
}

// NewCalculator construye el calculador.
func NewCalculator(
	materialRepo repository.MaterialRepository,
	balances BalanceReader,
	forecaster *Forecaster,
	policy Policy,
) *Calculator {
	lookback := policy.DefaultLookbackDays
	if lookback <= 0 {
		lookback = DefaultPolicy().DefaultLookbackDays
	}
	return &Calculator{
		materialRepo: materialRepo,
		balances:     balances,
		forecaster:   forecaster,
		lookbackDays: lookback,
	}
}

// ComputeRequirement requerimiento del material para el horizonte de planeación (días > 0).
func (c *Calculator) ComputeRequirement(ctx context.Context, materialID string, horizonDays int) (*entity.MaterialRequirement, error) {
	if horizonDays <= 0 || materialID == "" {
		return nil, domain.ErrInvalidInput
	}
	m, err := c.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return c.compute(ctx, m, horizonDays)
}

func (c *Calculator) compute(ctx context.Context, m *entity.Material, horizonDays int) (*entity.MaterialRequirement, error) {
	balance, err := c.balances.CurrentBalance(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	fc, err := c.forecaster.forecast(ctx, m.ID, c.lookbackDays)
	if err != nil {
		return nil, err
	}

	res := reorder.Evaluate(reorder.Input{
		Balance:      balance,
		ReorderPoint: m.ReorderPoint,
		DailyRate:    fc.Rate,
		LeadTimeDays: m.LeadTimeDays,
		HorizonDays:  horizonDays,
	})
	return &entity.MaterialRequirement{
		MaterialID:       m.ID,
		Name:             m.Name,
		Type:             m.Type,
		Balance:          balance,
		ReorderPoint:     m.ReorderPoint,
		MOQ:              m.MOQ,
		LeadTimeDays:     m.LeadTimeDays,
		UnitPrice:        m.UnitPrice,
		DailyRate:        fc.Rate,
		LowConfidence:    fc.LowConfidence,
		DaysUntilReorder: res.DaysUntilReorder,
		Immediate:        res.Immediate,
		HorizonDays:      horizonDays,
		Status:           res.Status,
	}, nil
}
