package mrp

import (
	"context"
	"time"

	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/reorder"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// minEventsForConfidence con menos eventos en la ventana se usa la tasa de política.
const minEventsForConfidence = 2

// Forecast tasa diaria estimada de consumo de un material.
type Forecast struct {
	MaterialID    string
	LookbackDays  int
	Rate          decimal.Decimal
	LowConfidence bool
	Events        int
	Consumed      decimal.Decimal
}

// Forecaster promedio móvil simple sobre los eventos de consumo.
type Forecaster struct {
	materialRepo repository.MaterialRepository
	eventRepo    repository.ConsumptionEventRepository
	defaultRate  decimal.Decimal
	now          func() time.Time
}

// NewForecaster construye el pronosticador con la tasa por defecto de la política.
func NewForecaster(
	materialRepo repository.MaterialRepository,
	eventRepo repository.ConsumptionEventRepository,
	policy Policy,
) *Forecaster {
	return &Forecaster{
		materialRepo: materialRepo,
		eventRepo:    eventRepo,
		defaultRate:  policy.DefaultDailyRate,
		now:          time.Now,
	}
}

// ForecastDailyRate consumo total en [now-lookback, now] dividido por lookback días.
// Con menos de dos eventos devuelve la tasa por defecto marcada como LowConfidence.
func (f *Forecaster) ForecastDailyRate(ctx context.Context, materialID string, lookbackDays int) (*Forecast, error) {
	if lookbackDays <= 0 || materialID == "" {
		return nil, domain.ErrInvalidInput
	}
	m, err := f.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return f.forecast(ctx, materialID, lookbackDays)
}

func (f *Forecaster) forecast(ctx context.Context, materialID string, lookbackDays int) (*Forecast, error) {
	to := f.now()
	from := to.AddDate(0, 0, -lookbackDays)
	events, err := f.eventRepo.ListSince(ctx, materialID, from, to)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, e := range events {
		total = total.Add(e.Quantity)
	}
	fc := &Forecast{
		MaterialID:   materialID,
		LookbackDays: lookbackDays,
		Events:       len(events),
		Consumed:     total,
	}
	if len(events) < minEventsForConfidence {
		fc.Rate = f.defaultRate
		fc.LowConfidence = true
		return fc, nil
	}
	fc.Rate = reorder.DailyRate(total, lookbackDays)
	return fc, nil
}
