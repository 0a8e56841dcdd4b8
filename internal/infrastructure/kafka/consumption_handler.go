package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-planner/internal/application/inventory"
	"github.com/jhoicas/mrp-planner/internal/domain"
)

// ConsumptionRecorder puerto del libro que aplica un consumo.
type ConsumptionRecorder interface {
	RecordConsumption(ctx context.Context, in inventory.ConsumptionInput) (*inventory.ConsumptionResult, error)
}

// ConsumptionEvent mensaje publicado por el servicio de órdenes de producción.
type ConsumptionEvent struct {
	EventID         string          `json:"event_id"`
	MaterialID      string          `json:"material_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	ProductionRunID string          `json:"production_run_id"`
	OccurredAt      *time.Time      `json:"occurred_at,omitempty"`
}

// ConsumptionHandler aplica cada evento de producción en el libro usando event_id como clave de idempotencia.
type ConsumptionHandler struct {
	ledger ConsumptionRecorder
	log    zerolog.Logger
}

// NewConsumptionHandler construye el handler.
func NewConsumptionHandler(ledger ConsumptionRecorder, log zerolog.Logger) *ConsumptionHandler {
	return &ConsumptionHandler{ledger: ledger, log: log}
}

// Handle implementa MessageHandler.
// Los rechazos de negocio (validación, material desconocido, stock insuficiente, conflicto)
// se registran y el mensaje se da por procesado: reintentarlo no cambia el resultado.
// Los errores de infraestructura se devuelven para no confirmar el offset.
func (h *ConsumptionHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var ev ConsumptionEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		h.log.Warn().Err(err).Int64("offset", msg.Offset).Msg("evento de consumo malformado, se descarta")
		return nil
	}
	if ev.EventID == "" {
		h.log.Warn().Int64("offset", msg.Offset).Str("material_id", ev.MaterialID).Msg("evento de consumo sin event_id, se descarta")
		return nil
	}

	res, err := h.ledger.RecordConsumption(ctx, inventory.ConsumptionInput{
		MaterialID:      ev.MaterialID,
		Quantity:        ev.Quantity,
		ProductionRunID: ev.ProductionRunID,
		IdempotencyKey:  ev.EventID,
		OccurredAt:      ev.OccurredAt,
	})
	if err != nil {
		if isBusinessRejection(err) {
			h.log.Warn().Err(err).
				Str("event_id", ev.EventID).
				Str("material_id", ev.MaterialID).
				Str("production_run_id", ev.ProductionRunID).
				Msg("consumo rechazado")
			return nil
		}
		return fmt.Errorf("registrar consumo %s: %w", ev.EventID, err)
	}

	h.log.Debug().
		Str("event_id", ev.EventID).
		Str("material_id", ev.MaterialID).
		Bool("replayed", res.Replayed).
		Int("batches", len(res.Allocations)).
		Msg("consumo aplicado")
	return nil
}

func isBusinessRejection(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrConflict)
}
