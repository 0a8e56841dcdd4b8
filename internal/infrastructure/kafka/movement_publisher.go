package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-planner/internal/application/inventory"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

var _ inventory.MovementNotifier = (*MovementPublisher)(nil)

// movementMessage formato publicado en el tópico de movimientos.
type movementMessage struct {
	Type            string          `json:"type"`
	MaterialID      string          `json:"material_id"`
	BatchID         string          `json:"batch_id,omitempty"`
	EventID         string          `json:"event_id,omitempty"`
	ProductionRunID string          `json:"production_run_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

// MovementPublisher publica cada movimiento confirmado, con el material como clave de partición.
// Un fallo de publicación se registra y no revierte el movimiento.
type MovementPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

// NewMovementPublisher construye el publicador.
func NewMovementPublisher(producer sarama.SyncProducer, topic string, log zerolog.Logger) *MovementPublisher {
	return &MovementPublisher{producer: producer, topic: topic, log: log}
}

// MovementRecorded implementa inventory.MovementNotifier.
func (p *MovementPublisher) MovementRecorded(_ context.Context, mov entity.LedgerMovement) {
	value, err := json.Marshal(movementMessage{
		Type:            mov.Type,
		MaterialID:      mov.MaterialID,
		BatchID:         mov.BatchID,
		EventID:         mov.EventID,
		ProductionRunID: mov.ProductionRunID,
		Quantity:        mov.Quantity,
		OccurredAt:      mov.OccurredAt,
	})
	if err != nil {
		p.log.Error().Err(err).Msg("serializar movimiento")
		return
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(mov.MaterialID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		p.log.Error().Err(err).Str("material_id", mov.MaterialID).Str("type", mov.Type).Msg("publicar movimiento")
		return
	}
	p.log.Debug().
		Str("topic", p.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("material_id", mov.MaterialID).
		Msg("movimiento publicado")
}
