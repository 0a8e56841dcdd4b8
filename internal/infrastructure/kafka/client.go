// Package kafka integra el libro de inventario con el bus de eventos:
// consume los consumos reportados por las órdenes de producción y publica
// los movimientos confirmados.
package kafka

import (
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/jhoicas/mrp-planner/pkg/config"
)

func baseConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Version = sarama.V2_8_0_0
	return cfg
}

// NewConsumerGroup crea el consumer group de eventos de producción.
// Los offsets se confirman solo después de aplicar el consumo en el libro.
func NewConsumerGroup(cfg config.KafkaConfig, clientID string) (sarama.ConsumerGroup, error) {
	sc := baseConfig(clientID)
	sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	sc.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	sc.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, sc)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer group: %w", err)
	}
	return group, nil
}

// NewSyncProducer crea el productor síncrono de movimientos.
func NewSyncProducer(cfg config.KafkaConfig, clientID string) (sarama.SyncProducer, error) {
	sc := baseConfig(clientID)
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Retry.Backoff = 200 * time.Millisecond
	sc.Producer.Return.Successes = true

	p, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("kafka sync producer: %w", err)
	}
	return p, nil
}
