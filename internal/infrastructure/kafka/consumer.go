package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// MessageHandler procesa el valor de un mensaje. Un error deja el offset sin confirmar
// y el mismo mensaje se reintenta; los mensajes siguientes de la partición esperan.
type MessageHandler func(ctx context.Context, msg *sarama.ConsumerMessage) error

// Consumer lee un conjunto de tópicos con un consumer group y delega cada mensaje al handler.
type Consumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	handler MessageHandler
	log     zerolog.Logger
}

// NewConsumer construye el consumidor.
func NewConsumer(group sarama.ConsumerGroup, topics []string, handler MessageHandler, log zerolog.Logger) *Consumer {
	return &Consumer{group: group, topics: topics, handler: handler, log: log}
}

// Run bloquea hasta que ctx se cancele o el group se cierre.
// group.Consume retorna en cada rebalanceo, por eso se invoca en bucle.
func (c *Consumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.log.Error().Err(err).Msg("kafka: error del consumer group")
		}
	}()

	gh := newGroupHandler(c.handler, c.log)
	for {
		if err := c.group.Consume(ctx, c.topics, gh); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		c.log.Info().Strs("topics", c.topics).Msg("kafka: rebalanceo del consumer group")
	}
}

const (
	retryInitialDelay = 200 * time.Millisecond
	retryMaxDelay     = 10 * time.Second
)

// groupHandler implementa sarama.ConsumerGroupHandler.
// Los offsets son acumulativos: un mensaje fallido no se salta, se reintenta hasta
// procesarlo o hasta que termine la sesión (rebalanceo o apagado).
type groupHandler struct {
	handler    MessageHandler
	log        zerolog.Logger
	firstDelay time.Duration
	maxDelay   time.Duration
}

func newGroupHandler(handler MessageHandler, log zerolog.Logger) *groupHandler {
	return &groupHandler{handler: handler, log: log, firstDelay: retryInitialDelay, maxDelay: retryMaxDelay}
}

func (g *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (g *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (g *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if !g.process(session.Context(), msg) {
				// Sesión terminada sin procesar: el offset queda sin confirmar y se relee.
				return nil
			}
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// process reintenta con backoff exponencial. Devuelve false si ctx termina antes de lograrlo.
func (g *groupHandler) process(ctx context.Context, msg *sarama.ConsumerMessage) bool {
	delay := g.firstDelay
	for attempt := 1; ; attempt++ {
		err := g.handler(ctx, msg)
		if err == nil {
			return true
		}
		g.log.Error().Err(err).
			Str("topic", msg.Topic).
			Int32("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("kafka: mensaje no procesado, se reintenta")

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return false
		case <-t.C:
		}
		if delay *= 2; delay > g.maxDelay {
			delay = g.maxDelay
		}
	}
}
