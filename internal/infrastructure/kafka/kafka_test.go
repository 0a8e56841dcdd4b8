package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-planner/internal/application/inventory"
	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mocks
// ──────────────────────────────────────────────────────────────────────────────

type mockLedger struct{ mock.Mock }

func (m *mockLedger) RecordConsumption(ctx context.Context, in inventory.ConsumptionInput) (*inventory.ConsumptionResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*inventory.ConsumptionResult)
	return res, args.Error(1)
}

func message(t *testing.T, v any) *sarama.ConsumerMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: "production.consumption", Value: b, Offset: 7}
}

// ──────────────────────────────────────────────────────────────────────────────
// ConsumptionHandler
// ──────────────────────────────────────────────────────────────────────────────

func TestConsumptionHandler_UsaEventIDComoClave(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("RecordConsumption", mock.Anything, mock.MatchedBy(func(in inventory.ConsumptionInput) bool {
		return in.IdempotencyKey == "ev-1" &&
			in.MaterialID == "mat-1" &&
			in.ProductionRunID == "run-9" &&
			in.Quantity.Equal(decimal.NewFromInt(7))
	})).Return(&inventory.ConsumptionResult{Event: &entity.ConsumptionEvent{ID: "x"}}, nil).Once()

	h := NewConsumptionHandler(ledger, zerolog.Nop())
	err := h.Handle(context.Background(), message(t, ConsumptionEvent{
		EventID: "ev-1", MaterialID: "mat-1", Quantity: decimal.NewFromInt(7), ProductionRunID: "run-9",
	}))

	require.NoError(t, err)
	ledger.AssertExpectations(t)
}

func TestConsumptionHandler_RechazoDeNegocioConfirmaOffset(t *testing.T) {
	// Caso: stock insuficiente. Reintentar no cambia el resultado, el mensaje se da por procesado.
	ledger := &mockLedger{}
	ledger.On("RecordConsumption", mock.Anything, mock.Anything).Return(nil, domain.ErrInsufficientStock).Once()

	h := NewConsumptionHandler(ledger, zerolog.Nop())
	err := h.Handle(context.Background(), message(t, ConsumptionEvent{
		EventID: "ev-2", MaterialID: "mat-1", Quantity: decimal.NewFromInt(999), ProductionRunID: "run-9",
	}))
	assert.NoError(t, err)
}

func TestConsumptionHandler_ErrorDeInfraestructuraNoConfirma(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("RecordConsumption", mock.Anything, mock.Anything).Return(nil, errors.New("conexión perdida")).Once()

	h := NewConsumptionHandler(ledger, zerolog.Nop())
	err := h.Handle(context.Background(), message(t, ConsumptionEvent{
		EventID: "ev-3", MaterialID: "mat-1", Quantity: decimal.NewFromInt(1), ProductionRunID: "run-9",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ev-3")
}

func TestConsumptionHandler_MensajeMalformadoSeDescarta(t *testing.T) {
	ledger := &mockLedger{}
	h := NewConsumptionHandler(ledger, zerolog.Nop())

	assert.NoError(t, h.Handle(context.Background(), &sarama.ConsumerMessage{Value: []byte("{no-json")}))
	assert.NoError(t, h.Handle(context.Background(), message(t, ConsumptionEvent{MaterialID: "mat-1"})))
	ledger.AssertNotCalled(t, "RecordConsumption", mock.Anything, mock.Anything)
}

// ──────────────────────────────────────────────────────────────────────────────
// groupHandler
// ──────────────────────────────────────────────────────────────────────────────

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }
func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	msgs chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string                            { return "production.consumption" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.msgs }

func claimWith(offsets ...int64) *fakeClaim {
	c := &fakeClaim{msgs: make(chan *sarama.ConsumerMessage, len(offsets))}
	for _, o := range offsets {
		c.msgs <- &sarama.ConsumerMessage{Topic: "production.consumption", Offset: o}
	}
	close(c.msgs)
	return c
}

func testGroupHandler(h MessageHandler) *groupHandler {
	g := newGroupHandler(h, zerolog.Nop())
	g.firstDelay = time.Millisecond
	g.maxDelay = 2 * time.Millisecond
	return g
}

func TestGroupHandler_ReintentaSinSaltarOffsets(t *testing.T) {
	// Caso: el offset 10 falla por infraestructura y luego se recupera; 11 no se confirma antes que 10.
	var calls []int64
	failures := 2
	g := testGroupHandler(func(_ context.Context, msg *sarama.ConsumerMessage) error {
		calls = append(calls, msg.Offset)
		if msg.Offset == 10 && failures > 0 {
			failures--
			return errors.New("db caída")
		}
		return nil
	})
	session := &fakeSession{ctx: context.Background()}

	require.NoError(t, g.ConsumeClaim(session, claimWith(10, 11)))

	assert.Equal(t, []int64{10, 10, 10, 11}, calls)
	assert.Equal(t, []int64{10, 11}, session.marked)
}

func TestGroupHandler_SesionTerminadaNoConfirmaMensajesPosteriores(t *testing.T) {
	// Caso: el offset 10 nunca se procesa y la sesión termina; 11 no se toca ni se marca.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls []int64
	g := testGroupHandler(func(_ context.Context, msg *sarama.ConsumerMessage) error {
		calls = append(calls, msg.Offset)
		if len(calls) == 3 {
			cancel()
		}
		return errors.New("db caída")
	})
	session := &fakeSession{ctx: ctx}

	require.NoError(t, g.ConsumeClaim(session, claimWith(10, 11)))

	assert.Empty(t, session.marked)
	assert.NotContains(t, calls, int64(11))
}

// ──────────────────────────────────────────────────────────────────────────────
// MovementPublisher
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementPublisher_PublicaMovimiento(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got movementMessage
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Type != entity.MovementConsumption || got.MaterialID != "mat-1" || !got.Quantity.Equal(decimal.NewFromInt(4)) {
			return errors.New("mensaje inesperado")
		}
		return nil
	})

	p := NewMovementPublisher(sp, "inventory.movements", zerolog.Nop())
	p.MovementRecorded(context.Background(), entity.LedgerMovement{
		Type:       entity.MovementConsumption,
		MaterialID: "mat-1",
		EventID:    "ev-1",
		Quantity:   decimal.NewFromInt(4),
	})

	require.NoError(t, sp.Close())
}

func TestMovementPublisher_FalloNoPropaga(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewMovementPublisher(sp, "inventory.movements", zerolog.Nop())
	assert.NotPanics(t, func() {
		p.MovementRecorded(context.Background(), entity.LedgerMovement{Type: entity.MovementReceipt, MaterialID: "mat-1"})
	})
	require.NoError(t, sp.Close())
}
