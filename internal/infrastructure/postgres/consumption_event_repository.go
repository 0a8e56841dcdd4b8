package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
)

var _ repository.ConsumptionEventRepository = (*ConsumptionEventRepo)(nil)

// ConsumptionEventRepo log append-only de consumos sobre PostgreSQL (usable con pool o tx).
type ConsumptionEventRepo struct {
	q Querier
}

// NewConsumptionEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsumptionEventRepository(q Querier) *ConsumptionEventRepo {
	return &ConsumptionEventRepo{q: q}
}

// Create inserta el evento. La clave de idempotencia tiene índice único parcial.
func (r *ConsumptionEventRepo) Create(ctx context.Context, e *entity.ConsumptionEvent) error {
	query := `
		INSERT INTO consumption_events (id, material_id, quantity, production_run_id, idempotency_key, occurred_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`
	_, err := r.q.Exec(ctx, query, e.ID, e.MaterialID, e.Quantity, e.ProductionRunID, e.IdempotencyKey, e.OccurredAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert consumption event: %w", err)
	}
	return nil
}

// CreateAllocations inserta el detalle por lote en el orden FEFO en que se descontó.
func (r *ConsumptionEventRepo) CreateAllocations(ctx context.Context, allocations []entity.BatchAllocation) error {
	for _, a := range allocations {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO batch_allocations (event_id, batch_id, quantity) VALUES ($1, $2, $3)`,
			a.EventID, a.BatchID, a.Quantity); err != nil {
			return fmt.Errorf("insert batch allocation: %w", err)
		}
	}
	return nil
}

// GetByIdempotencyKey evento con la clave; nil, nil si no existe.
func (r *ConsumptionEventRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.ConsumptionEvent, error) {
	query := `
		SELECT id, material_id, quantity, production_run_id, COALESCE(idempotency_key, ''), occurred_at
		FROM consumption_events WHERE idempotency_key = $1`
	e, err := scanEvent(r.q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consumption event by key: %w", err)
	}
	return e, nil
}

// ListAllocations detalle por lote del evento.
func (r *ConsumptionEventRepo) ListAllocations(ctx context.Context, eventID string) ([]entity.BatchAllocation, error) {
	rows, err := r.q.Query(ctx,
		`SELECT event_id, batch_id, quantity FROM batch_allocations WHERE event_id = $1 ORDER BY seq`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list batch allocations: %w", err)
	}
	defer rows.Close()

	var list []entity.BatchAllocation
	for rows.Next() {
		var a entity.BatchAllocation
		if err := rows.Scan(&a.EventID, &a.BatchID, &a.Quantity); err != nil {
			return nil, fmt.Errorf("scan batch allocation: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// ListSince eventos del material en [from, to], del más antiguo al más reciente.
func (r *ConsumptionEventRepo) ListSince(ctx context.Context, materialID string, from, to time.Time) ([]*entity.ConsumptionEvent, error) {
	query := `
		SELECT id, material_id, quantity, production_run_id, COALESCE(idempotency_key, ''), occurred_at
		FROM consumption_events
		WHERE material_id = $1 AND occurred_at BETWEEN $2 AND $3
		ORDER BY occurred_at`
	rows, err := r.q.Query(ctx, query, materialID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list consumption events: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.ConsumptionEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consumption event: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanEvent(row pgx.Row) (*entity.ConsumptionEvent, error) {
	var e entity.ConsumptionEvent
	if err := row.Scan(&e.ID, &e.MaterialID, &e.Quantity, &e.ProductionRunID, &e.IdempotencyKey, &e.OccurredAt); err != nil {
		return nil, err
	}
	return &e, nil
}
