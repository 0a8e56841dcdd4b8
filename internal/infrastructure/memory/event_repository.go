package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
)

var _ repository.ConsumptionEventRepository = (*EventRepo)(nil)

// EventRepo log de consumos en memoria.
type EventRepo struct {
	s *Store
}

// Create agrega un evento; clave de idempotencia repetida -> ErrDuplicate.
func (r *EventRepo) Create(_ context.Context, event *entity.ConsumptionEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if event.IdempotencyKey != "" {
		if _, ok := r.s.eventKeys[event.IdempotencyKey]; ok {
			return domain.ErrDuplicate
		}
		r.s.eventKeys[event.IdempotencyKey] = event.ID
	}
	cp := *event
	r.s.events[event.ID] = &cp
	return nil
}

// CreateAllocations guarda el detalle por lote de un consumo.
func (r *EventRepo) CreateAllocations(_ context.Context, allocations []entity.BatchAllocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range allocations {
		r.s.allocations[a.EventID] = append(r.s.allocations[a.EventID], a)
	}
	return nil
}

// GetByIdempotencyKey evento registrado con la clave; nil, nil si no existe.
func (r *EventRepo) GetByIdempotencyKey(_ context.Context, key string) (*entity.ConsumptionEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.eventKeys[key]
	if !ok {
		return nil, nil
	}
	cp := *r.s.events[id]
	return &cp, nil
}

// ListAllocations detalle por lote del evento.
func (r *EventRepo) ListAllocations(_ context.Context, eventID string) ([]entity.BatchAllocation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]entity.BatchAllocation(nil), r.s.allocations[eventID]...), nil
}

// ListSince eventos del material con occurred_at en [from, to], del más antiguo al más reciente.
func (r *EventRepo) ListSince(_ context.Context, materialID string, from, to time.Time) ([]*entity.ConsumptionEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.ConsumptionEvent, 0)
	for _, e := range r.s.events {
		if e.MaterialID != materialID || e.OccurredAt.Before(from) || e.OccurredAt.After(to) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}
