package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.InventoryBatchRepository = (*BatchRepo)(nil)

// BatchRepo lotes en memoria. Los bloqueos de fila los cubre Store.Run.
type BatchRepo struct {
	s *Store
}

// Create inserta un lote nuevo.
func (r *BatchRepo) Create(_ context.Context, batch *entity.InventoryBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.batches[batch.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.batches[batch.ID] = copyBatch(batch)
	return nil
}

// GetByID obtiene un lote; nil, nil si no existe.
func (r *BatchRepo) GetByID(_ context.Context, id string) (*entity.InventoryBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	return copyBatch(b), nil
}

// GetForUpdate igual que GetByID.
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	return r.GetByID(ctx, id)
}

// ListByMaterial lotes del material por fecha de recepción.
func (r *BatchRepo) ListByMaterial(_ context.Context, materialID string) ([]*entity.InventoryBatch, error) {
	return r.list(materialID, false), nil
}

// ListAvailableForUpdate lotes available del material.
func (r *BatchRepo) ListAvailableForUpdate(_ context.Context, materialID string) ([]*entity.InventoryBatch, error) {
	return r.list(materialID, true), nil
}

// UpdateQuantity fija la cantidad y el estado de un lote.
func (r *BatchRepo) UpdateQuantity(_ context.Context, batchID string, quantity decimal.Decimal, status string) error {
	if quantity.IsNegative() {
		return domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	b.Quantity = quantity
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateStatus cambia el estado de un lote.
func (r *BatchRepo) UpdateStatus(_ context.Context, batchID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}

// AvailableBalance suma los lotes available del material.
func (r *BatchRepo) AvailableBalance(_ context.Context, materialID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, b := range r.s.batches {
		if b.MaterialID == materialID && b.Status == entity.BatchStatusAvailable {
			total = total.Add(b.Quantity)
		}
	}
	return total, nil
}

func (r *BatchRepo) list(materialID string, onlyAvailable bool) []*entity.InventoryBatch {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.InventoryBatch, 0)
	for _, b := range r.s.batches {
		if b.MaterialID != materialID {
			continue
		}
		if onlyAvailable && b.Status != entity.BatchStatusAvailable {
			continue
		}
		out = append(out, copyBatch(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ReceivedAt.Before(out[j].ReceivedAt)
		}
		return out[i].BatchNumber < out[j].BatchNumber
	})
	return out
}
