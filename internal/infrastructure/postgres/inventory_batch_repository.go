package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.InventoryBatchRepository = (*InventoryBatchRepo)(nil)

const batchSelect = `
		SELECT id, material_id, batch_number, quantity, location, status, expiry_date, received_at, updated_at
		FROM inventory_batches`

// InventoryBatchRepo implementación de InventoryBatchRepository sobre PostgreSQL (usable con pool o tx).
type InventoryBatchRepo struct {
	q Querier
}

// NewInventoryBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewInventoryBatchRepository(q Querier) *InventoryBatchRepo {
	return &InventoryBatchRepo{q: q}
}

// Create inserta un lote.
func (r *InventoryBatchRepo) Create(ctx context.Context, b *entity.InventoryBatch) error {
	query := `
		INSERT INTO inventory_batches (id, material_id, batch_number, quantity, location, status, expiry_date, received_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.MaterialID, b.BatchNumber, b.Quantity, b.Location, b.Status, b.ExpiryDate, b.ReceivedAt, b.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *InventoryBatchRepo) GetByID(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	return r.getOne(ctx, batchSelect+` WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *InventoryBatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	return r.getOne(ctx, batchSelect+` WHERE id = $1 FOR UPDATE`, id)
}

// ListByMaterial lotes del material en cualquier estado.
func (r *InventoryBatchRepo) ListByMaterial(ctx context.Context, materialID string) ([]*entity.InventoryBatch, error) {
	return r.list(ctx, batchSelect+` WHERE material_id = $1 ORDER BY received_at, batch_number`, materialID)
}

// ListAvailableForUpdate bloquea los lotes available del material (SELECT FOR UPDATE).
// El orden de bloqueo es estable para evitar deadlocks entre consumos del mismo material.
func (r *InventoryBatchRepo) ListAvailableForUpdate(ctx context.Context, materialID string) ([]*entity.InventoryBatch, error) {
	return r.list(ctx, batchSelect+`
		WHERE material_id = $1 AND status = 'available'
		ORDER BY id
		FOR UPDATE`, materialID)
}

// UpdateQuantity fija cantidad y estado del lote.
func (r *InventoryBatchRepo) UpdateQuantity(ctx context.Context, batchID string, quantity decimal.Decimal, status string) error {
	if quantity.IsNegative() {
		return domain.ErrInvalidInput
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE inventory_batches SET quantity = $2, status = $3, updated_at = now() WHERE id = $1`,
		batchID, quantity, status)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia el estado del lote.
func (r *InventoryBatchRepo) UpdateStatus(ctx context.Context, batchID, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE inventory_batches SET status = $2, updated_at = now() WHERE id = $1`, batchID, status)
	if err != nil {
		return fmt.Errorf("update batch status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AvailableBalance suma los lotes available del material.
func (r *InventoryBatchRepo) AvailableBalance(ctx context.Context, materialID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM inventory_batches
		WHERE material_id = $1 AND status = 'available'`, materialID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("available balance: %w", err)
	}
	return total, nil
}

func (r *InventoryBatchRepo) getOne(ctx context.Context, query, id string) (*entity.InventoryBatch, error) {
	if !isUUID(id) {
		return nil, nil
	}
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

func (r *InventoryBatchRepo) list(ctx context.Context, query, materialID string) ([]*entity.InventoryBatch, error) {
	rows, err := r.q.Query(ctx, query, materialID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.InventoryBatch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.InventoryBatch, error) {
	var b entity.InventoryBatch
	err := row.Scan(
		&b.ID, &b.MaterialID, &b.BatchNumber, &b.Quantity, &b.Location, &b.Status,
		&b.ExpiryDate, &b.ReceivedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
