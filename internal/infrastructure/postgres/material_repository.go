package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

var materialColumns = []string{
	"id", "name", "type", "COALESCE(supplier_id::text, '')", "unit_price", "moq",
	"lead_time_days", "reorder_point", "created_at", "updated_at",
}

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q  Querier
	sb sq.StatementBuilderType
}

// NewMaterialRepository construye el adaptador de materiales. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

// GetByID obtiene un material por ID.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query, args, err := r.sb.Select(materialColumns...).From("materials").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build material query: %w", err)
	}
	m, err := scanMaterial(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// List lista materiales ordenados por nombre; filtra por tipo si se indica.
func (r *MaterialRepo) List(ctx context.Context, filter repository.MaterialFilter) ([]*entity.Material, error) {
	qb := r.sb.Select(materialColumns...).From("materials").OrderBy("name", "id")
	if filter.Type != "" {
		qb = qb.Where(sq.Eq{"type": filter.Type})
	}
	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build material list: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Count materiales que cumplen el filtro de tipo.
func (r *MaterialRepo) Count(ctx context.Context, filter repository.MaterialFilter) (int, error) {
	qb := r.sb.Select("COUNT(*)").From("materials")
	if filter.Type != "" {
		qb = qb.Where(sq.Eq{"type": filter.Type})
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build material count: %w", err)
	}
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count materials: %w", err)
	}
	return n, nil
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(
		&m.ID, &m.Name, &m.Type, &m.SupplierID, &m.UnitPrice, &m.MOQ,
		&m.LeadTimeDays, &m.ReorderPoint, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
