package mrp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/reorder"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
)

// PlanFailure material que no se pudo planear; el resto del lote sigue.
type PlanFailure struct {
	MaterialID string
	Err        error
}

// PlanResult sugerencias generadas y fallos por material.
type PlanResult struct {
	Suggestions []entity.ReorderSuggestion
	Failures    []PlanFailure
}

// Planner convierte requerimientos urgent/warning en líneas sugeridas de orden de compra,
// descartando los materiales ya cubiertos por órdenes abiertas.
type Planner struct {
	materialRepo repository.MaterialRepository
	calc         *Calculator
	orders       OpenOrderProvider
	policy       Policy
	log          zerolog.Logger
}

// NewPlanner construye el planificador. orders puede ser nil (sin servicio de compras).
func NewPlanner(
	materialRepo repository.MaterialRepository,
	calc *Calculator,
	orders OpenOrderProvider,
	policy Policy,
	log zerolog.Logger,
) *Planner {
	return &Planner{
		materialRepo: materialRepo,
		calc:         calc,
		orders:       orders,
		policy:       policy,
		log:          log,
	}
}

// PlanReorders genera sugerencias para los materiales indicados (vacío = todos).
// Un material desconocido o una consulta fallida a compras se reporta en Failures.
func (p *Planner) PlanReorders(ctx context.Context, materialIDs []string) (*PlanResult, error) {
	materials, failures, err := p.resolve(ctx, materialIDs)
	if err != nil {
		return nil, err
	}

	horizon := p.policy.DefaultHorizonDays
	if horizon <= 0 {
		horizon = DefaultPolicy().DefaultHorizonDays
	}

	var mu sync.Mutex
	suggestions := make([]entity.ReorderSuggestion, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.policy.workers())
	for _, m := range materials {
		g.Go(func() error {
			s, err := p.planOne(gctx, m, horizon)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.log.Warn().Err(err).Str("material_id", m.ID).Msg("falló la planeación del material")
				failures = append(failures, PlanFailure{MaterialID: m.ID, Err: err})
				return nil
			}
			if s != nil {
				suggestions = append(suggestions, *s)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortSuggestions(suggestions)
	sort.SliceStable(failures, func(i, j int) bool { return failures[i].MaterialID < failures[j].MaterialID })
	return &PlanResult{Suggestions: suggestions, Failures: failures}, nil
}

// resolve carga los materiales pedidos; los inexistentes pasan a fallos.
func (p *Planner) resolve(ctx context.Context, ids []string) ([]*entity.Material, []PlanFailure, error) {
	ids = lo.Uniq(lo.Compact(lo.Map(ids, func(id string, _ int) string { return strings.TrimSpace(id) })))
	if len(ids) == 0 {
		all, err := p.materialRepo.List(ctx, repository.MaterialFilter{})
		return all, nil, err
	}

	materials := make([]*entity.Material, 0, len(ids))
	var failures []PlanFailure
	for _, id := range ids {
		m, err := p.materialRepo.GetByID(ctx, id)
		switch {
		case err != nil:
			failures = append(failures, PlanFailure{MaterialID: id, Err: err})
		case m == nil:
			failures = append(failures, PlanFailure{MaterialID: id, Err: domain.ErrNotFound})
		default:
			materials = append(materials, m)
		}
	}
	return materials, failures, nil
}

// planOne devuelve nil sin error cuando el material no requiere pedido o ya está cubierto.
func (p *Planner) planOne(ctx context.Context, m *entity.Material, horizon int) (*entity.ReorderSuggestion, error) {
	req, err := p.calc.compute(ctx, m, horizon)
	if err != nil {
		return nil, err
	}
	var rationale, message string
	switch req.Status {
	case entity.RequirementUrgent:
		rationale = entity.RationaleBelowReorderPoint
		message = fmt.Sprintf("saldo %s en o bajo el punto de reorden %s", req.Balance.String(), req.ReorderPoint.String())
	case entity.RequirementWarning:
		rationale = entity.RationaleLeadTimeBreach
		message = fmt.Sprintf("el punto de reorden se alcanza antes del lead time de %d días", req.LeadTimeDays)
	default:
		return nil, nil
	}

	qty := reorder.SuggestedQuantity(req.MOQ, req.ReorderPoint, req.Balance, p.policy.SafetyBuffer)
	if !qty.IsPositive() {
		// warning con saldo sobre el punto de reorden, MOQ 0 y sin colchón: nada que pedir todavía
		p.log.Debug().Str("material_id", m.ID).Str("status", req.Status).Msg("sin cantidad a pedir")
		return nil, nil
	}

	open, err := p.openQuantity(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	if open.GreaterThanOrEqual(qty) {
		p.log.Debug().Str("material_id", m.ID).Str("open_qty", open.String()).Msg("material cubierto por órdenes de compra abiertas")
		return nil, nil
	}

	return &entity.ReorderSuggestion{
		MaterialID:    m.ID,
		MaterialName:  m.Name,
		SuggestedQty:  qty,
		Rationale:     rationale,
		Message:       message,
		Status:        req.Status,
		Balance:       req.Balance,
		ReorderPoint:  req.ReorderPoint,
		MOQ:           req.MOQ,
		OpenOrderQty:  open,
		UnitPrice:     m.UnitPrice,
		EstimatedCost: qty.Mul(m.UnitPrice).Round(2),
		LeadTimeDays:  m.LeadTimeDays,
		LowConfidence: req.LowConfidence,
	}, nil
}

// openQuantity suma lo pendiente en órdenes abiertas, con timeout por consulta.
func (p *Planner) openQuantity(ctx context.Context, materialID string) (decimal.Decimal, error) {
	if p.orders == nil {
		return decimal.Zero, nil
	}
	if p.policy.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.policy.LookupTimeout)
		defer cancel()
	}
	lines, err := p.orders.OpenOrders(ctx, materialID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("open purchase orders: %w", err)
	}
	return lo.Reduce(lines, func(acc decimal.Decimal, l entity.OpenOrderLine, _ int) decimal.Decimal {
		if l.MaterialID != "" && l.MaterialID != materialID {
			return acc
		}
		return acc.Add(l.PendingQuantity)
	}, decimal.Zero), nil
}

// sortSuggestions urgent primero, luego por nombre.
func sortSuggestions(s []entity.ReorderSuggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Status != s[j].Status {
			return s[i].Status == entity.RequirementUrgent
		}
		if s[i].MaterialName != s[j].MaterialName {
			return s[i].MaterialName < s[j].MaterialName
		}
		return s[i].MaterialID < s[j].MaterialID
	})
}
