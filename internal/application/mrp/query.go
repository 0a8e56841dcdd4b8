package mrp

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
)

// QueryFacade API de solo lectura que consume el tablero: listados de requerimientos
// y alertas de bajo stock. Guarda los listados en una caché acotada con TTL que se
// invalida en cada movimiento confirmado del libro.
type QueryFacade struct {
	materialRepo repository.MaterialRepository
	calc         *Calculator
	policy       Policy

	cache *expirable.LRU[string, []*entity.MaterialRequirement]
	gen   atomic.Uint64 // sube con cada invalidación
	group singleflight.Group
}

// CacheConfig límites de la caché de listados. TTL <= 0 la desactiva.
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// NewQueryFacade construye la fachada.
func NewQueryFacade(materialRepo repository.MaterialRepository, calc *Calculator, policy Policy, cacheCfg CacheConfig) *QueryFacade {
	q := &QueryFacade{materialRepo: materialRepo, calc: calc, policy: policy}
	if cacheCfg.TTL > 0 {
		size := cacheCfg.MaxEntries
		if size <= 0 {
			size = 64
		}
		q.cache = expirable.NewLRU[string, []*entity.MaterialRequirement](size, nil, cacheCfg.TTL)
	}
	return q
}

// DefaultHorizon horizonte a usar cuando el cliente no lo indica.
func (q *QueryFacade) DefaultHorizon() int {
	if q.policy.DefaultHorizonDays > 0 {
		return q.policy.DefaultHorizonDays
	}
	return DefaultPolicy().DefaultHorizonDays
}

// ListRequirements requerimientos de todos los materiales (o de un tipo) para el horizonte.
func (q *QueryFacade) ListRequirements(ctx context.Context, horizonDays int, typeFilter string) ([]*entity.MaterialRequirement, error) {
	if horizonDays <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if typeFilter != "" && !entity.IsValidMaterialType(typeFilter) {
		return nil, domain.ErrInvalidInput
	}

	gen := q.gen.Load()
	key := fmt.Sprintf("%d|%d|%s", gen, horizonDays, typeFilter)
	if q.cache != nil {
		if cached, ok := q.cache.Get(key); ok {
			return cached, nil
		}
	}

	// Llenados concurrentes de la misma clave comparten un solo cálculo.
	v, err, _ := q.group.Do(key, func() (interface{}, error) {
		reqs, err := q.computeAll(ctx, horizonDays, typeFilter)
		if err != nil {
			return nil, err
		}
		// Si hubo un movimiento mientras se calculaba, no se guarda un resultado viejo.
		if q.cache != nil && q.gen.Load() == gen {
			q.cache.Add(key, reqs)
		}
		return reqs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*entity.MaterialRequirement), nil
}

// ListUrgent subconjunto con estado urgent, para alertas de bajo stock.
func (q *QueryFacade) ListUrgent(ctx context.Context, horizonDays int) ([]*entity.MaterialRequirement, error) {
	all, err := q.ListRequirements(ctx, horizonDays, "")
	if err != nil {
		return nil, err
	}
	return lo.Filter(all, func(r *entity.MaterialRequirement, _ int) bool {
		return r.Status == entity.RequirementUrgent
	}), nil
}

// Requirement requerimiento de un solo material (sin caché).
func (q *QueryFacade) Requirement(ctx context.Context, materialID string, horizonDays int) (*entity.MaterialRequirement, error) {
	return q.calc.ComputeRequirement(ctx, materialID, horizonDays)
}

// Invalidate descarta todos los listados guardados.
func (q *QueryFacade) Invalidate() {
	q.gen.Add(1)
	if q.cache != nil {
		q.cache.Purge()
	}
}

// MovementRecorded implementa inventory.MovementNotifier: todo movimiento invalida la caché.
func (q *QueryFacade) MovementRecorded(_ context.Context, _ entity.LedgerMovement) {
	q.Invalidate()
}

// computeAll calcula en paralelo (workers acotados) y conserva el orden del repositorio.
func (q *QueryFacade) computeAll(ctx context.Context, horizonDays int, typeFilter string) ([]*entity.MaterialRequirement, error) {
	materials, err := q.materialRepo.List(ctx, repository.MaterialFilter{Type: typeFilter})
	if err != nil {
		return nil, err
	}

	out := make([]*entity.MaterialRequirement, len(materials))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.policy.workers())
	for i, m := range materials {
		g.Go(func() error {
			req, err := q.calc.compute(gctx, m, horizonDays)
			if err != nil {
				return fmt.Errorf("requirement %s: %w", m.ID, err)
			}
			out[i] = req
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
