// Package memory implementa los repositorios del libro de inventario en memoria.
// Se selecciona con STORAGE_DRIVER=memory para correr local sin PostgreSQL y en pruebas.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/mrp-planner/internal/application/inventory"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex // una transacción a la vez

	materials   map[string]*entity.Material
	batches     map[string]*entity.InventoryBatch
	events      map[string]*entity.ConsumptionEvent
	eventKeys   map[string]string // idempotency key -> event id
	allocations map[string][]entity.BatchAllocation
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		materials:   make(map[string]*entity.Material),
		batches:     make(map[string]*entity.InventoryBatch),
		events:      make(map[string]*entity.ConsumptionEvent),
		eventKeys:   make(map[string]string),
		allocations: make(map[string][]entity.BatchAllocation),
	}
}

// PutMaterial registra o reemplaza un material (carga de datos de referencia).
func (s *Store) PutMaterial(m *entity.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.materials[m.ID] = &cp
}

// Materials repositorio de materiales sobre el store.
func (s *Store) Materials() *MaterialRepo { return &MaterialRepo{s: s} }

// Batches repositorio de lotes sobre el store.
func (s *Store) Batches() *BatchRepo { return &BatchRepo{s: s} }

// Events repositorio de consumos sobre el store.
func (s *Store) Events() *EventRepo { return &EventRepo{s: s} }

// Run ejecuta fn con los repositorios del store. Si fn falla se restaura el estado previo,
// así un consumo rechazado no deja descuentos parciales.
func (s *Store) Run(ctx context.Context, fn func(
	batchRepo repository.InventoryBatchRepository,
	eventRepo repository.ConsumptionEventRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s.Batches(), s.Events()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	batches     map[string]*entity.InventoryBatch
	events      map[string]*entity.ConsumptionEvent
	eventKeys   map[string]string
	allocations map[string][]entity.BatchAllocation
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		batches:     make(map[string]*entity.InventoryBatch, len(s.batches)),
		events:      make(map[string]*entity.ConsumptionEvent, len(s.events)),
		eventKeys:   make(map[string]string, len(s.eventKeys)),
		allocations: make(map[string][]entity.BatchAllocation, len(s.allocations)),
	}
	for id, b := range s.batches {
		snap.batches[id] = copyBatch(b)
	}
	for id, e := range s.events {
		cp := *e
		snap.events[id] = &cp
	}
	for k, v := range s.eventKeys {
		snap.eventKeys[k] = v
	}
	for id, a := range s.allocations {
		snap.allocations[id] = append([]entity.BatchAllocation(nil), a...)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = snap.batches
	s.events = snap.events
	s.eventKeys = snap.eventKeys
	s.allocations = snap.allocations
}

func copyBatch(b *entity.InventoryBatch) *entity.InventoryBatch {
	cp := *b
	if b.ExpiryDate != nil {
		exp := *b.ExpiryDate
		cp.ExpiryDate = &exp
	}
	return &cp
}
