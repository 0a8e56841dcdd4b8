package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/mrp-planner/internal/domain"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/jhoicas/mrp-planner/internal/domain/inventory"
	"github.com/jhoicas/mrp-planner/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LedgerUseCase libro de inventario por material: recepciones, consumos FEFO y saldo disponible.
// Los consumos se serializan por material (mutex en proceso + SELECT FOR UPDATE en la tx)
// y nunca esperan a que llegue stock: se completan o fallan con ErrInsufficientStock.
type LedgerUseCase struct {
	txRunner     TxRunner
	materialRepo repository.MaterialRepository
	batchRepo    repository.InventoryBatchRepository
	eventRepo    repository.ConsumptionEventRepository
	notifiers    Notifiers
	locks        *materialLocks
	now          func() time.Time
}

// NewLedgerUseCase construye el caso de uso con los suscriptores de movimientos iniciales.
func NewLedgerUseCase(
	txRunner TxRunner,
	materialRepo repository.MaterialRepository,
	batchRepo repository.InventoryBatchRepository,
	eventRepo repository.ConsumptionEventRepository,
	notifiers ...MovementNotifier,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		materialRepo: materialRepo,
		batchRepo:    batchRepo,
		eventRepo:    eventRepo,
		notifiers:    notifiers,
		locks:        newMaterialLocks(),
		now:          time.Now,
	}
}

// Subscribe agrega un suscriptor de movimientos confirmados. Llamar solo durante el arranque.
func (uc *LedgerUseCase) Subscribe(n MovementNotifier) {
	uc.notifiers = append(uc.notifiers, n)
}

// ReceiptInput entrada para registrar la recepción de un lote.
type ReceiptInput struct {
	MaterialID  string
	BatchNumber string
	Quantity    decimal.Decimal
	Location    string
	ExpiryDate  *time.Time
}

// ConsumptionInput entrada para registrar un consumo de una orden de producción.
// IdempotencyKey es opcional; si se repite, se devuelve el evento original sin descontar de nuevo.
type ConsumptionInput struct {
	MaterialID      string
	Quantity        decimal.Decimal
	ProductionRunID string
	IdempotencyKey  string
	OccurredAt      *time.Time
}

// ConsumptionResult evento registrado y detalle de lotes descontados.
type ConsumptionResult struct {
	Event       *entity.ConsumptionEvent
	Allocations []entity.BatchAllocation
	Replayed    bool
}

// CurrentBalance suma la cantidad de los lotes available del material.
// Material inexistente -> ErrNotFound; material sin lotes -> cero.
func (uc *LedgerUseCase) CurrentBalance(ctx context.Context, materialID string) (decimal.Decimal, error) {
	if _, err := uc.getMaterial(ctx, materialID); err != nil {
		return decimal.Zero, err
	}
	return uc.batchRepo.AvailableBalance(ctx, materialID)
}

// ListBatches lista los lotes del material (todos los estados).
func (uc *LedgerUseCase) ListBatches(ctx context.Context, materialID string) ([]*entity.InventoryBatch, error) {
	if _, err := uc.getMaterial(ctx, materialID); err != nil {
		return nil, err
	}
	return uc.batchRepo.ListByMaterial(ctx, materialID)
}

// RecordReceipt crea un lote available con la cantidad recibida.
func (uc *LedgerUseCase) RecordReceipt(ctx context.Context, in ReceiptInput) (*entity.InventoryBatch, error) {
	in.MaterialID = strings.TrimSpace(in.MaterialID)
	in.BatchNumber = strings.TrimSpace(in.BatchNumber)
	if in.MaterialID == "" || in.BatchNumber == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.getMaterial(ctx, in.MaterialID); err != nil {
		return nil, err
	}

	if in.ExpiryDate != nil {
		d := entity.DateOnly(*in.ExpiryDate)
		in.ExpiryDate = &d
	}

	now := uc.now()
	batch := &entity.InventoryBatch{
		ID:          uuid.New().String(),
		MaterialID:  in.MaterialID,
		BatchNumber: in.BatchNumber,
		Quantity:    in.Quantity,
		Location:    strings.TrimSpace(in.Location),
		Status:      entity.BatchStatusAvailable,
		ExpiryDate:  in.ExpiryDate,
		ReceivedAt:  now,
		UpdatedAt:   now,
	}

	unlock := uc.locks.Lock(in.MaterialID)
	err := uc.txRunner.Run(ctx, func(batchRepo repository.InventoryBatchRepository, _ repository.ConsumptionEventRepository) error {
		return batchRepo.Create(ctx, batch)
	})
	unlock()
	if err != nil {
		return nil, err
	}

	uc.notifiers.MovementRecorded(ctx, entity.LedgerMovement{
		Type:       entity.MovementReceipt,
		MaterialID: batch.MaterialID,
		BatchID:    batch.ID,
		Quantity:   batch.Quantity,
		OccurredAt: now,
	})
	return batch, nil
}

// RecordConsumption descuenta la cantidad de los lotes available en orden FEFO.
// Si el saldo no alcanza devuelve ErrInsufficientStock sin tocar ningún lote.
func (uc *LedgerUseCase) RecordConsumption(ctx context.Context, in ConsumptionInput) (*ConsumptionResult, error) {
	in.MaterialID = strings.TrimSpace(in.MaterialID)
	in.ProductionRunID = strings.TrimSpace(in.ProductionRunID)
	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)
	if in.MaterialID == "" || in.ProductionRunID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.getMaterial(ctx, in.MaterialID); err != nil {
		return nil, err
	}
	if in.IdempotencyKey != "" {
		if res, err := uc.replay(ctx, in); res != nil || err != nil {
			return res, err
		}
	}

	occurredAt := uc.now()
	if in.OccurredAt != nil {
		occurredAt = *in.OccurredAt
	}
	event := &entity.ConsumptionEvent{
		ID:              uuid.New().String(),
		MaterialID:      in.MaterialID,
		Quantity:        in.Quantity,
		ProductionRunID: in.ProductionRunID,
		IdempotencyKey:  in.IdempotencyKey,
		OccurredAt:      occurredAt,
	}

	unlock := uc.locks.Lock(in.MaterialID)
	var allocations []entity.BatchAllocation
	err := uc.txRunner.Run(ctx, func(batchRepo repository.InventoryBatchRepository, eventRepo repository.ConsumptionEventRepository) error {
		// Bloquea los lotes del material (SELECT FOR UPDATE) para no sobregirar entre instancias
		batches, err := batchRepo.ListAvailableForUpdate(ctx, in.MaterialID)
		if err != nil {
			return err
		}
		plan, err := inventory.AllocateFEFO(batches, in.Quantity)
		if err != nil {
			return err
		}
		for _, a := range plan {
			status := entity.BatchStatusAvailable
			if a.Remaining.IsZero() {
				status = entity.BatchStatusConsumed
			}
			if err := batchRepo.UpdateQuantity(ctx, a.BatchID, a.Remaining, status); err != nil {
				return err
			}
			allocations = append(allocations, entity.BatchAllocation{
				EventID:  event.ID,
				BatchID:  a.BatchID,
				Quantity: a.Quantity,
			})
		}
		if err := eventRepo.Create(ctx, event); err != nil {
			return err
		}
		return eventRepo.CreateAllocations(ctx, allocations)
	})
	unlock()
	if err != nil {
		// Otra instancia registró la misma clave entre la verificación y el commit
		if errors.Is(err, domain.ErrDuplicate) && in.IdempotencyKey != "" {
			if res, rerr := uc.replay(ctx, in); res != nil || rerr != nil {
				return res, rerr
			}
		}
		return nil, err
	}

	uc.notifiers.MovementRecorded(ctx, entity.LedgerMovement{
		Type:            entity.MovementConsumption,
		MaterialID:      event.MaterialID,
		EventID:         event.ID,
		ProductionRunID: event.ProductionRunID,
		Quantity:        event.Quantity,
		OccurredAt:      event.OccurredAt,
	})
	return &ConsumptionResult{Event: event, Allocations: allocations}, nil
}

// QuarantineBatch pasa un lote available o reserved a quarantine; deja de contar en el saldo.
func (uc *LedgerUseCase) QuarantineBatch(ctx context.Context, batchID string) (*entity.InventoryBatch, error) {
	batchID = strings.TrimSpace(batchID)
	if batchID == "" {
		return nil, domain.ErrInvalidInput
	}
	current, err := uc.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	unlock := uc.locks.Lock(current.MaterialID)
	var batch *entity.InventoryBatch
	err = uc.txRunner.Run(ctx, func(batchRepo repository.InventoryBatchRepository, _ repository.ConsumptionEventRepository) error {
		b, err := batchRepo.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		if b.IsTerminal() {
			return domain.ErrConflict
		}
		if err := batchRepo.UpdateStatus(ctx, b.ID, entity.BatchStatusQuarantine); err != nil {
			return err
		}
		b.Status = entity.BatchStatusQuarantine
		b.UpdatedAt = uc.now()
		batch = b
		return nil
	})
	unlock()
	if err != nil {
		return nil, err
	}

	uc.notifiers.MovementRecorded(ctx, entity.LedgerMovement{
		Type:       entity.MovementQuarantine,
		MaterialID: batch.MaterialID,
		BatchID:    batch.ID,
		Quantity:   batch.Quantity,
		OccurredAt: batch.UpdatedAt,
	})
	return batch, nil
}

// replay devuelve el consumo ya registrado con la misma clave, o nil si no existe.
// Una clave reutilizada para otro material es un conflicto.
func (uc *LedgerUseCase) replay(ctx context.Context, in ConsumptionInput) (*ConsumptionResult, error) {
	existing, err := uc.eventRepo.GetByIdempotencyKey(ctx, in.IdempotencyKey)
	if err != nil || existing == nil {
		return nil, err
	}
	if existing.MaterialID != in.MaterialID {
		return nil, domain.ErrConflict
	}
	allocations, err := uc.eventRepo.ListAllocations(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	return &ConsumptionResult{Event: existing, Allocations: allocations, Replayed: true}, nil
}

func (uc *LedgerUseCase) getMaterial(ctx context.Context, materialID string) (*entity.Material, error) {
	if strings.TrimSpace(materialID) == "" {
		return nil, domain.ErrInvalidInput
	}
	m, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}
