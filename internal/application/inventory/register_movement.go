package inventory

import (
	"context"

	"github.com/jhoicas/mrp-planner/internal/application/dto"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

// RecordReceiptFromRequest adapta el request HTTP al caso de uso RecordReceipt(ctx, ReceiptInput).
func (uc *LedgerUseCase) RecordReceiptFromRequest(ctx context.Context, in dto.CreateBatchRequest) (*entity.InventoryBatch, error) {
	return uc.RecordReceipt(ctx, ReceiptInput{
		MaterialID:  in.MaterialID,
		BatchNumber: in.BatchNumber,
		Quantity:    in.Quantity,
		Location:    in.Location,
		ExpiryDate:  in.ExpiryDate.Ptr(),
	})
}

// RecordConsumptionFromRequest adapta el request HTTP al caso de uso RecordConsumption.
// La clave del header Idempotency-Key tiene prioridad sobre la del body.
func (uc *LedgerUseCase) RecordConsumptionFromRequest(ctx context.Context, headerKey string, in dto.ConsumptionRequest) (*ConsumptionResult, error) {
	key := in.IdempotencyKey
	if headerKey != "" {
		key = headerKey
	}
	return uc.RecordConsumption(ctx, ConsumptionInput{
		MaterialID:      in.MaterialID,
		Quantity:        in.Quantity,
		ProductionRunID: in.ProductionRunID,
		IdempotencyKey:  key,
		OccurredAt:      in.OccurredAt,
	})
}
