package inventory

import (
	"github.com/jhoicas/mrp-planner/internal/application/dto"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

// ToBatchResponse convierte un lote a su DTO de salida.
func ToBatchResponse(b *entity.InventoryBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:          b.ID,
		MaterialID:  b.MaterialID,
		BatchNumber: b.BatchNumber,
		Quantity:    b.Quantity,
		Location:    b.Location,
		Status:      b.Status,
		ExpiryDate:  dto.NewDate(b.ExpiryDate),
		ReceivedAt:  b.ReceivedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ToBatchListResponse lotes de un material.
func ToBatchListResponse(materialID string, batches []*entity.InventoryBatch) dto.BatchListResponse {
	items := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		items = append(items, ToBatchResponse(b))
	}
	return dto.BatchListResponse{MaterialID: materialID, Items: items}
}

// ToConsumptionResponse evento y lotes descontados.
func ToConsumptionResponse(res *ConsumptionResult) dto.ConsumptionResponse {
	allocs := make([]dto.AllocationResponse, 0, len(res.Allocations))
	for _, a := range res.Allocations {
		allocs = append(allocs, dto.AllocationResponse{BatchID: a.BatchID, Quantity: a.Quantity})
	}
	return dto.ConsumptionResponse{
		ID:              res.Event.ID,
		MaterialID:      res.Event.MaterialID,
		Quantity:        res.Event.Quantity,
		ProductionRunID: res.Event.ProductionRunID,
		IdempotencyKey:  res.Event.IdempotencyKey,
		OccurredAt:      res.Event.OccurredAt,
		Allocations:     allocs,
		Replayed:        res.Replayed,
	}
}
