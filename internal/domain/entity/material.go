package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de material.
const (
	MaterialTypeRaw       = "raw"
	MaterialTypeComponent = "component"
	MaterialTypeFinished  = "finished"
)

// IsValidMaterialType indica si t es uno de los tipos de material soportados.
func IsValidMaterialType(t string) bool {
	switch t {
	case MaterialTypeRaw, MaterialTypeComponent, MaterialTypeFinished:
		return true
	}
	return false
}

// Material es dato maestro de referencia: política de reposición de un insumo.
// Este servicio solo lo lee; la gestión de materiales vive en otro sistema.
type Material struct {
	ID           string
	Name         string
	Type         string          // raw, component, finished
	SupplierID   string
	UnitPrice    decimal.Decimal
	MOQ          decimal.Decimal // cantidad mínima de pedido al proveedor
	LeadTimeDays int             // días entre emitir la orden y recibir el stock
	ReorderPoint decimal.Decimal // umbral de cantidad que dispara la reposición
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
