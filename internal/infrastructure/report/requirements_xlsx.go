package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

const requirementsSheet = "Requerimientos"

// Días hasta reorden queda vacío cuando no aplica (tasa cero).
func requirementsXLSX(reqs []*entity.MaterialRequirement, horizonDays int) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), requirementsSheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	header := []interface{}{
		"material_id",
		"material",
		"tipo",
		"saldo",
		"punto_reorden",
		"moq",
		"lead_time_dias",
		"tasa_diaria",
		"baja_confianza",
		fmt.Sprintf("dias_hasta_reorden (horizonte %d)", horizonDays),
		"inmediato",
		"estado",
	}
	if err := f.SetSheetRow(requirementsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if err := f.SetCellStyle(requirementsSheet, "A1", "L1", bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	for i, r := range reqs {
		var days interface{} = ""
		if r.DaysUntilReorder != nil {
			days = r.DaysUntilReorder.InexactFloat64()
		}
		excelRow := []interface{}{
			r.MaterialID,
			r.Name,
			r.Type,
			r.Balance.InexactFloat64(),
			r.ReorderPoint.InexactFloat64(),
			r.MOQ.InexactFloat64(),
			r.LeadTimeDays,
			r.DailyRate.InexactFloat64(),
			r.LowConfidence,
			days,
			r.Immediate,
			r.Status,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("xlsx: celda: %w", err)
		}
		if err := f.SetSheetRow(requirementsSheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(requirementsSheet, "A", "B", 36)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
