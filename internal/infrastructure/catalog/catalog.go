// Package catalog carga el maestro de materiales desde archivos XLSX o CSV.
// Los materiales los administra otro sistema; este paquete solo importa su exportación
// para sembrar la base o el store en memoria.
package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

// materialNamespace espacio UUIDv5 para derivar el id de filas sin id a partir del nombre.
var materialNamespace = uuid.MustParse("6f0c9a5e-2b1d-4c6e-9f3a-8d7b5e4c3a21")

// Columns orden esperado de columnas (la primera fila es encabezado).
var Columns = []string{"id", "name", "type", "supplier_id", "unit_price", "moq", "lead_time_days", "reorder_point"}

// LoadMaterials lee el archivo según su extensión (.xlsx o .csv).
func LoadMaterials(path string) ([]*entity.Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: leer %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ParseXLSX(bytes.NewReader(data))
	case ".csv":
		return ParseCSV(data)
	default:
		return nil, fmt.Errorf("catalog: extensión no soportada %q", filepath.Ext(path))
	}
}

// ParseXLSX lee la hoja activa del libro.
func ParseXLSX(r io.Reader) ([]*entity.Material, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: abrir xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("catalog: leer filas: %w", err)
	}
	return parseRows(rows)
}

// ParseCSV acepta UTF-8 o ISO-8859-1 (exportaciones de hojas de cálculo antiguas).
func ParseCSV(data []byte) ([]*entity.Material, error) {
	var r io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("catalog: leer csv: %w", err)
	}
	return parseRows(rows)
}

func parseRows(rows [][]string) ([]*entity.Material, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("catalog: el archivo no contiene materiales")
	}
	if len(rows[0]) < len(Columns) {
		return nil, fmt.Errorf("catalog: se esperan %d columnas (%s)", len(Columns), strings.Join(Columns, ", "))
	}

	now := time.Now().UTC()
	out := make([]*entity.Material, 0, len(rows)-1)
	seen := make(map[string]int, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		m, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("catalog: fila %d: %w", line, err)
		}
		if prev, ok := seen[m.ID]; ok {
			return nil, fmt.Errorf("catalog: fila %d: id %s repetido (fila %d)", line, m.ID, prev)
		}
		seen[m.ID] = line
		m.CreatedAt, m.UpdatedAt = now, now
		out = append(out, m)
	}
	return out, nil
}

func parseRow(row []string) (*entity.Material, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := cell(1)
	if name == "" {
		return nil, fmt.Errorf("name requerido")
	}
	id := cell(0)
	if id == "" {
		id = MaterialID(name)
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("id inválido %q", id)
	}
	supplierID := cell(3)
	if supplierID != "" {
		if _, err := uuid.Parse(supplierID); err != nil {
			return nil, fmt.Errorf("supplier_id inválido %q", supplierID)
		}
	}
	typ := strings.ToLower(cell(2))
	if !entity.IsValidMaterialType(typ) {
		return nil, fmt.Errorf("type inválido %q", cell(2))
	}

	unitPrice, err := decimalCell(cell(4))
	if err != nil {
		return nil, fmt.Errorf("unit_price: %w", err)
	}
	moq, err := decimalCell(cell(5))
	if err != nil {
		return nil, fmt.Errorf("moq: %w", err)
	}
	leadTime := 0
	if s := cell(6); s != "" {
		if leadTime, err = strconv.Atoi(s); err != nil || leadTime < 0 {
			return nil, fmt.Errorf("lead_time_days inválido %q", s)
		}
	}
	reorderPoint, err := decimalCell(cell(7))
	if err != nil {
		return nil, fmt.Errorf("reorder_point: %w", err)
	}

	return &entity.Material{
		ID:           id,
		Name:         name,
		Type:         typ,
		SupplierID:   supplierID,
		UnitPrice:    unitPrice,
		MOQ:          moq,
		LeadTimeDays: leadTime,
		ReorderPoint: reorderPoint,
	}, nil
}

// MaterialID id estable para un material sin id en el archivo: UUIDv5 del nombre
// normalizado, así volver a importar la misma hoja actualiza en lugar de duplicar.
func MaterialID(name string) string {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	return uuid.NewSHA1(materialNamespace, []byte(key)).String()
}

// decimalCell acepta coma decimal ("12,5") además de punto.
func decimalCell(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("valor inválido %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor negativo %q", s)
	}
	return d, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
