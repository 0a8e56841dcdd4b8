package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

// WriteSQL escribe un script idempotente (INSERT ... ON CONFLICT) con los materiales.
func WriteSQL(w io.Writer, materials []*entity.Material) error {
	var b strings.Builder
	b.WriteString("-- Maestro de materiales\n")
	b.WriteString("-- Generado por cmd/seed_materials\n\n")
	for _, m := range materials {
		supplier := "NULL"
		if m.SupplierID != "" {
			supplier = "'" + escapeSQL(m.SupplierID) + "'"
		}
		fmt.Fprintf(&b,
			"INSERT INTO materials (id, name, type, supplier_id, unit_price, moq, lead_time_days, reorder_point)\n"+
				"VALUES ('%s', '%s', '%s', %s, %s, %s, %d, %s)\n",
			m.ID, escapeSQL(m.Name), m.Type, supplier,
			m.UnitPrice.String(), m.MOQ.String(), m.LeadTimeDays, m.ReorderPoint.String(),
		)
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type, " +
			"supplier_id = EXCLUDED.supplier_id, unit_price = EXCLUDED.unit_price, moq = EXCLUDED.moq, " +
			"lead_time_days = EXCLUDED.lead_time_days, reorder_point = EXCLUDED.reorder_point, updated_at = now();\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
