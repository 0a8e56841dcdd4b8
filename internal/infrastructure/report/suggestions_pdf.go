package report

//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación                        │
//	│  RESUMEN: líneas sugeridas / costo estimado total            │
//	│  TABLA: Material | Estado | Saldo | P. Reorden | OC abiertas │
//	│         | Cant. sugerida | Costo                             │
//	│  FALLOS: materiales que no se pudieron planear               │
//	└─────────────────────────────────────────────────────────────┘

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorUrgent  = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorWarning = &props.Color{Red: 200, Green: 120, Blue: 0}
)

// failedMaterial material que el planificador no pudo evaluar.
type failedMaterial struct {
	MaterialID string
	Reason     string
}

func suggestionsPDF(suggestions []entity.ReorderSuggestion, failures []failedMaterial, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Sugerencias de reposición", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(suggestions, failures))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(suggestions) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Ningún material requiere reposición.", props.Text{
				Size: 9, Align: align.Center, Top: 2, Color: colorGray,
			}),
		)))
	}
	m.AddRows(tableDetailRows(suggestions)...)

	if len(failures) > 0 {
		m.AddRows(row.New(4))
		m.AddRows(failureRows(failures)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("SUGERENCIAS DE REPOSICIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Órdenes de compra propuestas por el planificador MRP", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func summaryRow(suggestions []entity.ReorderSuggestion, failures []failedMaterial) core.Row {
	total := decimal.Zero
	urgent := 0
	for _, s := range suggestions {
		total = total.Add(s.EstimatedCost)
		if s.Status == entity.RequirementUrgent {
			urgent++
		}
	}
	return row.New(10).Add(
		col.New(4).Add(text.New(fmt.Sprintf("Líneas sugeridas: %d", len(suggestions)), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2,
		})),
		col.New(3).Add(text.New(fmt.Sprintf("Urgentes: %d", urgent), props.Text{
			Size: 9, Top: 2, Color: colorUrgent,
		})),
		col.New(5).Add(text.New("Costo estimado: "+formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Color: colorPrimary,
		})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Material", 3, align.Left),
		h("Estado", 1, align.Center),
		h("Saldo", 2, align.Right),
		h("P. Reorden", 1, align.Right),
		h("OC abiertas", 1, align.Right),
		h("Cant. sugerida", 2, align.Right),
		h("Costo", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRows(suggestions []entity.ReorderSuggestion) []core.Row {
	result := make([]core.Row, 0, len(suggestions))
	for _, s := range suggestions {
		statusColor := colorWarning
		if s.Status == entity.RequirementUrgent {
			statusColor = colorUrgent
		}
		name := s.MaterialName
		if s.LowConfidence {
			name += " *"
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(nonEmpty(name, s.MaterialID), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(s.Status, props.Text{Size: 8, Align: align.Center, Top: 1, Color: statusColor})),
			col.New(2).Add(text.New(formatQuantity(s.Balance), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatQuantity(s.ReorderPoint), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatQuantity(s.OpenOrderQty), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatQuantity(s.SuggestedQty), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(s.EstimatedCost), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func failureRows(failures []failedMaterial) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(text.New("MATERIALES NO PLANEADOS", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorUrgent, Top: 1,
		}))),
	}
	for _, f := range failures {
		rows = append(rows, row.New(5).Add(
			col.New(4).Add(text.New(f.MaterialID, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(8).Add(text.New(f.Reason, props.Text{Size: 7, Top: 1, Color: colorGray})),
		))
	}
	return rows
}
