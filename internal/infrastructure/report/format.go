// Package report genera los documentos descargables del planificador:
// el PDF de sugerencias de compra y la hoja XLSX de requerimientos.
package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Las cifras se muestran con separadores en español (1.234.567,50).
var printer = message.NewPrinter(language.Spanish)

func formatQuantity(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func formatMoney(d decimal.Decimal) string {
	return "$" + printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func formatDays(d *decimal.Decimal) string {
	if d == nil {
		return "N/A"
	}
	return formatQuantity(*d)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
