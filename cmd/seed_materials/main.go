// seed_materials genera un script SQL para poblar el maestro de materials
// a partir de una exportación XLSX o CSV del sistema de compras.
//
// Uso: go run ./cmd/seed_materials ruta/materiales.xlsx [salida.sql]
// Sin archivo de salida escribe en stdout.
// Columnas: id, name, type, supplier_id, unit_price, moq, lead_time_days, reorder_point
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jhoicas/mrp-planner/internal/infrastructure/catalog"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_materials <materiales.xlsx|materiales.csv> [salida.sql]")
		os.Exit(2)
	}

	materials, err := catalog.LoadMaterials(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar materiales: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 2 {
		f, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := catalog.WriteSQL(out, materials); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d materiales\n", len(materials))
}
