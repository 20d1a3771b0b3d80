// Package table holds the canonical in-memory form of sketch-comparison
// results and the loading/persistence around it. One Table corresponds to
// one input file (or, after aggregation, to the concatenation of several).
package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"sketchplot/internal/schema"
)

// Row is one canonical result row. Depth is meaningful only when DepthOK is
// true; a table-level median_abund column may still have per-row gaps.
// Sample is set during aggregation, never by the loader.
type Row struct {
	Name    string
	Score   float64
	Hash    string
	Depth   float64
	DepthOK bool
	Sample  string
}

// Table is an ordered collection of rows plus column-presence flags. The
// flags are decided once from the input header, not per row.
type Table struct {
	Rows      []Row
	HasHash   bool
	HasDepth  bool
	HasSample bool
}

// Columns returns the output column names in canonical order. Optional
// columns appear only when present for the whole table.
func (t *Table) Columns() []string {
	cols := []string{schema.FieldName, schema.FieldScore}
	if t.HasHash {
		cols = append(cols, schema.FieldHash)
	}
	if t.HasDepth {
		cols = append(cols, schema.FieldDepth)
	}
	if t.HasSample {
		cols = append(cols, ColumnSample)
	}
	return cols
}

// ColumnSample is the derived sample-label column added in aggregated mode.
const ColumnSample = "barcode"

// WriteFile persists the table as a CSV with the canonical header. A table
// with zero rows still gets its header, so downstream consumers always find
// a well-formed file.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, 0, 5)
	for _, r := range t.Rows {
		rec = rec[:0]
		rec = append(rec, r.Name, formatScore(r.Score))
		if t.HasHash {
			rec = append(rec, r.Hash)
		}
		if t.HasDepth {
			if r.DepthOK {
				rec = append(rec, formatScore(r.Depth))
			} else {
				rec = append(rec, "")
			}
		}
		if t.HasSample {
			rec = append(rec, r.Sample)
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return f.Close()
}

// formatScore round-trips float values without trailing noise, keeping
// repeated runs byte-identical.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
