package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"sketchplot/internal/schema"
)

// Outcome classifies the result of loading one input file. Everything except
// Loaded and Failed is a recoverable terminal state that produces a
// placeholder instead of a chart.
type Outcome int

const (
	// The zero Outcome is deliberately invalid so an unfilled LoadResult
	// can never pass for a successful load.
	Loaded Outcome = iota + 1
	EmptyInput
	NoRows
	SchemaMismatch
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Loaded:
		return "loaded"
	case EmptyInput:
		return "empty_input"
	case NoRows:
		return "no_rows"
	case SchemaMismatch:
		return "schema_mismatch"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// LoadResult carries the outcome of one load attempt. Table is non-nil only
// for Loaded; Mismatch only for SchemaMismatch; Err only for Failed.
type LoadResult struct {
	Outcome  Outcome
	Table    *Table
	Mismatch *schema.Mismatch
	Err      error
}

// Reason returns the placeholder text for a non-loaded outcome. The wording
// is stable: downstream log scrapers match on it.
func (r LoadResult) Reason() string {
	switch r.Outcome {
	case EmptyInput:
		return "No data to visualize - CSV file is empty"
	case NoRows:
		return "No matches found"
	case SchemaMismatch:
		return fmt.Sprintf("Missing columns: %v", r.Mismatch.Missing)
	case Failed:
		return "Error: " + r.Err.Error()
	}
	return ""
}

// Load reads one delimited result file into canonical form.
//
// Terminal non-error outcomes:
//   - zero-byte file            -> EmptyInput
//   - header but no data rows   -> NoRows
//   - unrecognized column names -> SchemaMismatch (with the column report)
//
// Anything else that goes wrong (unreadable file, ragged records, an
// unparsable score) is Failed with the underlying error.
func Load(path string) LoadResult {
	fi, err := os.Stat(path)
	if err != nil {
		return LoadResult{Outcome: Failed, Err: fmt.Errorf("stat %s: %w", path, err)}
	}
	if fi.Size() == 0 {
		return LoadResult{Outcome: EmptyInput}
	}

	f, err := os.Open(path)
	if err != nil {
		return LoadResult{Outcome: Failed, Err: fmt.Errorf("open %s: %w", path, err)}
	}
	defer f.Close()

	return load(f)
}

// load parses from r. Split out of Load so tests can feed readers directly.
func load(r io.Reader) LoadResult {
	// Tolerate UTF-8/UTF-16 byte order marks; result files from Windows
	// hosts regularly carry one.
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, dec))

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return LoadResult{Outcome: Failed, Err: fmt.Errorf("no columns to parse")}
		}
		return LoadResult{Outcome: Failed, Err: fmt.Errorf("read header: %w", err)}
	}

	records, err := cr.ReadAll()
	if err != nil {
		return LoadResult{Outcome: Failed, Err: fmt.Errorf("read rows: %w", err)}
	}
	if len(records) == 0 {
		return LoadResult{Outcome: NoRows}
	}

	m, mis := schema.Adapt(header)
	if mis != nil {
		return LoadResult{Outcome: SchemaMismatch, Mismatch: mis}
	}

	t := &Table{
		Rows:     make([]Row, 0, len(records)),
		HasHash:  m.Has(schema.FieldHash),
		HasDepth: m.Has(schema.FieldDepth),
	}
	for i, rec := range records {
		line := i + 2 // 1-based, after the header
		row := Row{Name: rec[m.Index[schema.FieldName]]}

		raw := strings.TrimSpace(rec[m.Index[schema.FieldScore]])
		row.Score, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return LoadResult{Outcome: Failed, Err: fmt.Errorf("line %d: parse %s %q: %w", line, schema.FieldScore, raw, err)}
		}

		if t.HasHash {
			row.Hash = rec[m.Index[schema.FieldHash]]
		}
		if t.HasDepth {
			raw := strings.TrimSpace(rec[m.Index[schema.FieldDepth]])
			switch strings.ToLower(raw) {
			case "", "na", "nan":
				// Absent for this row; the column itself stays present.
			default:
				d, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return LoadResult{Outcome: Failed, Err: fmt.Errorf("line %d: parse %s %q: %w", line, schema.FieldDepth, raw, err)}
				}
				if !math.IsNaN(d) {
					row.Depth = d
					row.DepthOK = true
				}
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return LoadResult{Outcome: Loaded, Table: t}
}

// CopyInput copies the raw input file to the output table path, byte for
// byte. Single mode runs this before any validation, so a copy exists at the
// expected path even when the input later turns out to be empty or invalid.
// A no-op when src and dst name the same file.
func CopyInput(src, dst string) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("copy input: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy input: %w", err)
	}
	return out.Close()
}
