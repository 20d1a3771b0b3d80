package table

import (
	"fmt"
	"io"
	"os"
)

// DumpFile prints raw input diagnostics: size in bytes and quoted content.
// Used by the -debug flag before any parsing happens, so it works on files
// the loader would reject.
func DumpFile(w io.Writer, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "CSV file size: %d bytes\n", fi.Size())

	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "CSV file contents:")
	fmt.Fprintf(w, "%q\n", string(b))
	return nil
}

// DumpTable prints the parsed shape: column list, row/column counts and the
// first few rows.
func DumpTable(w io.Writer, t *Table) {
	cols := t.Columns()
	fmt.Fprintf(w, "CSV columns: %v\n", cols)
	fmt.Fprintf(w, "CSV shape: (%d, %d)\n", len(t.Rows), len(cols))
	fmt.Fprintln(w, "First few rows:")

	const head = 5
	for i, r := range t.Rows {
		if i >= head {
			break
		}
		fmt.Fprintf(w, "  %s %s", r.Name, formatScore(r.Score))
		if t.HasHash {
			fmt.Fprintf(w, " %s", r.Hash)
		}
		if t.HasDepth {
			if r.DepthOK {
				fmt.Fprintf(w, " %s", formatScore(r.Depth))
			} else {
				fmt.Fprint(w, " -")
			}
		}
		if t.HasSample {
			fmt.Fprintf(w, " %s", r.Sample)
		}
		fmt.Fprintln(w)
	}
}
