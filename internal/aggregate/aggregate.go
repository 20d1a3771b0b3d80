// Package aggregate combines several per-sample result files into one
// long-format table, tagging every row with a sample label derived from its
// source file name.
package aggregate

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"sketchplot/internal/table"
)

// Options controls a combine run.
type Options struct {
	// Workers bounds concurrent file loads. Loads are independent and
	// read-only, so running them in parallel cannot change the output:
	// results are merged in input-list order afterward. <=1 loads
	// sequentially.
	Workers int

	// Logf receives stage logging. Nil disables it.
	Logf func(format string, v ...any)
}

func (o Options) logf(format string, v ...any) {
	if o.Logf != nil {
		o.Logf(format, v...)
	}
}

// SampleLabel derives the sample label for a source file: base name with the
// trailing extension stripped. Uniqueness across files is not required.
func SampleLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Combine loads every path and concatenates the tables that canonicalize
// successfully, preserving per-file row order and input-list file order.
//
// Files that are missing on disk, zero-byte, row-less, or that fail schema
// adaptation are skipped without error; they simply contribute no rows. Any
// other load failure (unreadable content, malformed rows) aborts the whole
// combine. When nothing contributes, the result is an empty table that still
// carries the canonical output columns plus the sample column.
func Combine(ctx context.Context, paths []string, opt Options) (*table.Table, error) {
	results := make([]table.LoadResult, len(paths))

	if opt.Workers > 1 && len(paths) > 1 {
		loadParallel(ctx, paths, results, opt.Workers)
	} else {
		for i, p := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = table.Load(p)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	combined := &table.Table{HasSample: true}
	contributed := 0
	for i, res := range results {
		switch res.Outcome {
		case table.Loaded:
			label := SampleLabel(paths[i])
			for _, r := range res.Table.Rows {
				r.Sample = label
				combined.Rows = append(combined.Rows, r)
			}
			combined.HasHash = combined.HasHash || res.Table.HasHash
			combined.HasDepth = combined.HasDepth || res.Table.HasDepth
			contributed++

		case table.Failed:
			if errors.Is(res.Err, fs.ErrNotExist) {
				opt.logf("stage=combine skip=%s reason=missing", paths[i])
				continue
			}
			return nil, res.Err

		default:
			opt.logf("stage=combine skip=%s reason=%s", paths[i], res.Outcome)
		}
	}
	opt.logf("stage=combine files=%d contributed=%d rows=%d", len(paths), contributed, len(combined.Rows))
	return combined, nil
}

// Run combines paths and persists the result to outCSV. The table is written
// even when empty so a downstream consumer expecting this output schema
// never sees a missing or malformed file.
func Run(ctx context.Context, paths []string, outCSV string, opt Options) (*table.Table, error) {
	t, err := Combine(ctx, paths, opt)
	if err != nil {
		return nil, err
	}
	if err := t.WriteFile(outCSV); err != nil {
		return nil, err
	}
	return t, nil
}

// loadParallel fans file loads out over a bounded worker pool. Each slot in
// results belongs to exactly one worker, so no locking is needed; merge
// order is restored by indexing.
func loadParallel(ctx context.Context, paths []string, results []table.LoadResult, workers int) {
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = table.Load(paths[i])
			}
		}()
	}

	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		}
	}
	close(jobs)
	wg.Wait()
}
