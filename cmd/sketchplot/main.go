package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sketchplot/internal/aggregate"
	"sketchplot/internal/chart"
	"sketchplot/internal/storage"
	"sketchplot/internal/table"

	// register all sink backends with the storage factory.
	// flags specify which to use but we need to build in support for all of them.
	_ "sketchplot/internal/storage/postgres"
	_ "sketchplot/internal/storage/sqlite"
)

type options struct {
	outputPlot  string
	outputCSV   string
	titlePrefix string
	kmer        int
	scaled      int
	minDepth    int
	combined    bool
	noPlot      bool
	debug       bool
	scale       float64
	workers     int
	sortNoSpace string
	dbDSN       string
	dbBackend   string
	dbTable     string
	verbose     bool
}

// main is the entry point for the reporting binary. It loads the comparison
// result file(s), writes the canonical table, and renders the containment
// chart, or a plain-text placeholder at the image path when there is
// nothing to draw.
func main() {
	var opt options

	flag.StringVar(&opt.outputPlot, "output-plot", "containment_plot.png", "output image path")
	flag.StringVar(&opt.outputCSV, "output-csv", "containment.csv", "output table path")
	flag.StringVar(&opt.titlePrefix, "title-prefix", "", "free-text prefix for the chart title")
	flag.IntVar(&opt.kmer, "kmer", 31, "k-mer length shown in the title")
	flag.IntVar(&opt.scaled, "scaled", 100, "sketch scaling factor shown in the title")
	flag.IntVar(&opt.minDepth, "min-depth", 1, "minimum depth filter shown in the title when >1")
	flag.BoolVar(&opt.combined, "combined", false, "aggregate several result files into one chart")
	flag.BoolVar(&opt.noPlot, "no-plot", false, "write the table but skip rendering")
	flag.BoolVar(&opt.debug, "debug", false, "dump raw input and parsed table to stdout")
	flag.Float64Var(&opt.scale, "scale", 2, "render resolution multiplier")
	flag.IntVar(&opt.workers, "workers", 1, "concurrent file loads in combined mode")
	flag.StringVar(&opt.sortNoSpace, "sort-no-space", "whole", "sort key for identifiers without a space: whole or prefix")
	flag.StringVar(&opt.dbDSN, "db", "", "optional sink DSN; environment variables are expanded")
	flag.StringVar(&opt.dbBackend, "db-backend", "sqlite", "sink backend kind (sqlite, postgres)")
	flag.StringVar(&opt.dbTable, "db-table", "", "sink table name (default containment)")
	flag.BoolVar(&opt.verbose, "verbose", false, "enable verbose logs")
	flag.BoolVar(&opt.verbose, "v", false, "enable verbose logs (shorthand)")

	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		fatalf("usage: sketchplot [flags] input.csv [input2.csv ...]")
	}
	if !opt.combined && len(inputs) > 1 {
		fatalf("multiple inputs require -combined")
	}

	ctx := context.Background()
	start := time.Now()

	if err := run(ctx, inputs, opt); err != nil {
		// Best-effort placeholder so the image path always exists; the
		// original failure is what the exit code reports.
		if werr := chart.WriteFallback(opt.outputPlot, "Error: "+err.Error()); werr != nil {
			log.Printf("stage=fallback err=%v", werr)
		}
		log.Fatalf("%v", err)
	}

	if opt.verbose {
		log.Printf("stage=done elapsed=%s", time.Since(start).Truncate(time.Millisecond))
	}
}

// run executes one reporting pass. A nil return means the expected outputs
// exist, possibly a placeholder instead of an image; an error means
// something unexpected broke and the caller should exit nonzero.
func run(ctx context.Context, inputs []string, opt options) error {
	noSpace, err := parseNoSpaceMode(opt.sortNoSpace)
	if err != nil {
		return err
	}

	var t *table.Table
	if opt.combined {
		t, err = runCombined(ctx, inputs, opt)
	} else {
		t, err = runSingle(inputs[0], opt)
	}
	if err != nil || t == nil {
		return err
	}

	if opt.dbDSN != "" {
		cfg := storage.Config{
			Kind:  opt.dbBackend,
			DSN:   os.ExpandEnv(opt.dbDSN),
			Table: opt.dbTable,
		}
		n, err := storage.Persist(ctx, cfg, t)
		if err != nil {
			return err
		}
		if opt.verbose {
			log.Printf("stage=sink backend=%s table=%s rows=%d", cfg.Kind, cfg.Table, n)
		}
	}

	if opt.noPlot {
		if opt.verbose {
			log.Printf("stage=render skipped=true")
		}
		return nil
	}

	// An aggregation where nothing contributed still persisted its table;
	// only the attempt to draw it yields a placeholder.
	if len(t.Rows) == 0 {
		return chart.WriteFallback(opt.outputPlot, "No matches found")
	}

	spec := chart.Build(t, chart.Options{
		TitlePrefix: opt.titlePrefix,
		Kmer:        opt.kmer,
		Scaled:      opt.scaled,
		MinDepth:    opt.minDepth,
		Combined:    opt.combined,
		NoSpaceKey:  noSpace,
	})
	if err := chart.Render(spec, opt.outputPlot, opt.scale); err != nil {
		return err
	}
	if opt.verbose {
		log.Printf("stage=render path=%s categories=%d bars=%d", opt.outputPlot, len(spec.Categories), len(spec.Bars))
	}
	return nil
}

// runSingle loads one result file. The raw input is copied to the table path
// before any validation, so that output exists no matter what the file turns
// out to contain. Returns a nil table when a placeholder was written.
func runSingle(input string, opt options) (*table.Table, error) {
	if err := table.CopyInput(input, opt.outputCSV); err != nil {
		return nil, err
	}

	if opt.debug {
		if err := table.DumpFile(os.Stdout, input); err != nil {
			return nil, err
		}
	}

	res := table.Load(input)
	switch res.Outcome {
	case table.Loaded:
		if opt.verbose {
			log.Printf("stage=load path=%s rows=%d", input, len(res.Table.Rows))
		}
		if opt.debug {
			table.DumpTable(os.Stdout, res.Table)
		}
		return res.Table, nil

	case table.Failed:
		return nil, res.Err

	default:
		if res.Outcome == table.SchemaMismatch {
			fmt.Fprintf(os.Stdout, "Available columns: %v\n", res.Mismatch.Available)
		}
		log.Printf("stage=load path=%s outcome=%s", input, res.Outcome)
		return nil, chart.WriteFallback(opt.outputPlot, res.Reason())
	}
}

// runCombined aggregates every input into one long-format table and persists
// it. An all-skipped run still writes the table header.
func runCombined(ctx context.Context, inputs []string, opt options) (*table.Table, error) {
	aggOpt := aggregate.Options{Workers: opt.workers}
	if opt.verbose {
		aggOpt.Logf = log.Printf
	}

	t, err := aggregate.Run(ctx, inputs, opt.outputCSV, aggOpt)
	if err != nil {
		return nil, err
	}
	if opt.debug {
		table.DumpTable(os.Stdout, t)
	}
	return t, nil
}

func parseNoSpaceMode(s string) (chart.NoSpaceMode, error) {
	switch s {
	case "whole", "":
		return chart.NoSpaceWhole, nil
	case "prefix":
		return chart.NoSpacePrefix, nil
	}
	return 0, fmt.Errorf("unknown -sort-no-space mode %q (want whole or prefix)", s)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
