package chart

import (
	"fmt"
	"sort"
	"strings"

	"sketchplot/internal/natsort"
	"sketchplot/internal/table"
)

// NoSpaceMode selects the sort key for categorical values that contain no
// space. The two observed behaviors are identical for today's inputs (for a
// value with no space, "the whole value" and "the part before the first
// space" coincide); both are kept as configuration for callers that depend
// on one or the other.
type NoSpaceMode int

const (
	// NoSpaceWhole sorts a space-less value by the whole value.
	NoSpaceWhole NoSpaceMode = iota
	// NoSpacePrefix sorts by the part before the first space.
	NoSpacePrefix
)

// Options parameterizes chart construction. Kmer, Scaled and MinDepth are
// sketching metadata and appear only in the title.
type Options struct {
	TitlePrefix string
	Kmer        int
	Scaled      int
	MinDepth    int
	Combined    bool
	NoSpaceKey  NoSpaceMode
}

// Build constructs the chart description for a canonical table.
//
// Rows are ordered by the natural-sort key of the categorical value: the
// substring after the first space when one exists (so "NC_000913.3
// Escherichia coli" sorts by the organism name), otherwise per NoSpaceKey.
// In aggregated mode the categorical value is the short identifier and bars
// sharing it are offset per sample, colored from a shared legend order.
func Build(t *table.Table, opt Options) *Spec {
	if opt.Combined {
		return buildCombined(t, opt)
	}
	return buildSingle(t, opt)
}

func buildSingle(t *table.Table, opt Options) *Spec {
	rows := sortRows(t.Rows, func(r table.Row) string { return r.Name }, opt.NoSpaceKey, nil)

	s := &Spec{
		Title:      composeTitle(opt),
		Width:      600,
		RowStep:    20,
		BarSize:    8,
		X:          Axis{Title: "Containment", Min: 0, Max: 1},
		Categories: dedupeInOrder(rows, func(r table.Row) string { return r.Name }),
	}
	for _, r := range rows {
		s.Bars = append(s.Bars, Bar{Category: r.Name, Value: r.Score})
		if t.HasDepth {
			s.Labels = append(s.Labels, Label{Category: r.Name, Text: depthLabel(r)})
		}
	}
	return s
}

func buildCombined(t *table.Table, opt Options) *Spec {
	// Legend/offset order: unique sample labels as they first appear,
	// then naturally sorted.
	var sampleOrder []string
	seen := map[string]bool{}
	for _, r := range t.Rows {
		if !seen[r.Sample] {
			seen[r.Sample] = true
			sampleOrder = append(sampleOrder, r.Sample)
		}
	}
	natsort.Strings(sampleOrder)

	sampleRank := make(map[string]int, len(sampleOrder))
	samples := make([]Sample, 0, len(sampleOrder))
	for i, label := range sampleOrder {
		sampleRank[label] = i
		samples = append(samples, Sample{Label: label, Color: sampleColor(i)})
	}

	// Order rows by (short identifier, sample), the identifier naturally.
	rows := sortRows(t.Rows, func(r table.Row) string { return shortName(r.Name) }, opt.NoSpaceKey,
		func(r table.Row) int { return sampleRank[r.Sample] })

	barSize := 6
	s := &Spec{
		Title:      composeTitle(opt),
		Width:      400,
		BarSize:    barSize,
		RowStep:    barSize*max(1, len(samples)) + 6,
		X:          Axis{Title: "Containment", Min: 0, Max: 1},
		Categories: dedupeInOrder(rows, func(r table.Row) string { return shortName(r.Name) }),
		Samples:    samples,
	}
	for _, r := range rows {
		s.Bars = append(s.Bars, Bar{Category: shortName(r.Name), Sample: r.Sample, Value: r.Score})
		if t.HasDepth {
			s.Labels = append(s.Labels, Label{Category: shortName(r.Name), Sample: r.Sample, Text: depthLabel(r)})
		}
	}
	return s
}

// shortName is the aggregated-mode categorical value: the part after the
// first space when present, the identifier unchanged otherwise.
func shortName(name string) string {
	if _, rest, ok := strings.Cut(name, " "); ok {
		return rest
	}
	return name
}

// sortKey derives the ordering key for a categorical value.
func sortKey(value string, mode NoSpaceMode) string {
	if _, rest, ok := strings.Cut(value, " "); ok {
		return rest
	}
	if mode == NoSpacePrefix {
		before, _, _ := strings.Cut(value, " ")
		return before
	}
	return value
}

// sortRows returns a reordered copy of in: primary order by the natural-sort
// key of the categorical value, secondary by rank (nil means input order,
// kept stable).
func sortRows(in []table.Row, category func(table.Row) string, mode NoSpaceMode, rank func(table.Row) int) []table.Row {
	keys := make([]natsort.Key, len(in))
	idx := make([]int, len(in))
	for i := range in {
		keys[i] = natsort.KeyOf(sortKey(category(in[i]), mode))
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if c := natsort.Compare(keys[ia], keys[ib]); c != 0 {
			return c < 0
		}
		if rank == nil {
			return false
		}
		return rank(in[ia]) < rank(in[ib])
	})
	out := make([]table.Row, len(in))
	for i, j := range idx {
		out[i] = in[j]
	}
	return out
}

func dedupeInOrder(rows []table.Row, category func(table.Row) string) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range rows {
		c := category(r)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// depthLabel renders the overlay text for one row: the median depth rounded
// to the nearest integer, "0" when the row has no value.
func depthLabel(r table.Row) string {
	if !r.DepthOK {
		return "med(depth): 0"
	}
	return fmt.Sprintf("med(depth): %.0f", r.Depth)
}

// composeTitle builds the chart title from the sketching metadata: k-mer
// length and scaling factor always, the minimum-depth filter only when it
// actually filtered (>1), and an optional free-text prefix.
func composeTitle(opt Options) string {
	parts := []string{fmt.Sprintf("scaled=%d", opt.Scaled)}
	if opt.MinDepth > 1 {
		parts = append(parts, fmt.Sprintf("min_depth=%d", opt.MinDepth))
	}
	body := fmt.Sprintf("k=%d, %s", opt.Kmer, strings.Join(parts, ", "))
	if !opt.Combined {
		body = "(" + body + ")"
	}
	if opt.TitlePrefix != "" {
		body = opt.TitlePrefix + " " + body
	}
	return body
}
