package chart

import (
	"encoding/json"
	"reflect"
	"testing"

	"sketchplot/internal/table"
)

func TestBuild_SingleNaturalOrderOnSuffix(t *testing.T) {
	tb := &table.Table{Rows: []table.Row{
		{Name: "NC_10 Ecoli", Score: 0.3},
		{Name: "NC_1 Ecoli", Score: 0.8},
	}}
	s := Build(tb, Options{Kmer: 31, Scaled: 100})

	// Both identifiers sort by "Ecoli" (after the first space), so the
	// stable sort keeps input order between them. Identifiers whose
	// suffixes differ numerically order by magnitude.
	tb2 := &table.Table{Rows: []table.Row{
		{Name: "x chr10", Score: 0.1},
		{Name: "x chr2", Score: 0.2},
	}}
	s2 := Build(tb2, Options{Kmer: 31, Scaled: 100})
	if want := []string{"x chr2", "x chr10"}; !reflect.DeepEqual(s2.Categories, want) {
		t.Errorf("Categories=%v, want %v", s2.Categories, want)
	}

	if s.X.Min != 0 || s.X.Max != 1 || s.X.Title != "Containment" {
		t.Errorf("X=%+v, want fixed [0,1] Containment axis", s.X)
	}
	if len(s.Bars) != 2 {
		t.Fatalf("bars=%d, want 2", len(s.Bars))
	}
	if len(s.Labels) != 0 {
		t.Errorf("labels=%d, want none without a depth column", len(s.Labels))
	}
	if len(s.Samples) != 0 {
		t.Errorf("samples=%d, want none in single mode", len(s.Samples))
	}
}

func TestBuild_DepthOverlay(t *testing.T) {
	tb := &table.Table{
		Rows: []table.Row{
			{Name: "NC_1 Ecoli", Score: 0.8, Depth: 12.5, DepthOK: true},
			{Name: "NC_2 Ecoli", Score: 0.3},
			{Name: "NC_3 Ecoli", Score: 0.2, Depth: 11.5, DepthOK: true},
		},
		HasDepth: true,
	}
	s := Build(tb, Options{Kmer: 31, Scaled: 100})
	if len(s.Labels) != len(tb.Rows) {
		t.Fatalf("labels=%d, want one per row", len(s.Labels))
	}
	// %.0f rounds half to even, matching how the labels have always been
	// formatted: 12.5 -> 12, 11.5 -> 12.
	want := map[string]string{
		"NC_1 Ecoli": "med(depth): 12",
		"NC_2 Ecoli": "med(depth): 0",
		"NC_3 Ecoli": "med(depth): 12",
	}
	for _, l := range s.Labels {
		if l.Text != want[l.Category] {
			t.Errorf("label %s=%q, want %q", l.Category, l.Text, want[l.Category])
		}
	}
}

func TestBuild_CombinedShortNamesOffsetsAndColors(t *testing.T) {
	tb := &table.Table{
		Rows: []table.Row{
			{Name: "NC_1 Ecoli", Score: 0.8, Sample: "sampleA"},
			{Name: "NC_1 Ecoli", Score: 0.5, Sample: "sample2"},
		},
		HasSample: true,
	}
	s := Build(tb, Options{Kmer: 31, Scaled: 100, Combined: true})

	if want := []string{"Ecoli"}; !reflect.DeepEqual(s.Categories, want) {
		t.Fatalf("Categories=%v, want %v", s.Categories, want)
	}

	// Natural comparison of "sample2" vs "sampleA": the text runs
	// "sample" vs "samplea" differ at the 7th byte ('2' < 'a' is not
	// reached; "sample" is a prefix of "samplea"), so "sample2" keys as
	// ("sample",2,"") vs ("samplea",) and "sample" < "samplea" wins:
	// sample2 sorts first.
	if len(s.Samples) != 2 || s.Samples[0].Label != "sample2" || s.Samples[1].Label != "sampleA" {
		t.Fatalf("Samples=%+v, want sample2 before sampleA", s.Samples)
	}
	if s.Samples[0].Color == s.Samples[1].Color {
		t.Errorf("samples share color %q", s.Samples[0].Color)
	}

	// Bars follow the sample order within the shared category.
	if s.Bars[0].Sample != "sample2" || s.Bars[1].Sample != "sampleA" {
		t.Errorf("bar order=%v/%v, want sample2 then sampleA", s.Bars[0].Sample, s.Bars[1].Sample)
	}
}

func TestBuild_CombinedShortNameNoSpaceUnchanged(t *testing.T) {
	tb := &table.Table{
		Rows:      []table.Row{{Name: "plasmid1", Score: 0.4, Sample: "s1"}},
		HasSample: true,
	}
	s := Build(tb, Options{Combined: true})
	if want := []string{"plasmid1"}; !reflect.DeepEqual(s.Categories, want) {
		t.Errorf("Categories=%v, want %v", s.Categories, want)
	}
}

func TestBuild_NoSpaceModesAgreeOnSpacelessValues(t *testing.T) {
	tb := &table.Table{Rows: []table.Row{
		{Name: "b2", Score: 0.1},
		{Name: "b10", Score: 0.2},
	}}
	whole := Build(tb, Options{NoSpaceKey: NoSpaceWhole})
	prefix := Build(tb, Options{NoSpaceKey: NoSpacePrefix})
	if !reflect.DeepEqual(whole.Categories, prefix.Categories) {
		t.Errorf("modes disagree: %v vs %v", whole.Categories, prefix.Categories)
	}
	if want := []string{"b2", "b10"}; !reflect.DeepEqual(whole.Categories, want) {
		t.Errorf("Categories=%v, want %v", whole.Categories, want)
	}
}

func TestComposeTitle(t *testing.T) {
	cases := []struct {
		name string
		opt  Options
		want string
	}{
		{"single", Options{Kmer: 31, Scaled: 100}, "(k=31, scaled=100)"},
		{"single with prefix", Options{TitlePrefix: "run7", Kmer: 31, Scaled: 100}, "run7 (k=31, scaled=100)"},
		{"min depth shown when >1", Options{Kmer: 21, Scaled: 1000, MinDepth: 3}, "(k=21, scaled=1000, min_depth=3)"},
		{"min depth hidden at 1", Options{Kmer: 21, Scaled: 1000, MinDepth: 1}, "(k=21, scaled=1000)"},
		{"combined", Options{Kmer: 31, Scaled: 100, Combined: true}, "k=31, scaled=100"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := composeTitle(c.opt); got != c.want {
				t.Errorf("composeTitle()=%q, want %q", got, c.want)
			}
		})
	}
}

func TestSpec_Serializable(t *testing.T) {
	tb := &table.Table{
		Rows:      []table.Row{{Name: "NC_1 Ecoli", Score: 0.8, Sample: "s1"}},
		HasSample: true,
	}
	s := Build(tb, Options{Kmer: 31, Scaled: 100, Combined: true})

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal spec: %v", err)
	}
	var back Spec
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal spec: %v", err)
	}
	if !reflect.DeepEqual(&back, s) {
		t.Errorf("round trip changed spec:\n%+v\n%+v", back, s)
	}
}
