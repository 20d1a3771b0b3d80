package schema

import (
	"reflect"
	"testing"
)

func TestAdapt_SourmashConvention(t *testing.T) {
	m, mis := Adapt([]string{"query_name", "containment", "query_md5", "median_abund", "extra"})
	if mis != nil {
		t.Fatalf("Adapt() mismatch=%v, want nil", mis)
	}
	if m.Convention != "sourmash-search" {
		t.Errorf("Convention=%q, want sourmash-search", m.Convention)
	}
	want := map[string]int{FieldName: 0, FieldScore: 1, FieldHash: 2, FieldDepth: 3}
	if !reflect.DeepEqual(m.Index, want) {
		t.Errorf("Index=%v, want %v", m.Index, want)
	}
}

func TestAdapt_LegacySimilarityConvention(t *testing.T) {
	m, mis := Adapt([]string{"similarity", "name", "md5"})
	if mis != nil {
		t.Fatalf("Adapt() mismatch=%v, want nil", mis)
	}
	if m.Convention != "legacy-similarity" {
		t.Errorf("Convention=%q, want legacy-similarity", m.Convention)
	}
	if m.Index[FieldName] != 1 || m.Index[FieldScore] != 0 || m.Index[FieldHash] != 2 {
		t.Errorf("Index=%v, want name=1 score=0 hash=2", m.Index)
	}
	if m.Has(FieldDepth) {
		t.Errorf("Has(FieldDepth)=true, want false for legacy family")
	}
}

func TestAdapt_PriorityOrder(t *testing.T) {
	// When both families match, the sourmash family wins.
	m, mis := Adapt([]string{"query_name", "containment", "name", "similarity"})
	if mis != nil {
		t.Fatalf("Adapt() mismatch=%v, want nil", mis)
	}
	if m.Convention != "sourmash-search" {
		t.Errorf("Convention=%q, want sourmash-search", m.Convention)
	}
}

func TestAdapt_HeaderNormalization(t *testing.T) {
	m, mis := Adapt([]string{" Query_Name ", "CONTAINMENT"})
	if mis != nil {
		t.Fatalf("Adapt() mismatch=%v, want nil", mis)
	}
	if m.Index[FieldName] != 0 || m.Index[FieldScore] != 1 {
		t.Errorf("Index=%v, want name=0 score=1", m.Index)
	}
}

func TestAdapt_MismatchReportsMissingAndAvailable(t *testing.T) {
	cases := []struct {
		name        string
		header      []string
		wantMissing []string
	}{
		{"no required columns", []string{"a", "b"}, []string{FieldName, FieldScore}},
		{"score only", []string{"containment", "b"}, []string{FieldName}},
		{"name only", []string{"query_name"}, []string{FieldScore}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, mis := Adapt(c.header)
			if mis == nil {
				t.Fatalf("Adapt(%v) mismatch=nil, want mismatch", c.header)
			}
			if !reflect.DeepEqual(mis.Missing, c.wantMissing) {
				t.Errorf("Missing=%v, want %v", mis.Missing, c.wantMissing)
			}
			if !reflect.DeepEqual(mis.Available, c.header) {
				t.Errorf("Available=%v, want %v", mis.Available, c.header)
			}
		})
	}
}
