// Package schema adapts the column headers of a sketch-comparison result
// table onto the canonical internal field names.
//
// Two historical naming families are recognized. They are modeled as
// declarative mapping tables tried in a fixed priority order; support for a
// future family is added by appending a Convention, never by branching in
// callers.
package schema

import (
	"fmt"
	"strings"
)

// Canonical field names. These double as the column names of the persisted
// output table, so downstream pipeline steps see one schema regardless of
// which naming family the input used.
const (
	FieldName  = "query_name"   // reference sequence name, required
	FieldScore = "containment"  // containment/similarity in [0,1], required
	FieldHash  = "query_md5"    // sketch hash, optional
	FieldDepth = "median_abund" // median sequencing depth, optional
)

// Required lists the canonical fields every usable table must provide.
var Required = []string{FieldName, FieldScore}

// Convention is one column-naming family. Source maps a canonical field to
// the header the family uses for it.
type Convention struct {
	Name   string
	Source map[string]string
}

// Conventions in priority order. The first family whose required source
// columns are all present in the header wins.
var Conventions = []Convention{
	{
		Name: "sourmash-search",
		Source: map[string]string{
			FieldName:  "query_name",
			FieldScore: "containment",
			FieldHash:  "query_md5",
			FieldDepth: "median_abund",
		},
	},
	{
		Name: "legacy-similarity",
		Source: map[string]string{
			FieldName:  "name",
			FieldScore: "similarity",
			FieldHash:  "md5",
		},
	},
}

// Mapping is the result of a successful adaptation: for each canonical field
// present in the input, the index of its column in the header row.
type Mapping struct {
	Convention string
	Index      map[string]int
}

// Has reports whether the canonical field was present in the input.
func (m Mapping) Has(field string) bool {
	_, ok := m.Index[field]
	return ok
}

// Mismatch reports that no known convention matched. It carries both the
// canonical fields that could not be resolved and the columns actually seen,
// so the caller can surface both to the user.
type Mismatch struct {
	Missing   []string
	Available []string
}

func (e *Mismatch) Error() string {
	return fmt.Sprintf("missing required columns %v (available: %v)", e.Missing, e.Available)
}

// Adapt matches header against the known conventions and returns the column
// mapping for the first family whose required columns are all present.
// Header comparison trims surrounding whitespace and is case-insensitive,
// matching how the rest of the pipeline normalizes column names.
func Adapt(header []string) (Mapping, *Mismatch) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[normalize(h)] = i
	}

	for _, conv := range Conventions {
		idx := make(map[string]int, len(conv.Source))
		ok := true
		for _, field := range Required {
			src := conv.Source[field]
			i, found := byName[src]
			if !found {
				ok = false
				break
			}
			idx[field] = i
		}
		if !ok {
			continue
		}
		for field, src := range conv.Source {
			if _, done := idx[field]; done {
				continue
			}
			if i, found := byName[src]; found {
				idx[field] = i
			}
		}
		return Mapping{Convention: conv.Name, Index: idx}, nil
	}

	// Report the gap against the priority family, whose source names are
	// the canonical names themselves.
	missing := make([]string, 0, len(Required))
	for _, field := range Required {
		if _, found := byName[field]; !found {
			missing = append(missing, field)
		}
	}
	return Mapping{}, &Mismatch{
		Missing:   missing,
		Available: append([]string(nil), header...),
	}
}

func normalize(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
