// Package geneindex provides search, sort, and bounded multi-selection
// over gene identifiers for browsing.
package geneindex

import (
	"sort"
	"strings"

	"github.com/seqlab/tpmplot/internal/annotation"
	"github.com/seqlab/tpmplot/internal/counts"
)

// Bounds on the browsing surface.
const (
	MaxResults   = 100
	MaxSelection = 7
)

// SortKey names a supported gene-list ordering.
type SortKey string

const (
	SortByID         SortKey = "id"
	SortByName       SortKey = "name"
	SortByExpression SortKey = "expression"
)

// SortConfig is a sort key plus direction.
type SortConfig struct {
	Key        SortKey `json:"key"`
	Descending bool    `json:"descending"`
}

// Index filters and ranks gene identifiers using annotation text for
// matching and sense-orientation expression for ranking.
type Index struct {
	sense       *counts.Matrix
	annotations map[string]annotation.Record
	ids         []string
}

// New builds an index over the sense matrix's gene list. With no matrix
// the annotation identifiers serve as the browsing universe, so search
// still works when counts have not loaded.
func New(sense *counts.Matrix, annotations map[string]annotation.Record) *Index {
	ix := &Index{sense: sense, annotations: annotations}
	if sense != nil {
		ix.ids = sense.GeneIDs
	} else {
		for id := range annotations {
			ix.ids = append(ix.ids, id)
		}
		counts.SortNatural(ix.ids)
	}
	return ix
}

// Annotation returns the record for an identifier, if annotated.
func (ix *Index) Annotation(id string) (annotation.Record, bool) {
	rec, ok := ix.annotations[id]
	return rec, ok
}

// Browse returns at most MaxResults identifiers matching term, ordered
// by cfg. Matching is a case-insensitive substring test against the
// identifier, its product, and its gene name; unannotated identifiers
// still match on identifier text.
func (ix *Index) Browse(term string, cfg SortConfig) []string {
	term = strings.ToLower(strings.TrimSpace(term))

	var matched []string
	for _, id := range ix.ids {
		if term == "" || ix.matches(id, term) {
			matched = append(matched, id)
		}
	}

	less := ix.lessFunc(cfg.Key)
	sort.SliceStable(matched, func(i, j int) bool {
		if cfg.Descending {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	if len(matched) > MaxResults {
		matched = matched[:MaxResults]
	}
	return matched
}

func (ix *Index) matches(id, term string) bool {
	if strings.Contains(strings.ToLower(id), term) {
		return true
	}
	rec, ok := ix.annotations[id]
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(rec.Product), term) ||
		strings.Contains(strings.ToLower(rec.GeneName), term)
}

func (ix *Index) lessFunc(key SortKey) func(a, b string) bool {
	switch key {
	case SortByName:
		return func(a, b string) bool {
			return ix.displayName(a) < ix.displayName(b)
		}
	case SortByExpression:
		// Means are computed once per sort, not cached across calls.
		means := make(map[string]float64, len(ix.ids))
		for _, id := range ix.ids {
			means[id] = ix.senseMean(id)
		}
		return func(a, b string) bool {
			return means[a] < means[b]
		}
	default:
		return func(a, b string) bool { return a < b }
	}
}

// displayName is the product for annotated genes and the identifier
// itself otherwise.
func (ix *Index) displayName(id string) string {
	if rec, ok := ix.annotations[id]; ok {
		return rec.Product
	}
	return id
}

// senseMean is the mean sense-orientation value across all sample
// columns; genes without sense data rank as 0.
func (ix *Index) senseMean(id string) float64 {
	if ix.sense == nil {
		return 0
	}
	row := ix.sense.Rows[id]
	if row == nil || len(ix.sense.Samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range ix.sense.Samples {
		sum += row.Values[s]
	}
	return sum / float64(len(ix.sense.Samples))
}
