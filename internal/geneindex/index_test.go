package geneindex

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqlab/tpmplot/internal/annotation"
	"github.com/seqlab/tpmplot/internal/counts"
)

// matrixOf builds a sense matrix with one sample per value set.
func matrixOf(geneValues map[string][]float64, geneOrder []string) *counts.Matrix {
	var samples []string
	for _, vals := range geneValues {
		for i := range vals {
			if i >= len(samples) {
				samples = append(samples, fmt.Sprintf("c%d_r1", i))
			}
		}
	}
	m := &counts.Matrix{Samples: samples, Rows: make(map[string]*counts.Row)}
	m.GeneIDs = geneOrder
	for gene, vals := range geneValues {
		values := make(map[string]float64)
		for i, v := range vals {
			values[samples[i]] = v
		}
		m.Rows[gene] = &counts.Row{GeneID: gene, Values: values}
	}
	return m
}

func TestBrowse_FilterMatchesAnnotationText(t *testing.T) {
	m := matrixOf(map[string][]float64{
		"LOC_0001": {1},
		"LOC_0002": {1},
		"LOC_0003": {1},
	}, []string{"LOC_0001", "LOC_0002", "LOC_0003"})
	annotations := map[string]annotation.Record{
		"LOC_0001": {Product: "serine kinase", GeneName: "stk1"},
		"LOC_0002": {Product: "membrane transporter"},
	}
	ix := New(m, annotations)

	tests := []struct {
		name     string
		term     string
		expected []string
	}{
		{"product substring", "kinase", []string{"LOC_0001"}},
		{"gene name", "stk", []string{"LOC_0001"}},
		{"identifier substring, unannotated", "0003", []string{"LOC_0003"}},
		{"case insensitive", "KINASE", []string{"LOC_0001"}},
		{"empty term matches all", "", []string{"LOC_0001", "LOC_0002", "LOC_0003"}},
		{"no match", "zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.Browse(tt.term, SortConfig{Key: SortByID})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestBrowse_SortByName(t *testing.T) {
	m := matrixOf(map[string][]float64{
		"b_gene": {1},
		"a_gene": {1},
		"c_gene": {1},
	}, []string{"b_gene", "a_gene", "c_gene"})
	annotations := map[string]annotation.Record{
		"b_gene": {Product: "aardvark protein"},
		"a_gene": {Product: "zinc finger"},
		// c_gene unannotated: sorts by its own identifier.
	}
	ix := New(m, annotations)

	got := ix.Browse("", SortConfig{Key: SortByName})
	assert.Equal(t, []string{"b_gene", "c_gene", "a_gene"}, got)
}

func TestBrowse_SortByExpression(t *testing.T) {
	m := matrixOf(map[string][]float64{
		"low":  {1, 1},
		"high": {5, 7},
		"mid":  {3, 3},
	}, []string{"low", "high", "mid"})
	ix := New(m, nil)

	asc := ix.Browse("", SortConfig{Key: SortByExpression})
	assert.Equal(t, []string{"low", "mid", "high"}, asc)

	desc := ix.Browse("", SortConfig{Key: SortByExpression, Descending: true})
	assert.Equal(t, []string{"high", "mid", "low"}, desc)
}

func TestBrowse_GenesWithoutSenseDataRankAsZero(t *testing.T) {
	m := matrixOf(map[string][]float64{
		"present": {2},
	}, []string{"present", "absent"})

	ix := New(m, nil)
	got := ix.Browse("", SortConfig{Key: SortByExpression})
	assert.Equal(t, []string{"absent", "present"}, got)
}

func TestBrowse_ResultCap(t *testing.T) {
	values := make(map[string][]float64, 150)
	order := make([]string, 0, 150)
	for i := 0; i < 150; i++ {
		id := fmt.Sprintf("gene_%03d", i)
		values[id] = []float64{1}
		order = append(order, id)
	}
	ix := New(matrixOf(values, order), nil)

	got := ix.Browse("", SortConfig{Key: SortByID})
	require.Len(t, got, MaxResults)
	assert.Equal(t, "gene_000", got[0])
	assert.Equal(t, "gene_099", got[99])
}

func TestNew_AnnotationOnlyUniverse(t *testing.T) {
	annotations := map[string]annotation.Record{
		"g2": {Product: "beta"},
		"g1": {Product: "alpha"},
	}
	ix := New(nil, annotations)

	got := ix.Browse("", SortConfig{Key: SortByID})
	assert.Equal(t, []string{"g1", "g2"}, got)

	// Expression ranking degrades to zero means without a matrix.
	got = ix.Browse("", SortConfig{Key: SortByExpression})
	assert.Len(t, got, 2)
}
