package counts

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countsHeader = "Geneid\tChr\tStart\tEnd\tStrand\tLength"

func TestParse_Normalization(t *testing.T) {
	// Two genes with equal RPK: geneA 10 reads over 1 kb, geneB 5 reads
	// over 0.5 kb. Column total RPK = 20, scaling factor 20/1e6, so
	// both genes end up at TPM 500000.
	text := countsHeader + "\ts1\n" +
		"geneA\tchr1\t1\t1000\t+\t1000\t10\n" +
		"geneB\tchr1\t2000\t2500\t-\t500\t5\n"

	m := ParseString(text)
	require.NotNil(t, m)

	assert.Equal(t, []string{"s1"}, m.Samples)
	assert.Equal(t, []string{"geneA", "geneB"}, m.GeneIDs)

	want := math.Log2(500000 + 1)
	assert.InDelta(t, want, m.Rows["geneA"].Values["s1"], 1e-9)
	assert.InDelta(t, want, m.Rows["geneB"].Values["s1"], 1e-9)

	assert.Equal(t, "chr1", m.Rows["geneA"].Meta.Chr)
	assert.Equal(t, "-", m.Rows["geneB"].Meta.Strand)
}

func TestParse_ZeroLengthFallsBackToOneKB(t *testing.T) {
	// A zero-length feature must normalize exactly like a 1000 bp one.
	text := countsHeader + "\ts1\n" +
		"geneZero\tchr1\t1\t1\t+\t0\t7\n" +
		"geneKB\tchr1\t1\t1000\t+\t1000\t7\n"

	m := ParseString(text)
	require.NotNil(t, m)
	assert.Equal(t, m.Rows["geneKB"].Values["s1"], m.Rows["geneZero"].Values["s1"])
}

func TestParse_Monotonicity(t *testing.T) {
	base := countsHeader + "\ts1\n" +
		"geneA\tchr1\t1\t1000\t+\t1000\t10\n" +
		"geneB\tchr1\t1\t1000\t+\t1000\t10\n"
	bumped := countsHeader + "\ts1\n" +
		"geneA\tchr1\t1\t1000\t+\t1000\t20\n" +
		"geneB\tchr1\t1\t1000\t+\t1000\t10\n"

	m1 := ParseString(base)
	m2 := ParseString(bumped)
	require.NotNil(t, m1)
	require.NotNil(t, m2)

	assert.GreaterOrEqual(t, m2.Rows["geneA"].Values["s1"], m1.Rows["geneA"].Values["s1"])
	assert.GreaterOrEqual(t, m1.Rows["geneA"].Values["s1"], 0.0)
}

func TestParse_InsufficientInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"header only", countsHeader + "\ts1\n"},
		{"comments only", "# featureCounts v2.0.1\n# command line\n"},
		{"comment plus header", "# cmd\n" + countsHeader + "\ts1\n"},
		{"no sample columns", countsHeader + "\ngeneA\tchr1\t1\t10\t+\t10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ParseString(tt.text))
		})
	}
}

func TestParse_UnparsableCountsCoerceToZero(t *testing.T) {
	text := countsHeader + "\ts1\ts2\n" +
		"geneA\tchr1\t1\t1000\t+\t1000\tNA\t4\n"

	m := ParseString(text)
	require.NotNil(t, m)

	// An all-zero column keeps a scaling factor of 1 and yields 0.
	assert.Equal(t, 0.0, m.Rows["geneA"].Values["s1"])
	assert.Greater(t, m.Rows["geneA"].Values["s2"], 0.0)
}

func TestParse_ShortRowPadsMissingCounts(t *testing.T) {
	text := countsHeader + "\ts1\ts2\n" +
		"geneA\tchr1\t1\t1000\t+\t1000\t3\n"

	m := ParseString(text)
	require.NotNil(t, m)
	assert.Equal(t, 0.0, m.Rows["geneA"].Values["s2"])
}

func TestParse_DuplicateGeneLastWins(t *testing.T) {
	text := countsHeader + "\ts1\n" +
		"geneA\tchr1\t1\t1000\t+\t1000\t0\n" +
		"geneB\tchr1\t1\t1000\t+\t1000\t10\n" +
		"geneA\tchr2\t1\t1000\t+\t1000\t10\n"

	m := ParseString(text)
	require.NotNil(t, m)

	// Identifier list stays deduplicated; the row map holds the later
	// occurrence.
	assert.Equal(t, []string{"geneA", "geneB"}, m.GeneIDs)
	assert.Equal(t, "chr2", m.Rows["geneA"].Meta.Chr)
	assert.Greater(t, m.Rows["geneA"].Values["s1"], 0.0)
}

func TestParse_Conditions(t *testing.T) {
	text := countsHeader + "\tT1_rep1\tT1_rep2\tT10_rep1\tT2_rep1\n" +
		"geneA\tchr1\t1\t1000\t+\t1000\t1\t2\t3\t4\n"

	m := ParseString(text)
	require.NotNil(t, m)

	assert.Equal(t, []string{"T1", "T2", "T10"}, m.Conditions)
	assert.Equal(t, []string{"T1_rep1", "T1_rep2"}, m.SamplesFor("T1"))
	assert.Equal(t, []string{"T10_rep1"}, m.SamplesFor("T10"))
}

func TestConditionOf(t *testing.T) {
	tests := []struct {
		sample   string
		expected string
	}{
		{"d04_rep1_sorted.bam", "d04"},
		{"T1_rep2", "T1"},
		{"control", "control"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ConditionOf(tt.sample), "ConditionOf(%q)", tt.sample)
	}
}

func TestParse_CRLFInput(t *testing.T) {
	text := strings.ReplaceAll(countsHeader+"\ts1\ngeneA\tchr1\t1\t1000\t+\t1000\t5\n", "\n", "\r\n")
	m := ParseString(text)
	require.NotNil(t, m)
	assert.Contains(t, m.Rows, "geneA")
}
