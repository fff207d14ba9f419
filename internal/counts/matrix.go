// Package counts parses featureCounts-style read count tables and
// normalizes them to log2(TPM+1) expression values.
package counts

import (
	"bufio"
	"io"
	"math"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Fixed metadata columns preceding the sample columns:
// Geneid, Chr, Start, End, Strand, Length.
const metaColumns = 6

// Meta holds the positional metadata of one feature row.
type Meta struct {
	Chr    string `json:"chr"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Strand string `json:"strand"`
}

// Row is one normalized feature: log2(TPM+1) keyed by sample name.
type Row struct {
	GeneID string             `json:"geneId"`
	Meta   Meta               `json:"meta"`
	Values map[string]float64 `json:"values"`
}

// Matrix is a fully normalized count matrix.
//
// GeneIDs preserves source row order (first occurrence for duplicates);
// Rows is keyed by gene identifier with last-occurrence-wins semantics
// for duplicate identifiers.
type Matrix struct {
	Samples    []string
	Conditions []string
	GeneIDs    []string
	Rows       map[string]*Row
}

// rawRow is a parsed but not yet normalized data line.
type rawRow struct {
	geneID string
	meta   Meta
	length float64
	counts []float64
}

// Parse reads a tab-delimited count table and returns the normalized
// matrix, or nil if fewer than two usable lines remain after dropping
// comments and blanks (no header plus data to work with).
//
// Parsing is total over arbitrary text: unparsable counts coerce to 0,
// short rows are padded, and a zero or missing feature length falls
// back to 1000 bp so the RPK denominator is never zero.
func Parse(r io.Reader) *Matrix {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return nil
	}

	header := strings.Split(lines[0], "\t")
	if len(header) < metaColumns+1 {
		return nil
	}
	samples := header[metaColumns:]

	rows := make([]rawRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		if len(fields) == 0 || fields[0] == "" {
			continue
		}
		row := rawRow{
			geneID: fields[0],
			counts: make([]float64, len(samples)),
		}
		if len(fields) > 4 {
			row.meta = Meta{Chr: fields[1], Start: fields[2], End: fields[3], Strand: fields[4]}
		}
		if len(fields) > 5 {
			row.length, _ = strconv.ParseFloat(fields[5], 64)
		}
		for i := range samples {
			col := metaColumns + i
			if col < len(fields) {
				v, err := strconv.ParseFloat(fields[col], 64)
				if err == nil {
					row.counts[i] = v
				}
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}

	return normalize(samples, rows)
}

// ParseString parses a count table held in memory.
func ParseString(text string) *Matrix {
	return Parse(strings.NewReader(text))
}

// normalize converts raw counts to log2(TPM+1).
//
// Normalization is matrix-wide: the per-sample scaling factors require a
// complete pass over all rows (reduce) before any row's TPM can be
// computed (map). The map phase fans out over a worker pool since rows
// are independent once the factors are fixed.
func normalize(samples []string, rows []rawRow) *Matrix {
	// Reduce: per-sample RPK column totals.
	rpk := make([][]float64, len(rows))
	colSums := make([]float64, len(samples))
	for i, row := range rows {
		kb := row.length / 1000
		if kb <= 0 {
			kb = 1 // zero/missing length treated as 1 kb
		}
		rpk[i] = make([]float64, len(samples))
		for s, c := range row.counts {
			v := c / kb
			rpk[i][s] = v
			colSums[s] += v
		}
	}

	factors := make([]float64, len(samples))
	for s, sum := range colSums {
		factors[s] = sum / 1e6
		if factors[s] == 0 {
			factors[s] = 1
		}
	}

	// Map: per-row TPM and log2 transform.
	out := make([]*Row, len(rows))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := runtime.NumCPU()
	if workers > len(rows) {
		workers = len(rows)
	}
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range jobs {
				values := make(map[string]float64, len(samples))
				for s, name := range samples {
					tpm := rpk[i][s] / factors[s]
					values[name] = math.Log2(tpm + 1)
				}
				out[i] = &Row{GeneID: rows[i].geneID, Meta: rows[i].meta, Values: values}
			}
		}()
	}
	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	m := &Matrix{
		Samples:    samples,
		Conditions: conditions(samples),
		Rows:       make(map[string]*Row, len(rows)),
	}
	for _, row := range out {
		if _, seen := m.Rows[row.GeneID]; !seen {
			m.GeneIDs = append(m.GeneIDs, row.GeneID)
		}
		m.Rows[row.GeneID] = row
	}
	return m
}

// ConditionOf derives the experimental condition from a sample name:
// the prefix before the first underscore (e.g. "d04" from
// "d04_rep1_sorted.bam"), or the whole name if there is none.
func ConditionOf(sample string) string {
	if idx := strings.Index(sample, "_"); idx != -1 {
		return sample[:idx]
	}
	return sample
}

// SamplesFor returns the sample columns belonging to a condition.
func (m *Matrix) SamplesFor(condition string) []string {
	var out []string
	for _, s := range m.Samples {
		if ConditionOf(s) == condition {
			out = append(out, s)
		}
	}
	return out
}

// conditions returns the deduplicated, naturally sorted condition
// prefixes of the sample names.
func conditions(samples []string) []string {
	seen := make(map[string]bool, len(samples))
	var out []string
	for _, s := range samples {
		c := ConditionOf(s)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	SortNatural(out)
	return out
}
