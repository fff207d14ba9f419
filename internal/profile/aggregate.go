// Package profile aggregates normalized expression values into
// per-condition summary points for charting.
package profile

import (
	"math"

	"github.com/seqlab/tpmplot/internal/counts"
)

// StrandMode selects which count-matrix orientation feeds a profile.
type StrandMode string

const (
	ModeSense     StrandMode = "sense"
	ModeAntisense StrandMode = "antisense"
	ModeBoth      StrandMode = "both"
)

// SeriesStat is the summary for one gene in one strand orientation at
// one condition: replicate mean plus a [low, high] spread band.
type SeriesStat struct {
	GeneID string     `json:"geneId"`
	Strand StrandMode `json:"strand"`
	Mean   float64    `json:"mean"`
	Range  [2]float64 `json:"range"`
}

// Point carries the stats of all selected genes at one condition.
// Series order follows selection order (sense before antisense for the
// same gene), so downstream color assignment stays stable.
type Point struct {
	Condition string       `json:"condition"`
	Series    []SeriesStat `json:"series"`
}

// Aggregate computes one Point per condition, in natural condition
// order, for the selected genes under the given strand mode.
//
// Either matrix may be nil; conditions are the union over whatever
// in-scope matrices are present. Non-finite values are discarded, and a
// gene/condition/strand combination with no finite values is omitted
// rather than emitted as zero. The spread band is mean ± population
// standard deviation with the lower bound clamped at 0, since
// log2(TPM+1) values are non-negative.
func Aggregate(sense, antisense *counts.Matrix, mode StrandMode, genes []string) []Point {
	type strandMatrix struct {
		strand StrandMode
		m      *counts.Matrix
	}
	var scope []strandMatrix
	if mode == ModeSense || mode == ModeBoth {
		if sense != nil {
			scope = append(scope, strandMatrix{ModeSense, sense})
		}
	}
	if mode == ModeAntisense || mode == ModeBoth {
		if antisense != nil {
			scope = append(scope, strandMatrix{ModeAntisense, antisense})
		}
	}
	if len(scope) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var conds []string
	for _, sm := range scope {
		for _, c := range sm.m.Conditions {
			if !seen[c] {
				seen[c] = true
				conds = append(conds, c)
			}
		}
	}
	counts.SortNatural(conds)

	points := make([]Point, 0, len(conds))
	for _, cond := range conds {
		p := Point{Condition: cond}
		for _, gene := range genes {
			for _, sm := range scope {
				row := sm.m.Rows[gene]
				if row == nil {
					continue
				}
				var values []float64
				for _, sample := range sm.m.SamplesFor(cond) {
					v, ok := row.Values[sample]
					if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
						continue
					}
					values = append(values, v)
				}
				if len(values) == 0 {
					continue
				}
				mean, std := meanStd(values)
				low := mean - std
				if low < 0 {
					low = 0
				}
				p.Series = append(p.Series, SeriesStat{
					GeneID: gene,
					Strand: sm.strand,
					Mean:   mean,
					Range:  [2]float64{low, mean + std},
				})
			}
		}
		points = append(points, p)
	}
	return points
}

// meanStd returns the arithmetic mean and the population standard
// deviation (divide by N, not N-1) of values.
func meanStd(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
