// Package output provides profile output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/seqlab/tpmplot/internal/profile"
)

// ProfileWriter writes aggregated profile points.
type ProfileWriter interface {
	WriteHeader() error
	WritePoint(p profile.Point) error
	Flush() error
}

// TabWriter writes profile points in tab-delimited format, one line per
// condition/gene/strand series entry.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Condition",
			"Gene",
			"Strand",
			"Mean_log2TPM",
			"Lower",
			"Upper",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// WritePoint writes all series entries of one condition point.
func (tw *TabWriter) WritePoint(p profile.Point) error {
	for _, s := range p.Series {
		_, err := fmt.Fprintf(tw.w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Condition, s.GeneID, s.Strand,
			formatValue(s.Mean), formatValue(s.Range[0]), formatValue(s.Range[1]))
		if err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
