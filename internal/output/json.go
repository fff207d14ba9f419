package output

import (
	"encoding/json"
	"io"

	"github.com/seqlab/tpmplot/internal/profile"
)

// JSONWriter writes profile points as a single JSON array, the shape a
// dashboard frontend consumes directly.
type JSONWriter struct {
	w      io.Writer
	points []profile.Point
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

// WriteHeader is a no-op; JSON output has no header line.
func (jw *JSONWriter) WriteHeader() error { return nil }

// WritePoint buffers one condition point.
func (jw *JSONWriter) WritePoint(p profile.Point) error {
	jw.points = append(jw.points, p)
	return nil
}

// Flush encodes the buffered points.
func (jw *JSONWriter) Flush() error {
	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	if jw.points == nil {
		return enc.Encode([]profile.Point{})
	}
	return enc.Encode(jw.points)
}
