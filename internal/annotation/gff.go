// Package annotation parses GFF3-style genome annotation text into
// per-feature descriptive records.
package annotation

import (
	"bufio"
	"io"
	"net/url"
	"strings"
)

// Record describes one annotated feature.
//
// GeneName is empty when the annotation carries no gene symbol.
type Record struct {
	Product  string `json:"product"`
	GeneName string `json:"geneName,omitempty"`
	Biotype  string `json:"biotype"`
}

// Fallback product when a feature line carries neither a product nor a
// description attribute.
const defaultProduct = "Hypothetical protein"

// Parse reads GFF3-style annotation text and returns records keyed by
// feature identifier (locus_tag preferred, ID otherwise).
//
// Parsing is total: comment and blank lines are skipped, lines with
// fewer than nine tab-delimited columns are skipped, lines with no
// resolvable identifier are dropped, and a later line under the same
// identifier fully overwrites the earlier record.
func Parse(r io.Reader) map[string]Record {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	records := make(map[string]Record)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 9 {
			continue
		}

		attrs := parseAttributes(fields[8])

		id := attrs["locus_tag"]
		if id == "" {
			id = attrs["ID"]
		}
		if id == "" {
			continue
		}

		product := attrs["product"]
		if product == "" {
			product = attrs["description"]
		}
		if product == "" {
			product = defaultProduct
		}

		name := attrs["Name"]
		if name == "" {
			name = attrs["gene"]
		}

		records[id] = Record{
			Product:  product,
			GeneName: name,
			Biotype:  fields[2],
		}
	}
	return records
}

// ParseString parses annotation text held in memory.
func ParseString(text string) map[string]Record {
	return Parse(strings.NewReader(text))
}

// parseAttributes parses the GFF3 attribute column.
// Format: key=value;key=value;... with percent-encoded values.
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.Index(part, "=")
		if idx == -1 {
			continue
		}
		key := part[:idx]
		attrs[key] = decodeValue(part[idx+1:])
	}
	return attrs
}

// decodeValue percent-decodes an attribute value, keeping the raw text
// when decoding fails rather than dropping the attribute.
func decodeValue(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
