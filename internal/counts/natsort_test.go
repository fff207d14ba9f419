package counts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"T1", "T2", true},
		{"T2", "T10", true},
		{"T10", "T2", false},
		{"T2", "T2", false},
		{"d04", "d21", true},
		{"a", "b", true},
		{"T1", "T1a", true},
		{"T02", "T2", false}, // equal numeric runs, equal remainder
		{"T2", "T02", false},
		{"", "T1", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NaturalLess(tt.a, tt.b), "NaturalLess(%q, %q)", tt.a, tt.b)
	}
}

func TestSortNatural(t *testing.T) {
	s := []string{"T10", "T2", "T1", "ctrl"}
	SortNatural(s)
	assert.Equal(t, []string{"T1", "T2", "T10", "ctrl"}, s)
}
