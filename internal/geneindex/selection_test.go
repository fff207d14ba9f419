package geneindex

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seqlab/tpmplot/internal/profile"
)

func TestSelection_ToggleAddAndRemove(t *testing.T) {
	s := NewSelection()

	s = s.ToggleGene("g1")
	s = s.ToggleGene("g2")
	s = s.ToggleGene("g3")
	assert.Equal(t, []string{"g1", "g2", "g3"}, s.Genes)

	// Toggling a selected gene removes it and keeps the rest in order.
	s = s.ToggleGene("g2")
	assert.Equal(t, []string{"g1", "g3"}, s.Genes)

	// Re-adding appends at the end.
	s = s.ToggleGene("g2")
	assert.Equal(t, []string{"g1", "g3", "g2"}, s.Genes)
}

func TestSelection_CapAtSeven(t *testing.T) {
	s := NewSelection()
	for i := 1; i <= 7; i++ {
		s = s.ToggleGene(fmt.Sprintf("g%d", i))
	}
	assert.Len(t, s.Genes, MaxSelection)

	// An eighth distinct gene leaves the selection unchanged.
	before := s.Genes
	s = s.ToggleGene("g8")
	assert.Equal(t, before, s.Genes)

	// Removal still works at the cap.
	s = s.ToggleGene("g1")
	assert.Len(t, s.Genes, 6)
}

func TestSelection_SnapshotsAreIndependent(t *testing.T) {
	s1 := NewSelection().ToggleGene("g1")
	s2 := s1.ToggleGene("g2")
	assert.Equal(t, []string{"g1"}, s1.Genes)
	assert.Equal(t, []string{"g1", "g2"}, s2.Genes)
}

func TestSelection_CycleSort(t *testing.T) {
	s := NewSelection()
	assert.Equal(t, SortConfig{Key: SortByID}, s.Sort)

	// Same key toggles direction.
	s = s.CycleSort(SortByID)
	assert.Equal(t, SortConfig{Key: SortByID, Descending: true}, s.Sort)
	s = s.CycleSort(SortByID)
	assert.Equal(t, SortConfig{Key: SortByID, Descending: false}, s.Sort)

	// New key resets to ascending.
	s = s.CycleSort(SortByExpression)
	s = s.CycleSort(SortByExpression)
	assert.True(t, s.Sort.Descending)
	s = s.CycleSort(SortByName)
	assert.Equal(t, SortConfig{Key: SortByName, Descending: false}, s.Sort)
}

func TestSelection_WithMode(t *testing.T) {
	s := NewSelection()
	assert.Equal(t, profile.ModeSense, s.Mode)

	s = s.WithMode(profile.ModeAntisense, true, false)
	assert.Equal(t, profile.ModeAntisense, s.Mode)

	// Both requires both orientations.
	s = s.WithMode(profile.ModeBoth, true, false)
	assert.Equal(t, profile.ModeAntisense, s.Mode)
	s = s.WithMode(profile.ModeBoth, true, true)
	assert.Equal(t, profile.ModeBoth, s.Mode)

	// Unknown modes are ignored.
	s = s.WithMode(profile.StrandMode("sideways"), true, true)
	assert.Equal(t, profile.ModeBoth, s.Mode)
}
