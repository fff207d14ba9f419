package geneindex

import "github.com/seqlab/tpmplot/internal/profile"

// Selection is the one mutable piece of browsing state: an ordered set
// of at most MaxSelection genes, the active strand mode, and the sort
// configuration. Values are immutable snapshots; every operation
// returns an updated copy.
type Selection struct {
	Genes []string           `json:"genes"`
	Mode  profile.StrandMode `json:"mode"`
	Sort  SortConfig         `json:"sort"`
}

// NewSelection returns the default state: nothing selected, sense
// orientation, identifiers ascending.
func NewSelection() Selection {
	return Selection{
		Mode: profile.ModeSense,
		Sort: SortConfig{Key: SortByID},
	}
}

// ToggleGene removes id if selected, otherwise appends it. Appending is
// a no-op once MaxSelection genes are selected. Selection order is
// preserved for stable series/color assignment downstream.
func (s Selection) ToggleGene(id string) Selection {
	for i, g := range s.Genes {
		if g == id {
			genes := make([]string, 0, len(s.Genes)-1)
			genes = append(genes, s.Genes[:i]...)
			genes = append(genes, s.Genes[i+1:]...)
			s.Genes = genes
			return s
		}
	}
	if len(s.Genes) >= MaxSelection {
		return s
	}
	genes := make([]string, len(s.Genes), len(s.Genes)+1)
	copy(genes, s.Genes)
	s.Genes = append(genes, id)
	return s
}

// CycleSort selects a sort key; re-selecting the active key toggles the
// direction, a new key starts ascending.
func (s Selection) CycleSort(key SortKey) Selection {
	if s.Sort.Key == key {
		s.Sort.Descending = !s.Sort.Descending
	} else {
		s.Sort = SortConfig{Key: key}
	}
	return s
}

// WithMode switches the strand mode. ModeBoth is only selectable when
// both orientations are loaded; an invalid switch leaves the state
// unchanged.
func (s Selection) WithMode(mode profile.StrandMode, haveSense, haveAntisense bool) Selection {
	switch mode {
	case profile.ModeSense, profile.ModeAntisense:
		s.Mode = mode
	case profile.ModeBoth:
		if haveSense && haveAntisense {
			s.Mode = mode
		}
	}
	return s
}
