package species

import "fmt"

// FilterState is the current species/region/time selection.
type FilterState struct {
	Species       string  `json:"species"`
	Region        string  `json:"region"`
	TimeThreshold float64 `json:"time"`
}

func (f FilterState) String() string {
	return fmt.Sprintf("species=%q region=%q time<=%g", f.Species, f.Region, f.TimeThreshold)
}

// SpeciesSelected reports whether a specific species is selected.
func (f FilterState) SpeciesSelected() bool {
	return f.Species != "" && f.Species != All
}

// Matches reports whether r satisfies every active predicate. The time
// comparison is inclusive.
func (f FilterState) Matches(r Record) bool {
	if f.SpeciesSelected() && r.Species != f.Species {
		return false
	}
	if f.Region != "" && f.Region != All && r.Country != f.Region {
		return false
	}
	return r.Time <= f.TimeThreshold
}

// SelectSpecies returns the state produced by clicking a species-keyed chart
// element. It has no side effects; callers hand the result to the controller.
func SelectSpecies(current FilterState, name string) FilterState {
	next := current
	if name == "" {
		next.Species = All
	} else {
		next.Species = name
	}
	return next
}
