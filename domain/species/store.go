package species

import "math"

// Store owns the loaded record set. It is read-only after construction and
// safe for concurrent readers.
type Store struct {
	records []Record
	source  string

	speciesOptions []string
	regionOptions  []string
	minTime        float64
	maxTime        float64
}

// NewStore takes ownership of records.
func NewStore(source string, records []Record) *Store {
	s := &Store{records: records, source: source}
	s.speciesOptions = distinctWithAll(records, func(r Record) string { return r.Species })
	s.regionOptions = distinctWithAll(records, func(r Record) string { return r.Country })

	if len(records) > 0 {
		s.minTime, s.maxTime = math.Inf(1), math.Inf(-1)
		for _, r := range records {
			s.minTime = math.Min(s.minTime, r.Time)
			s.maxTime = math.Max(s.maxTime, r.Time)
		}
	}
	return s
}

func distinctWithAll(records []Record, key func(Record) string) []string {
	seen := make(map[string]bool)
	out := []string{All}
	for _, r := range records {
		k := key(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Source returns the URI the store was loaded from.
func (s *Store) Source() string { return s.source }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of the full record set.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// SpeciesOptions lists "All" followed by every species in first-seen order.
func (s *Store) SpeciesOptions() []string { return append([]string(nil), s.speciesOptions...) }

// RegionOptions lists "All" followed by every region in first-seen order.
func (s *Store) RegionOptions() []string { return append([]string(nil), s.regionOptions...) }

// TimeRange returns the observed time extent; both are 0 for an empty store.
func (s *Store) TimeRange() (min, max float64) { return s.minTime, s.maxTime }

// DefaultFilter is the initial state: no species or region constraint and the
// threshold at the oldest observed time.
func (s *Store) DefaultFilter() FilterState {
	return FilterState{Species: All, Region: All, TimeThreshold: s.maxTime}
}

// Clamp fills empty selectors with All and keeps the threshold inside the
// observed time range.
func (s *Store) Clamp(f FilterState) FilterState {
	if f.Species == "" {
		f.Species = All
	}
	if f.Region == "" {
		f.Region = All
	}
	if math.IsNaN(f.TimeThreshold) || f.TimeThreshold > s.maxTime {
		f.TimeThreshold = s.maxTime
	}
	if f.TimeThreshold < s.minTime {
		f.TimeThreshold = s.minTime
	}
	return f
}

// HasSpecies reports whether name is All or occurs in the dataset.
func (s *Store) HasSpecies(name string) bool { return contains(s.speciesOptions, name) }

// HasRegion reports whether name is All or occurs in the dataset.
func (s *Store) HasRegion(name string) bool { return contains(s.regionOptions, name) }

func contains(options []string, name string) bool {
	for _, o := range options {
		if o == name {
			return true
		}
	}
	return false
}

// Filter rebuilds the filtered subset from the full record set. The result
// is a fresh slice; the store is never modified.
func (s *Store) Filter(f FilterState) []Record {
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
