package aggregate

import (
	"strconv"

	"evodash/domain/species"

	"gonum.org/v1/gonum/floats"
)

// NoData is the time period text shown for an empty subset.
const NoData = "No data available "

// Summary holds the headline statistics of a filtered subset.
type Summary struct {
	Records             int     `json:"records"`
	SpeciesCount        int     `json:"species_count"`
	RegionCount         int     `json:"region_count"`
	MinTime             float64 `json:"min_time"`
	MaxTime             float64 `json:"max_time"`
	MeanCranialCapacity float64 `json:"mean_cranial_capacity"`
	MeanHeight          float64 `json:"mean_height"`
}

// Empty reports whether the subset had no records.
func (s Summary) Empty() bool { return s.Records == 0 }

// TimePeriod renders the time extent with one decimal, e.g. "0.3M - 2.1M",
// collapsing to a single value when both ends round the same.
func (s Summary) TimePeriod() string {
	if s.Empty() {
		return NoData
	}
	start := strconv.FormatFloat(s.MinTime, 'f', 1, 64)
	end := strconv.FormatFloat(s.MaxTime, 'f', 1, 64)
	if start == end {
		return start + "M"
	}
	return start + "M - " + end + "M"
}

// Summarize computes distinct species and region counts, the time extent and
// mean traits.
func Summarize(records []species.Record) Summary {
	s := Summary{Records: len(records)}
	if len(records) == 0 {
		return s
	}

	speciesSeen := make(map[string]bool)
	regionSeen := make(map[string]bool)
	times := make([]float64, len(records))
	cranial := make([]float64, len(records))
	height := make([]float64, len(records))
	for i, r := range records {
		speciesSeen[r.Species] = true
		regionSeen[r.Country] = true
		times[i] = r.Time
		cranial[i] = r.CranialCapacity
		height[i] = r.Height
	}

	s.SpeciesCount = len(speciesSeen)
	s.RegionCount = len(regionSeen)
	s.MinTime = floats.Min(times)
	s.MaxTime = floats.Max(times)
	s.MeanCranialCapacity = floats.Sum(cranial) / float64(len(records))
	s.MeanHeight = mean(height)
	return s
}

// Set is every aggregate of one coordination pass.
type Set struct {
	Zones     []ZoneCount       `json:"zones"`
	Locations []LocationCount   `json:"locations"`
	Traits    []SpeciesTrait    `json:"traits"`
	Stacks    []TechnologyStack `json:"stacks"`
	Tooth     []ToothPoint      `json:"tooth"`
	Habitats  []HabitatGroup    `json:"habitats"`
	Timeline  []TimelineEvent   `json:"timeline"`
	Countries []CountryCount    `json:"countries"`
	Bubbles   []BubblePoint     `json:"bubbles"`
	Summary   Summary           `json:"summary"`
}

// Compute evaluates every aggregate once over records.
func Compute(records []species.Record) *Set {
	return &Set{
		Zones:     ZoneFrequency(records),
		Locations: LocationDistribution(records),
		Traits:    SpeciesTraits(records),
		Stacks:    TechnologyStacks(records),
		Tooth:     ToothSeries(records),
		Habitats:  HabitatHierarchy(records),
		Timeline:  TimelineEvents(records),
		Countries: CountryCounts(records),
		Bubbles:   BubblePoints(records),
		Summary:   Summarize(records),
	}
}
