package aggregate

import (
	"testing"

	"evodash/domain/species"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneFrequency(t *testing.T) {
	tests := []struct {
		name    string
		records []species.Record
		expect  []ZoneCount
	}{
		{
			name:    "descending by count",
			records: []species.Record{{Zone: "A"}, {Zone: "A"}, {Zone: "B"}},
			expect:  []ZoneCount{{"A", 2}, {"B", 1}},
		},
		{
			name:    "ties keep encounter order",
			records: []species.Record{{Zone: "C"}, {Zone: "B"}, {Zone: "A"}, {Zone: "A"}},
			expect:  []ZoneCount{{"A", 2}, {"C", 1}, {"B", 1}},
		},
		{
			name:   "empty",
			expect: []ZoneCount{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ZoneFrequency(tt.records))
		})
	}
}

func TestLocationDistribution(t *testing.T) {
	got := LocationDistribution([]species.Record{{Location: "Africa"}, {Location: "Asia"}, {Location: "Africa"}})
	assert.Equal(t, []LocationCount{{"Africa", 2}, {"Asia", 1}}, got)
}

func TestSpeciesTraitsZeroFill(t *testing.T) {
	got := SpeciesTraits([]species.Record{
		{Species: "X", Height: 160, CranialCapacity: 1000},
		{Species: "X", Height: 0, CranialCapacity: 0},
		{Species: "Y"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, SpeciesTrait{Species: "X", MeanCranialCapacity: 500, MeanHeight: 80}, got[0])
	assert.Equal(t, SpeciesTrait{Species: "Y"}, got[1])
}

func TestTechnologyStacks(t *testing.T) {
	got := TechnologyStacks([]species.Record{
		{Species: "a", TechnologyType: "Mode 1", Time: 2},
		{Species: "b", TechnologyType: "Mode 2", Time: 1},
		{Species: "c", TechnologyType: "Mode 1", Time: 0.5},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "Mode 1", got[0].Technology)
	assert.Equal(t, []StackSegment{
		{Species: "a", Time: 2, Y0: 0, Y1: 2},
		{Species: "c", Time: 0.5, Y0: 2, Y1: 2.5},
	}, got[0].Segments)
	assert.Equal(t, 2.5, got[0].Total())
	assert.Equal(t, 1.0, got[1].Total())
	assert.Empty(t, TechnologyStacks(nil))
}

func TestToothSeries(t *testing.T) {
	got := ToothSeries([]species.Record{
		{IncisorSize: "Small", CanineSize: "big", Time: 2},
		{IncisorSize: "small", CanineSize: "huge", Time: 1},
		{IncisorSize: "megadont", Time: 3},
		{IncisorSize: "huge", Time: 9},
	})
	assert.Equal(t, []ToothPoint{
		{Category: SeriesIncisor, Size: "small", MeanTime: 1.5, Count: 2},
		{Category: SeriesIncisor, Size: "megadont", MeanTime: 3, Count: 1},
		{Category: SeriesCanine, Size: "big", MeanTime: 2, Count: 1},
	}, got)
}

func TestHabitatHierarchy(t *testing.T) {
	got := HabitatHierarchy([]species.Record{
		{Habitat: "savanna", Species: "a"},
		{Habitat: "forest", Species: "b"},
		{Habitat: "savanna", Species: "a"},
		{Habitat: "savanna", Species: "c"},
	})
	assert.Equal(t, []HabitatGroup{
		{Habitat: "savanna", Species: []SpeciesCount{{"a", 2}, {"c", 1}}, Total: 3},
		{Habitat: "forest", Species: []SpeciesCount{{"b", 1}}, Total: 1},
	}, got)
}

func TestTimelineEvents(t *testing.T) {
	got := TimelineEvents([]species.Record{
		{Species: "a", Time: 2, Country: "Kenya"},
		{Species: "b", Time: 4},
		{Species: "a", Time: 1, Country: "Chad"},
		{Species: "a", Time: 1, Country: "Niger"},
	})
	assert.Equal(t, []TimelineEvent{
		{Species: "a", Time: 1, Country: "Chad", Count: 3},
		{Species: "b", Time: 4, Count: 1},
	}, got)
}

func TestBubblePoints(t *testing.T) {
	got := BubblePoints([]species.Record{
		{Species: "a", Country: "K", Diet: "dry fruits", JawShape: "U", IncisorSize: "small"},
		{Species: "a", Country: "K", Diet: "dry fruits", JawShape: "U", IncisorSize: "big"},
		{Species: "a", Country: "T", Diet: "dry fruits", JawShape: "U", IncisorSize: "big"},
		{Species: "b", Country: "K", Diet: "", JawShape: "U", IncisorSize: "big"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "small", got[0].IncisorSize)
	assert.Equal(t, "T", got[1].Country)
}

func TestSummarize(t *testing.T) {
	empty := Summarize(nil)
	assert.True(t, empty.Empty())
	assert.Equal(t, NoData, empty.TimePeriod())

	s := Summarize([]species.Record{
		{Species: "a", Country: "K", Time: 0.31, CranialCapacity: 1400, Height: 170},
		{Species: "b", Country: "K", Time: 2.14, CranialCapacity: 600, Height: 0},
	})
	assert.Equal(t, 2, s.SpeciesCount)
	assert.Equal(t, 1, s.RegionCount)
	assert.Equal(t, 1000.0, s.MeanCranialCapacity)
	assert.Equal(t, 85.0, s.MeanHeight)
	assert.Equal(t, "0.3M - 2.1M", s.TimePeriod())

	single := Summarize([]species.Record{{Species: "a", Time: 1.21}, {Species: "a", Time: 1.24}})
	assert.Equal(t, "1.2M", single.TimePeriod())
}

func TestComputeIsFresh(t *testing.T) {
	recs := []species.Record{{Species: "a", Zone: "A"}}
	first := Compute(recs)
	first.Zones[0].Frequency = 99
	assert.Equal(t, 1, Compute(recs).Zones[0].Frequency)
}
