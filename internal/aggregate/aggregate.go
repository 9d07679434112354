// Package aggregate derives chart-ready summaries from a filtered record
// subset. Every function is pure and returns a fresh result; an empty input
// yields an empty result, never an error.
package aggregate

import (
	"sort"

	"evodash/domain/species"

	"github.com/montanaflynn/stats"
)

// ZoneCount is one bar of the zone frequency chart.
type ZoneCount struct {
	Zone      string `json:"zone"`
	Frequency int    `json:"frequency"`
}

// LocationCount is one slice of the location pie.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// SpeciesTrait holds per-species means over zero-filled trait values.
type SpeciesTrait struct {
	Species             string  `json:"species"`
	MeanCranialCapacity float64 `json:"mean_cranial_capacity"`
	MeanHeight          float64 `json:"mean_height"`
}

// StackSegment is one record's contribution to a technology column.
// Y1 - Y0 == Time.
type StackSegment struct {
	Species string  `json:"species"`
	Time    float64 `json:"time"`
	Y0      float64 `json:"y0"`
	Y1      float64 `json:"y1"`
}

// TechnologyStack is one column of the stacked bar chart.
type TechnologyStack struct {
	Technology string         `json:"technology"`
	Segments   []StackSegment `json:"segments"`
}

// Total is the column height.
func (t TechnologyStack) Total() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].Y1
}

// counter counts keys while remembering first-seen order.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter { return &counter{counts: make(map[string]int)} }

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// ZoneFrequency counts records per zone, most frequent first. Equal counts
// keep first-encountered order.
func ZoneFrequency(records []species.Record) []ZoneCount {
	c := newCounter()
	for _, r := range records {
		c.add(r.Zone)
	}
	out := make([]ZoneCount, 0, len(c.order))
	for _, z := range c.order {
		out = append(out, ZoneCount{Zone: z, Frequency: c.counts[z]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Frequency > out[j].Frequency })
	return out
}

// LocationDistribution counts records per location in encounter order.
func LocationDistribution(records []species.Record) []LocationCount {
	c := newCounter()
	for _, r := range records {
		c.add(r.Location)
	}
	out := make([]LocationCount, 0, len(c.order))
	for _, l := range c.order {
		out = append(out, LocationCount{Location: l, Count: c.counts[l]})
	}
	return out
}

// SpeciesTraits averages cranial capacity and height per species. Missing
// values were normalized to 0 at load and count toward the mean.
func SpeciesTraits(records []species.Record) []SpeciesTrait {
	var order []string
	cranial := make(map[string]stats.Float64Data)
	height := make(map[string]stats.Float64Data)
	for _, r := range records {
		if _, ok := cranial[r.Species]; !ok {
			order = append(order, r.Species)
		}
		cranial[r.Species] = append(cranial[r.Species], r.CranialCapacity)
		height[r.Species] = append(height[r.Species], r.Height)
	}

	out := make([]SpeciesTrait, 0, len(order))
	for _, s := range order {
		out = append(out, SpeciesTrait{
			Species:             s,
			MeanCranialCapacity: mean(cranial[s]),
			MeanHeight:          mean(height[s]),
		})
	}
	return out
}

// TechnologyStacks groups records by technology type in encounter order and
// stacks each group's times in record order.
func TechnologyStacks(records []species.Record) []TechnologyStack {
	var out []TechnologyStack
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.TechnologyType]
		if !ok {
			i = len(out)
			index[r.TechnologyType] = i
			out = append(out, TechnologyStack{Technology: r.TechnologyType})
		}
		y0 := out[i].Total()
		out[i].Segments = append(out[i].Segments, StackSegment{
			Species: r.Species,
			Time:    r.Time,
			Y0:      y0,
			Y1:      y0 + r.Time,
		})
	}
	if out == nil {
		out = []TechnologyStack{}
	}
	return out
}

// mean returns 0 for an empty series instead of an error.
func mean(data stats.Float64Data) float64 {
	m, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return m
}
