package aggregate

import (
	"fmt"
	"strings"

	"evodash/domain/species"
)

// ToothSizes is the ordered size vocabulary, smallest first.
var ToothSizes = []string{"very small", "small", "medium large", "big", "megadont"}

// Tooth series names.
const (
	SeriesIncisor = "Incisor"
	SeriesCanine  = "Canine"
)

// ToothPoint is one size category of a tooth series.
type ToothPoint struct {
	Category string  `json:"category"`
	Size     string  `json:"size"`
	MeanTime float64 `json:"mean_time"`
	Count    int     `json:"count"`
}

// ToothSeries averages record time per size category for incisors and then
// canines. Sizes are matched case-insensitively; values outside the
// vocabulary, including empty ones, are excluded. Points within a series
// follow the first occurrence of each size.
func ToothSeries(records []species.Record) []ToothPoint {
	out := toothSeries(records, SeriesIncisor, func(r species.Record) string { return r.IncisorSize })
	return append(out, toothSeries(records, SeriesCanine, func(r species.Record) string { return r.CanineSize })...)
}

func toothSeries(records []species.Record, category string, size func(species.Record) string) []ToothPoint {
	var order []string
	times := make(map[string][]float64)
	for _, r := range records {
		s := strings.ToLower(size(r))
		if !IsToothSize(s) {
			continue
		}
		if _, ok := times[s]; !ok {
			order = append(order, s)
		}
		times[s] = append(times[s], r.Time)
	}
	out := make([]ToothPoint, 0, len(order))
	for _, s := range order {
		out = append(out, ToothPoint{Category: category, Size: s, MeanTime: mean(times[s]), Count: len(times[s])})
	}
	return out
}

// IsToothSize reports whether s (already lower-cased) is in the vocabulary.
func IsToothSize(s string) bool {
	for _, v := range ToothSizes {
		if v == s {
			return true
		}
	}
	return false
}

// SpeciesCount is a leaf of the habitat hierarchy.
type SpeciesCount struct {
	Species string `json:"species"`
	Count   int    `json:"count"`
}

// HabitatGroup is a habitat with its species counts, both in encounter order.
type HabitatGroup struct {
	Habitat string         `json:"habitat"`
	Species []SpeciesCount `json:"species"`
	Total   int            `json:"total"`
}

// HabitatHierarchy builds the habitat -> species -> count tree.
func HabitatHierarchy(records []species.Record) []HabitatGroup {
	out := []HabitatGroup{}
	habitats := make(map[string]int)
	leaves := make(map[string]map[string]int)
	for _, r := range records {
		h, ok := habitats[r.Habitat]
		if !ok {
			h = len(out)
			habitats[r.Habitat] = h
			leaves[r.Habitat] = make(map[string]int)
			out = append(out, HabitatGroup{Habitat: r.Habitat})
		}
		s, ok := leaves[r.Habitat][r.Species]
		if !ok {
			s = len(out[h].Species)
			leaves[r.Habitat][r.Species] = s
			out[h].Species = append(out[h].Species, SpeciesCount{Species: r.Species})
		}
		out[h].Species[s].Count++
		out[h].Total++
	}
	return out
}

// TimelineEvent marks a species' earliest-time record.
type TimelineEvent struct {
	Species string  `json:"species"`
	Time    float64 `json:"time"`
	Country string  `json:"country"`
	Count   int     `json:"count"`
}

// TimelineEvents returns, per species in encounter order, the record with the
// smallest time (first one on ties) and the species' record count.
func TimelineEvents(records []species.Record) []TimelineEvent {
	out := []TimelineEvent{}
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.Species]
		if !ok {
			index[r.Species] = len(out)
			out = append(out, TimelineEvent{Species: r.Species, Time: r.Time, Country: r.Country, Count: 1})
			continue
		}
		out[i].Count++
		if r.Time < out[i].Time {
			out[i].Time = r.Time
			out[i].Country = r.Country
		}
	}
	return out
}

// CountryCount is a choropleth input value.
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// CountryCounts counts records per current country in encounter order.
func CountryCounts(records []species.Record) []CountryCount {
	c := newCounter()
	for _, r := range records {
		c.add(r.Country)
	}
	out := make([]CountryCount, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, CountryCount{Country: k, Count: c.counts[k]})
	}
	return out
}

// BubblePoint is one deduplicated bubble.
type BubblePoint struct {
	Species     string `json:"species"`
	Country     string `json:"country"`
	Diet        string `json:"diet"`
	JawShape    string `json:"jaw_shape"`
	IncisorSize string `json:"incisor_size"`
}

// Key identifies a bubble for deduplication.
func (b BubblePoint) Key() string {
	return fmt.Sprintf("%s-%s-%s-%s", b.Diet, b.JawShape, b.Species, b.Country)
}

// BubblePoints keeps records that have diet, jaw shape and incisor size,
// deduplicated on (diet, jaw shape, species, country). The first occurrence
// wins.
func BubblePoints(records []species.Record) []BubblePoint {
	out := []BubblePoint{}
	seen := make(map[string]bool)
	for _, r := range records {
		if r.Diet == "" || r.JawShape == "" || r.IncisorSize == "" {
			continue
		}
		p := BubblePoint{Species: r.Species, Country: r.Country, Diet: r.Diet, JawShape: r.JawShape, IncisorSize: r.IncisorSize}
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		out = append(out, p)
	}
	return out
}
