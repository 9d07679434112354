package species

import (
	"math"
	"strconv"
	"strings"
)

var mappedColumns = map[string]bool{
	ColSpecies: true, ColCountry: true, ColZone: true, ColLocation: true,
	ColHabitat: true, ColDiet: true, ColJawShape: true, ColTechnology: true,
	ColIncisorSize: true, ColCanineSize: true, ColTime: true,
	ColCranialCapacity: true, ColHeight: true, ColPrognathism: true, ColForamen: true,
}

// NormalizeRow converts one raw source row into a Record. Absent or
// non-numeric values in numeric columns become 0, so every numeric field of
// the result is finite.
func NormalizeRow(row map[string]string) Record {
	get := func(col string) string { return strings.TrimSpace(row[col]) }

	r := Record{
		Species:        get(ColSpecies),
		Country:        get(ColCountry),
		Zone:           get(ColZone),
		Location:       get(ColLocation),
		Habitat:        get(ColHabitat),
		Diet:           get(ColDiet),
		JawShape:       get(ColJawShape),
		TechnologyType: get(ColTechnology),
		IncisorSize:    get(ColIncisorSize),
		CanineSize:     get(ColCanineSize),

		Time:            ParseNumber(get(ColTime)),
		CranialCapacity: ParseNumber(get(ColCranialCapacity)),
		Height:          ParseNumber(get(ColHeight)),
		Prognathism:     ParseNumber(get(ColPrognathism)),
		Foramen:         ParseNumber(get(ColForamen)),
	}

	for k, v := range row {
		if mappedColumns[k] {
			continue
		}
		if r.Attributes == nil {
			r.Attributes = make(map[string]string)
		}
		r.Attributes[k] = strings.TrimSpace(v)
	}
	return r
}

// ParseNumber parses a decimal number, returning 0 for empty, malformed or
// non-finite input.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
