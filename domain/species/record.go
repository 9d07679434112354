package species

// Source column names of the evolution dataset.
const (
	ColSpecies         = "Genus_&_Specie"
	ColCountry         = "Current_Country"
	ColZone            = "Zone"
	ColLocation        = "Location"
	ColHabitat         = "Habitat"
	ColDiet            = "Diet"
	ColJawShape        = "Jaw_Shape"
	ColTechnology      = "Tecno_type"
	ColIncisorSize     = "Incisor_Size"
	ColCanineSize      = "Canine Size"
	ColTime            = "Time"
	ColCranialCapacity = "Cranial_Capacity"
	ColHeight          = "Height"
	ColPrognathism     = "Prognathism"
	ColForamen         = "Foramen"
)

// All is the filter sentinel meaning "no constraint on this dimension".
const All = "All"

// Record is one normalized row of the species dataset. Numeric fields are
// always finite; categorical fields are trimmed source text and may be empty.
type Record struct {
	Species        string `json:"species"`
	Country        string `json:"country"`
	Zone           string `json:"zone"`
	Location       string `json:"location"`
	Habitat        string `json:"habitat"`
	Diet           string `json:"diet"`
	JawShape       string `json:"jaw_shape"`
	TechnologyType string `json:"technology_type"`
	IncisorSize    string `json:"incisor_size"`
	CanineSize     string `json:"canine_size"`

	Time            float64 `json:"time"` // millions of years ago
	CranialCapacity float64 `json:"cranial_capacity"`
	Height          float64 `json:"height"`
	Prognathism     float64 `json:"prognathism"`
	Foramen         float64 `json:"foramen"`

	// Attributes holds every source column not mapped above.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Field returns the categorical value stored under a source column name.
func (r Record) Field(column string) string {
	switch column {
	case ColSpecies:
		return r.Species
	case ColCountry:
		return r.Country
	case ColZone:
		return r.Zone
	case ColLocation:
		return r.Location
	case ColHabitat:
		return r.Habitat
	case ColDiet:
		return r.Diet
	case ColJawShape:
		return r.JawShape
	case ColTechnology:
		return r.TechnologyType
	case ColIncisorSize:
		return r.IncisorSize
	case ColCanineSize:
		return r.CanineSize
	}
	return r.Attributes[column]
}
