package main

import (
	"fmt"

	"evodash/domain/species"
	"evodash/internal/aggregate"

	"github.com/xuri/excelize/v2"
)

// sheet is one worksheet: a header row followed by data rows.
type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

// workbookSheets lays out every aggregate of a pass, summary first.
func workbookSheets(set *aggregate.Set, state species.FilterState) []sheet {
	s := set.Summary
	sheets := []sheet{{
		name:   "Summary",
		header: []interface{}{"Metric", "Value"},
		rows: [][]interface{}{
			{"Species filter", state.Species},
			{"Region filter", state.Region},
			{"Time threshold (Mya)", state.TimeThreshold},
			{"Records", s.Records},
			{"Species", s.SpeciesCount},
			{"Regions", s.RegionCount},
			{"Time period", s.TimePeriod()},
			{"Mean cranial capacity (cc)", s.MeanCranialCapacity},
			{"Mean height (cm)", s.MeanHeight},
		},
	}}

	zones := sheet{name: "Zones", header: []interface{}{"Zone", "Frequency"}}
	for _, z := range set.Zones {
		zones.rows = append(zones.rows, []interface{}{z.Zone, z.Frequency})
	}
	locations := sheet{name: "Locations", header: []interface{}{"Location", "Count"}}
	for _, l := range set.Locations {
		locations.rows = append(locations.rows, []interface{}{l.Location, l.Count})
	}
	traits := sheet{name: "Traits", header: []interface{}{"Species", "Mean cranial capacity", "Mean height"}}
	for _, t := range set.Traits {
		traits.rows = append(traits.rows, []interface{}{t.Species, t.MeanCranialCapacity, t.MeanHeight})
	}
	stacks := sheet{name: "Technology", header: []interface{}{"Technology", "Species", "Time", "Y0", "Y1"}}
	for _, st := range set.Stacks {
		for _, seg := range st.Segments {
			stacks.rows = append(stacks.rows, []interface{}{st.Technology, seg.Species, seg.Time, seg.Y0, seg.Y1})
		}
	}
	tooth := sheet{name: "Tooth", header: []interface{}{"Series", "Size", "Mean time", "Records"}}
	for _, p := range set.Tooth {
		tooth.rows = append(tooth.rows, []interface{}{p.Category, p.Size, p.MeanTime, p.Count})
	}
	habitats := sheet{name: "Habitats", header: []interface{}{"Habitat", "Species", "Count"}}
	for _, h := range set.Habitats {
		for _, sc := range h.Species {
			habitats.rows = append(habitats.rows, []interface{}{h.Habitat, sc.Species, sc.Count})
		}
	}
	timeline := sheet{name: "Timeline", header: []interface{}{"Species", "Earliest (Mya)", "Country", "Records"}}
	for _, e := range set.Timeline {
		timeline.rows = append(timeline.rows, []interface{}{e.Species, e.Time, e.Country, e.Count})
	}
	countries := sheet{name: "Countries", header: []interface{}{"Country", "Records"}}
	for _, c := range set.Countries {
		countries.rows = append(countries.rows, []interface{}{c.Country, c.Count})
	}
	bubbles := sheet{name: "Bubbles", header: []interface{}{"Species", "Country", "Diet", "Jaw shape", "Incisor size"}}
	for _, b := range set.Bubbles {
		bubbles.rows = append(bubbles.rows, []interface{}{b.Species, b.Country, b.Diet, b.JawShape, b.IncisorSize})
	}

	return append(sheets, zones, locations, traits, stacks, tooth, habitats, timeline, countries, bubbles)
}

// writeWorkbook saves the aggregates of a pass to an .xlsx file.
func writeWorkbook(set *aggregate.Set, state species.FilterState, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range workbookSheets(set, state) {
		if i == 0 {
			// reuse the default sheet so the workbook opens on the summary
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sh.name, err)
		}

		header := sh.header
		if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
			return fmt.Errorf("write %s header: %w", sh.name, err)
		}
		for r, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			row := row
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return fmt.Errorf("write %s row %d: %w", sh.name, r+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
