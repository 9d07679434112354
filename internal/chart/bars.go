package chart

import (
	"fmt"
	"math"
	"strconv"

	"evodash/internal/aggregate"
)

// BarChart draws zone frequencies as vertical bars.
func BarChart(zones []aggregate.ZoneCount, m *Mount) error {
	if err := begin(m); err != nil {
		return err
	}
	if len(zones) == 0 {
		emptyNotice(m)
		return nil
	}
	mg := margin{top: 20, right: 10, bottom: 70, left: 60}
	w, h := mg.inner(m)

	names := make([]string, len(zones))
	maxFreq := 0
	for i, z := range zones {
		names[i] = z.Zone
		if z.Frequency > maxFreq {
			maxFreq = z.Frequency
		}
	}
	x := NewBand(names, 0, w, 0.1)
	y := NewLinear(0, float64(maxFreq), h, 0).Nice(10)

	plot := translate(mg.left, mg.top)
	for _, z := range zones {
		bx, _ := x.Map(z.Zone)
		bar := rect(bx, y.Map(float64(z.Frequency)), x.Bandwidth(), h-y.Map(float64(z.Frequency)), "steelblue")
		bar.Class = "bar"
		bar.Tooltip = fmt.Sprintf("%s\nSpecies Count: %d", z.Zone, z.Frequency)
		plot.Children = append(plot.Children, bar)
	}

	xp, xl := bandAxisTicks(x)
	yp, yl := linearAxisTicks(y, 10, formatTick)
	plot.Children = append(plot.Children,
		xAxis(h, 0, w, xp, xl, true),
		yAxis(0, 0, h, yp, yl),
		text(w/2, h+60, "Zones", "middle", 14),
		rotated(text(-40, h/2, "Species Frequency", "middle", 14), -90),
	)
	m.Append(plot)
	return nil
}

// PieChart draws the location distribution with percentage labels.
func PieChart(locations []aggregate.LocationCount, m *Mount) error {
	if err := begin(m); err != nil {
		return err
	}
	total := 0
	values := make([]float64, len(locations))
	domain := make([]string, len(locations))
	for i, l := range locations {
		total += l.Count
		values[i] = float64(l.Count)
		domain[i] = l.Location
	}
	if total == 0 {
		emptyNotice(m)
		return nil
	}

	radius := math.Min(float64(m.Width), float64(m.Height))/2 - 20
	color := NewOrdinal(Category10, domain...)
	pie := translate(float64(m.Width)/2, float64(m.Height)/2)
	for i, a := range PieArcs(values) {
		l := locations[i]
		pct := strconv.FormatFloat(float64(l.Count)/float64(total)*100, 'f', 2, 64)

		slice := &Element{Kind: KindPath, Class: "arc", D: a.Path(radius), Fill: color.Color(l.Location), Stroke: "white", StrokeWidth: 2}
		slice.Tooltip = fmt.Sprintf("%s\nCount: %d (%s%%)", l.Location, l.Count, pct)
		cx, cy := a.Centroid(radius)
		label := text(cx, cy, fmt.Sprintf("%s (%s%%)", l.Location, pct), "middle", 12)
		label.Fill = "white"
		pie.Children = append(pie.Children, group("arc", slice, label))
	}
	m.Append(pie)
	return nil
}

// ButterflyChart draws mean cranial capacity to the left and mean height to
// the right of a shared zero line, one row per species. Both bars select
// their species when clicked.
func ButterflyChart(traits []aggregate.SpeciesTrait, m *Mount) error {
	if err := begin(m); err != nil {
		return err
	}
	if len(traits) == 0 {
		emptyNotice(m)
		return nil
	}
	mg := margin{top: 50, right: 50, bottom: 50, left: 220}
	w, h := mg.inner(m)

	names := make([]string, len(traits))
	maxCranial, maxHeight := 0.0, 0.0
	for i, t := range traits {
		names[i] = t.Species
		maxCranial = math.Max(maxCranial, t.MeanCranialCapacity)
		maxHeight = math.Max(maxHeight, t.MeanHeight)
	}
	x := NewLinear(-maxCranial, maxHeight, 0, w)
	y := NewBand(names, 0, h, 0.1)
	zero := x.Map(0)

	plot := translate(mg.left, mg.top)
	for _, t := range traits {
		by, _ := y.Map(t.Species)
		left := rect(x.Map(-t.MeanCranialCapacity), by, zero-x.Map(-t.MeanCranialCapacity), y.Bandwidth(), "brown")
		left.Class = "bar-left"
		left.Tooltip = fmt.Sprintf("%s\nCranial Capacity: %s cc", t.Species, oneDecimal(t.MeanCranialCapacity))
		right := rect(zero, by, x.Map(t.MeanHeight)-zero, y.Bandwidth(), "darkorange")
		right.Class = "bar-right"
		right.Tooltip = fmt.Sprintf("%s\nHeight: %s cm", t.Species, oneDecimal(t.MeanHeight))
		plot.Children = append(plot.Children, selectable(left, t.Species), selectable(right, t.Species))
	}

	yp, yl := bandAxisTicks(y)
	xp, xl := linearAxisTicks(x, 10, func(v float64) string { return formatTick(math.Abs(v)) })
	plot.Children = append(plot.Children,
		yAxis(0, 0, h, yp, yl),
		xAxis(h, 0, w, xp, xl, false),
		text(w/2, -20, "Cranial Capacity (cc)  |  Height (cm)", "middle", 16),
	)
	m.Append(plot)
	return nil
}

// StackedBar draws one column per technology type with each record's time
// stacked in record order, colored by species.
func StackedBar(stacks []aggregate.TechnologyStack, m *Mount) error {
	if err := begin(m); err != nil {
		return err
	}
	if len(stacks) == 0 {
		emptyNotice(m)
		return nil
	}
	mg := margin{top: 40, right: 30, bottom: 100, left: 60}
	w, h := mg.inner(m)

	names := make([]string, len(stacks))
	maxTotal := 0.0
	for i, s := range stacks {
		names[i] = technologyLabel(s.Technology)
		maxTotal = math.Max(maxTotal, s.Total())
	}
	x := NewBand(names, 0, w, 0.2)
	y := NewLinear(0, maxTotal, h, 0).Nice(10)
	color := NewOrdinal(Category10)

	plot := translate(mg.left, mg.top)
	for i, s := range stacks {
		bx, _ := x.Map(names[i])
		for _, seg := range s.Segments {
			top, bottom := y.Map(seg.Y1), y.Map(seg.Y0)
			r := rect(bx, top, x.Bandwidth(), bottom-top, color.Color(seg.Species))
			r.Class = "segment"
			r.Tooltip = fmt.Sprintf("%s\nTime: %sM", speciesLabel(seg.Species), formatTick(seg.Time))
			plot.Children = append(plot.Children, selectable(r, seg.Species))
		}
	}

	xp, xl := bandAxisTicks(x)
	yp, yl := linearAxisTicks(y, 10, formatTick)
	plot.Children = append(plot.Children,
		xAxis(h, 0, w, xp, xl, true),
		yAxis(0, 0, h, yp, yl),
		rotated(text(-45, h/2, "Cumulative Time (M)", "middle", 12), -90),
	)
	m.Append(plot)
	return nil
}

// rotated turns e by deg about its own anchor point.
func rotated(e *Element, deg float64) *Element {
	e.Rotate = deg
	return e
}

func oneDecimal(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func technologyLabel(t string) string {
	if t == "" {
		return "Unknown"
	}
	return t
}

func speciesLabel(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
