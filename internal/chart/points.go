package chart

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"evodash/internal/aggregate"
)

// bubbleRadius maps incisor size words to radii. Unknown words get the
// "small" radius.
var bubbleRadius = map[string]float64{
	"very small":   5,
	"small":        10,
	"medium":       15,
	"medium large": 20,
	"big":          25,
	"megadont":     30,
}

// BubbleRadius returns the bubble radius for an incisor size.
func BubbleRadius(size string) float64 {
	if r, ok := bubbleRadius[strings.ToLower(strings.TrimSpace(size))]; ok {
		return r
	}
	return 10
}

// BubbleChart places one bubble per point at its (diet, jaw shape) cell,
// sized by incisor size and relaxed so bubbles do not overlap.
func BubbleChart(points []aggregate.BubblePoint, m *Mount) error {
	if err := begin(m); err != nil {
		return err
	}
	if len(points) == 0 {
		emptyNotice(m)
		return nil
	}
	mg := margin{top: 50, right: 50, bottom: 100, left: 100}
	w, h := mg.inner(m)

	diets := make([]string, len(points))
	jaws := make([]string, len(points))
	speciesDomain := make([]string, len(points))
	for i, p := range points {
		diets[i], jaws[i], speciesDomain[i] = p.Diet, p.JawShape, p.Species
	}
	x := NewPoint(diets, 0, w, 0.5)
	y := NewPoint(jaws, h, 0, 0.5)
	color := NewOrdinal(Category10, speciesDomain...)

	bubbles := make([]*Bubble, len(points))
	for i, p := range points {
		tx, _ := x.Map(p.Diet)
		ty, _ := y.Map(p.JawShape)
		bubbles[i] = &Bubble{TX: tx, TY: ty, R: BubbleRadius(p.IncisorSize)}
	}
	RelaxBubbles(bubbles, 2, 100)

	plot := translate(mg.left, mg.top)
	xp, xl := bandAxisTicks(x)
	yp, yl := bandAxisTicks(y)
	plot.Children = append(plot.Children,
		xAxis(h, 0, w, xp, xl, false),
		yAxis(0, 0, h, yp, yl),
		text(w/2, h+40, "Diet", "middle", 12),
		rotated(text(-50, h/2, "Jaw Shape", "middle", 12), -90),
	)
	for i, p := range points {
		b := bubbles[i]
		c := circle(b.X, b.Y, b.R, color.Color(p.Species))
		c.Class = "bubble"
		c.FillOpacity = 0.7
		c.Stroke = "white"
		c.StrokeWidth = 1
		c.Tooltip = fmt.Sprintf("Species: %s\nRegion: %s\nDiet: %s\nJaw Shape: %s\nIncisor Size: %s",
			p.Species, p.Country, p.Diet, p.JawShape, p.IncisorSize)
		plot.Children = append(plot.Children, selectable(c, p.Species))
	}
	m.Append(plot)
	return nil
}

// ToothColors are the series colors of the line chart.
var ToothColors = map[string]string{
	aggregate.SeriesIncisor: "#8B4513",
	aggregate.SeriesCanine:  "#006400",
}

// LineChart plots mean time per tooth size category, one curve per series.
func LineChart(points []aggregate.ToothPoint, m *Mount) error {
	if err := begin(m); err != nil {
		return err
	}
	if len(points) == 0 {
		emptyNotice(m)
		return nil
	}
	mg := margin{top: 50, right: 100, bottom: 70, left: 100}
	w, h := mg.inner(m)

	minT, maxT := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minT, maxT = math.Min(minT, p.MeanTime), math.Max(maxT, p.MeanTime)
	}
	x := NewLinear(minT*0.9, maxT*1.1, 0, w).Nice(6)
	y := NewPoint(aggregate.ToothSizes, h, 0, 0.5)

	plot := translate(mg.left, mg.top)
	xp, xl := linearAxisTicks(x, 6, func(v float64) string { return oneDecimal(v) + "M" })
	yp, yl := bandAxisTicks(y)
	plot.Children = append(plot.Children,
		xAxis(h, 0, w, xp, xl, false),
		yAxis(0, 0, h, yp, yl),
		text(w/2, h+50, "Time (Millions of years ago)", "middle", 12),
		rotated(text(-60, h/2, "Tooth Size Category", "middle", 12), -90),
	)

	for _, series := range []string{aggregate.SeriesIncisor, aggregate.SeriesCanine} {
		var pts []aggregate.ToothPoint
		for _, p := range points {
			if p.Category == series {
				pts = append(pts, p)
			}
		}
		if len(pts) < 2 {
			continue
		}
		// oldest first
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].MeanTime > pts[j].MeanTime })
		xs, ys := make([]float64, len(pts)), make([]float64, len(pts))
		for i, p := range pts {
			xs[i] = x.Map(p.MeanTime)
			ys[i], _ = y.Map(p.Size)
		}
		path := &Element{Kind: KindPath, Class: "tooth-line", D: MonotonePath(xs, ys), Fill: "none", Stroke: ToothColors[series], StrokeWidth: 2}
		plot.Children = append(plot.Children, path)
	}

	dots := append([]aggregate.ToothPoint(nil), points...)
	sort.SliceStable(dots, func(i, j int) bool { return dots[i].MeanTime < dots[j].MeanTime })
	for _, p := range dots {
		cy, _ := y.Map(p.Size)
		dot := circle(x.Map(p.MeanTime), cy, 6, ToothColors[p.Category])
		dot.Class = "tooth-dot"
		dot.Stroke = "#333"
		dot.StrokeWidth = 1
		dot.Tooltip = fmt.Sprintf("%s\nSize: %s\nAverage Time: %sM years\nData Points: %d",
			p.Category, p.Size, oneDecimal(p.MeanTime), p.Count)
		plot.Children = append(plot.Children, dot)
	}

	legend := translate(w-120, 20)
	for i, series := range []string{aggregate.SeriesIncisor, aggregate.SeriesCanine} {
		legend.Children = append(legend.Children,
			rect(0, float64(i*25), 18, 18, ToothColors[series]),
			text(25, float64(i*25)+14, series, "start", 14),
		)
	}
	plot.Children = append(plot.Children, legend)
	m.Append(plot)
	return nil
}

// Timeline draws each species' earliest appearance as a dashed stem off a
// horizontal time axis, alternating above and below, with stem length
// growing with the species' record count.
func Timeline(events []aggregate.TimelineEvent, m *Mount) error {
	if err := begin(m); err != nil {
		return err
	}
	if len(events) == 0 {
		emptyNotice(m)
		return nil
	}
	mg := margin{top: 0, right: 230, bottom: 0, left: 50}
	w, _ := mg.inner(m)
	base := float64(m.Height) / 2

	minT, maxT := math.Inf(1), math.Inf(-1)
	maxCount := 1
	for _, e := range events {
		minT, maxT = math.Min(minT, e.Time), math.Max(maxT, e.Time)
		if e.Count > maxCount {
			maxCount = e.Count
		}
	}
	// oldest on the left
	x := NewLinear(maxT, minT, 0, w)
	stem := NewLinear(1, float64(maxCount), 40, 150)
	color := NewOrdinal(Category10)

	plot := translate(mg.left, mg.top)
	xp, xl := linearAxisTicks(x, 10, func(v float64) string { return formatTick(v) + "M" })
	axis := xAxis(base, 0, w, xp, xl, false)
	axis.Children[0].Stroke, axis.Children[0].StrokeWidth = "#333", 2
	plot.Children = append(plot.Children, axis)

	for i, e := range events {
		dir := -1.0
		if i%2 == 1 {
			dir = 1
		}
		ex := x.Map(e.Time)
		length := stem.Map(float64(e.Count))
		c := color.Color(e.Species)

		stemLine := line(ex, base, ex, base+dir*length, c, 1.5)
		stemLine.Class = "event-line"
		stemLine.Dash = "4,2"
		end := circle(ex, base+dir*length, 6, c)
		end.Class = "end-circle"
		end.Stroke, end.StrokeWidth = "#fff", 1.5
		label := rotated(text(ex, base+dir*(length+20), fmt.Sprintf("%s (%d)", e.Species, e.Count), "middle", 11), 90*dir)
		label.Class = "event-label"

		ev := group("event", stemLine, end, label)
		ev.Tooltip = fmt.Sprintf("%s\nEarliest: %sM\nRecords: %d", e.Species, formatTick(e.Time), e.Count)
		plot.Children = append(plot.Children, selectable(ev, e.Species))
	}
	m.Append(plot)
	return nil
}
