package chart

import "strconv"

func rect(x, y, w, h float64, fill string) *Element {
	return &Element{Kind: KindRect, X: x, Y: y, W: w, H: h, Fill: fill}
}

func circle(x, y, r float64, fill string) *Element {
	return &Element{Kind: KindCircle, X: x, Y: y, R: r, Fill: fill}
}

func line(x1, y1, x2, y2 float64, stroke string, width float64) *Element {
	return &Element{Kind: KindLine, X: x1, Y: y1, X2: x2, Y2: y2, Stroke: stroke, StrokeWidth: width}
}

func text(x, y float64, s, anchor string, size float64) *Element {
	return &Element{Kind: KindText, X: x, Y: y, Text: s, Anchor: anchor, FontSize: size, Fill: "#000"}
}

func group(class string, children ...*Element) *Element {
	return &Element{Kind: KindGroup, Class: class, Children: children}
}

// selectable marks e as keyed by species and clickable.
func selectable(e *Element, species string) *Element {
	e.Species = species
	e.Action = ActionSelectSpecies
	return e
}

// translate wraps children in a group drawn at (dx, dy).
func translate(dx, dy float64, children ...*Element) *Element {
	g := group("", children...)
	g.X, g.Y = dx, dy
	return g
}

// xAxis draws a horizontal axis at y with tick labels at the given positions.
func xAxis(y, x0, x1 float64, pos []float64, labels []string, rotate bool) *Element {
	g := group("axis x-axis", line(x0, y, x1, y, "#000", 1))
	for i, p := range pos {
		g.Children = append(g.Children, line(p, y, p, y+6, "#000", 1))
		t := text(p, y+18, labels[i], "middle", 10)
		if rotate {
			t.Anchor = "end"
			t.Y = y + 10
			t.Rotate = -45
		}
		g.Children = append(g.Children, t)
	}
	return g
}

// yAxis draws a vertical axis at x with labels left of the ticks.
func yAxis(x, y0, y1 float64, pos []float64, labels []string) *Element {
	g := group("axis y-axis", line(x, y0, x, y1, "#000", 1))
	for i, p := range pos {
		g.Children = append(g.Children, line(x-6, p, x, p, "#000", 1))
		g.Children = append(g.Children, text(x-9, p+3, labels[i], "end", 10))
	}
	return g
}

func linearAxisTicks(s *Linear, n int, format func(float64) string) (pos []float64, labels []string) {
	for _, v := range s.Ticks(n) {
		pos = append(pos, s.Map(v))
		labels = append(labels, format(v))
	}
	return pos, labels
}

func bandAxisTicks(b *Band) (pos []float64, labels []string) {
	for _, d := range b.Domain() {
		p, _ := b.Map(d)
		pos = append(pos, p+b.Bandwidth()/2)
		labels = append(labels, d)
	}
	return pos, labels
}

func formatTick(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

func emptyNotice(m *Mount) {
	m.Append(text(float64(m.Width)/2, float64(m.Height)/2, "No data available", "middle", 14))
}
