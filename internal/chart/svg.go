package chart

import (
	"fmt"
	"html"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// WriteSVG serializes a mount. Species-keyed elements carry data-species and
// data-action attributes for the browser; tooltips become <title> children.
func WriteSVG(w io.Writer, m *Mount) error {
	if m == nil {
		return fmt.Errorf("nil mount")
	}
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(m.Width, m.Height,
		attr("class", "chart chart-"+m.Name),
		attr("viewBox", fmt.Sprintf("0 0 %d %d", m.Width, m.Height)),
	)
	if m.Title != "" {
		canvas.Title(m.Title)
	}
	for _, e := range m.Elements() {
		writeElement(canvas, e)
	}
	canvas.End()
	return ew.err
}

func writeElement(canvas *svg.SVG, e *Element) {
	if e.Kind == KindGroup {
		attrs := append(identity(e), presentation(e)...)
		if e.X != 0 || e.Y != 0 {
			attrs = append(attrs, attr("transform", fmt.Sprintf("translate(%s,%s)", num(e.X), num(e.Y))))
		}
		canvas.Group(attrs...)
		if e.Tooltip != "" {
			canvas.Title(e.Tooltip)
		}
		for _, c := range e.Children {
			writeElement(canvas, c)
		}
		canvas.Gend()
		return
	}

	if e.Tooltip == "" {
		drawShape(canvas, e, append(identity(e), presentation(e)...))
		return
	}
	// Shapes are self-closing in svgo, so the tooltip needs a wrapper.
	canvas.Group(append(identity(e), attr("opacity", num(e.Opacity)))...)
	canvas.Title(e.Tooltip)
	drawShape(canvas, e, paint(e))
	canvas.Gend()
}

func drawShape(canvas *svg.SVG, e *Element, attrs []string) {
	switch e.Kind {
	case KindRect:
		canvas.Rect(px(e.X), px(e.Y), px(math.Max(e.W, 0)), px(math.Max(e.H, 0)), attrs...)
	case KindCircle:
		canvas.Circle(px(e.X), px(e.Y), px(e.R), attrs...)
	case KindLine:
		canvas.Line(px(e.X), px(e.Y), px(e.X2), px(e.Y2), attrs...)
	case KindPath:
		if e.D != "" {
			canvas.Path(e.D, attrs...)
		}
	case KindText:
		if e.Anchor != "" {
			attrs = append(attrs, attr("text-anchor", e.Anchor))
		}
		if e.FontSize > 0 {
			attrs = append(attrs, attr("font-size", num(e.FontSize)))
		}
		if e.Rotate != 0 {
			attrs = append(attrs, attr("transform", fmt.Sprintf("rotate(%s,%s,%s)", num(e.Rotate), num(e.X), num(e.Y))))
		}
		canvas.Text(px(e.X), px(e.Y), e.Text, attrs...)
	}
}

// identity carries class and the species/action data attributes.
func identity(e *Element) []string {
	var out []string
	if e.Class != "" {
		out = append(out, attr("class", e.Class))
	}
	if e.Species != "" {
		out = append(out, attr("data-species", e.Species))
	}
	if e.Action != "" {
		out = append(out, attr("data-action", e.Action))
	}
	return out
}

// presentation is paint plus opacity.
func presentation(e *Element) []string {
	out := paint(e)
	if e.Opacity != 1 {
		out = append(out, attr("opacity", num(e.Opacity)))
	}
	return out
}

func paint(e *Element) []string {
	var out []string
	if e.Fill != "" {
		out = append(out, attr("fill", e.Fill))
	}
	if e.FillOpacity > 0 {
		out = append(out, attr("fill-opacity", num(e.FillOpacity)))
	}
	if e.Stroke != "" {
		out = append(out, attr("stroke", e.Stroke))
	}
	if e.StrokeWidth > 0 {
		out = append(out, attr("stroke-width", num(e.StrokeWidth)))
	}
	if e.Dash != "" {
		out = append(out, attr("stroke-dasharray", e.Dash))
	}
	return out
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

func px(v float64) int { return int(math.Round(v)) }

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return len(p), nil
	}
	n, err := ew.w.Write(p)
	if err != nil {
		ew.err = err
	}
	return n, err
}
