// Package chart holds the visual tree every dashboard panel draws into, the
// ten chart renderers, and SVG serialization of a drawn tree.
package chart

// Kind is the shape of an element.
type Kind string

const (
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindLine   Kind = "line"
	KindPath   Kind = "path"
	KindText   Kind = "text"
	KindGroup  Kind = "group"
)

// ActionSelectSpecies marks an element whose click selects its species.
const ActionSelectSpecies = "select-species"

// Element is one node of a mount's visual tree. Geometry fields are read
// according to Kind: rect uses X, Y, W, H; circle uses X, Y, R; line uses
// X, Y, X2, Y2; path uses D; text uses X, Y, Text and Rotate; a group is
// translated by X, Y.
type Element struct {
	Kind  Kind
	Class string

	X, Y, W, H, R, X2, Y2 float64
	D                     string
	Text                  string
	Rotate                float64
	Anchor                string
	FontSize              float64

	Fill        string
	FillOpacity float64 // 0 means unset
	Stroke      string
	StrokeWidth float64
	Dash        string
	Opacity     float64

	Species string // non-empty for species-keyed elements
	Tooltip string
	Action  string

	Children []*Element

	base style
}

type style struct {
	opacity     float64
	stroke      string
	strokeWidth float64
}

// Keyed reports whether the element takes part in species highlighting.
func (e *Element) Keyed() bool { return e.Species != "" }

// Mount is a named drawing surface. A renderer owns the tree between two
// Unmount calls.
type Mount struct {
	Name   string
	Title  string
	Width  int
	Height int

	elements []*Element
}

// NewMount returns an empty mount.
func NewMount(name, title string, width, height int) *Mount {
	return &Mount{Name: name, Title: title, Width: width, Height: height}
}

// Unmount discards the whole visual tree, including element actions.
func (m *Mount) Unmount() { m.elements = nil }

// Append adds top-level elements. Each element's current opacity and stroke
// become the baseline that ResetHighlights restores; a zero opacity is
// treated as fully opaque.
func (m *Mount) Append(els ...*Element) {
	for _, e := range els {
		settle(e)
		m.elements = append(m.elements, e)
	}
}

func settle(e *Element) {
	if e.Opacity == 0 {
		e.Opacity = 1
	}
	e.base = style{opacity: e.Opacity, stroke: e.Stroke, strokeWidth: e.StrokeWidth}
	for _, c := range e.Children {
		settle(c)
	}
}

// Elements returns the top-level elements.
func (m *Mount) Elements() []*Element { return m.elements }

// Empty reports whether nothing is drawn.
func (m *Mount) Empty() bool { return len(m.elements) == 0 }

// Walk visits every element depth first.
func (m *Mount) Walk(fn func(*Element)) {
	var walk func([]*Element)
	walk = func(els []*Element) {
		for _, e := range els {
			fn(e)
			walk(e.Children)
		}
	}
	walk(m.elements)
}

// Keyed returns every species-keyed element.
func (m *Mount) Keyed() []*Element {
	var out []*Element
	m.Walk(func(e *Element) {
		if e.Keyed() {
			out = append(out, e)
		}
	})
	return out
}

// ResetHighlights restores baseline opacity and stroke on every element.
func (m *Mount) ResetHighlights() {
	m.Walk(func(e *Element) {
		e.Opacity = e.base.opacity
		e.Stroke = e.base.stroke
		e.StrokeWidth = e.base.strokeWidth
	})
}

// Highlight sets opacity 1 on keyed elements whose species is selected and
// dim on the rest. Elements without a species key are untouched.
func (m *Mount) Highlight(selected string, dim float64) {
	for _, e := range m.Keyed() {
		if e.Species == selected {
			e.Opacity = 1
		} else {
			e.Opacity = dim
		}
	}
}
