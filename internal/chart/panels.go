package chart

import "fmt"

// Panel names, which double as mount names and URL segments.
const (
	PanelBar       = "bar"
	PanelPie       = "pie"
	PanelBubble    = "bubble"
	PanelButterfly = "butterfly"
	PanelTreemap   = "treemap"
	PanelMap       = "map"
	PanelLine      = "line"
	PanelStacked   = "stacked"
	PanelTimeline  = "timeline"
	PanelTree      = "tree"
)

// PanelSpec describes a dashboard panel's mount.
type PanelSpec struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Keyed  bool   `json:"keyed"` // elements carry species keys and take part in highlighting
}

// Layout is the fixed panel order of the dashboard.
var Layout = []PanelSpec{
	{Name: PanelBar, Title: "Species Frequency by Zone", Width: 600, Height: 400},
	{Name: PanelPie, Title: "Species Distribution by Location", Width: 400, Height: 400},
	{Name: PanelBubble, Title: "Diet vs. Jaw Shape and Incisor Size", Width: 800, Height: 600, Keyed: true},
	{Name: PanelButterfly, Title: "Cranial Capacity and Height by Species", Width: 800, Height: 400, Keyed: true},
	{Name: PanelTreemap, Title: "Species by Habitat", Width: 900, Height: 400, Keyed: true},
	{Name: PanelMap, Title: "Geographical Distribution", Width: 700, Height: 500},
	{Name: PanelLine, Title: "Tooth Size over Time", Width: 800, Height: 500},
	{Name: PanelStacked, Title: "Technology over Time", Width: 800, Height: 500, Keyed: true},
	{Name: PanelTimeline, Title: "Species Timeline", Width: 1200, Height: 600, Keyed: true},
	{Name: PanelTree, Title: "Hominini Family Tree", Width: 600, Height: 800},
}

// Spec returns the layout entry for name.
func Spec(name string) (PanelSpec, bool) {
	for _, p := range Layout {
		if p.Name == name {
			return p, true
		}
	}
	return PanelSpec{}, false
}

// NewMounts creates one empty mount per layout panel.
func NewMounts() map[string]*Mount {
	out := make(map[string]*Mount, len(Layout))
	for _, p := range Layout {
		out[p.Name] = NewMount(p.Name, p.Title, p.Width, p.Height)
	}
	return out
}

// margin is the inner drawing area offset, in the usual top/right/bottom/left
// order.
type margin struct{ top, right, bottom, left float64 }

func (mg margin) inner(m *Mount) (w, h float64) {
	return float64(m.Width) - mg.left - mg.right, float64(m.Height) - mg.top - mg.bottom
}

func begin(m *Mount) error {
	if m == nil {
		return fmt.Errorf("nil mount")
	}
	m.Unmount()
	return nil
}
