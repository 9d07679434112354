package chart

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"evodash/adapters/geo"
	"evodash/domain/species"
	"evodash/internal/aggregate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() *aggregate.Set {
	return aggregate.Compute([]species.Record{
		{Species: "Homo sapiens", Country: "Kenya", Zone: "East", Location: "Africa", Habitat: "savanna",
			Diet: "omnivore", JawShape: "parabolic", TechnologyType: "Mode 3", IncisorSize: "small", CanineSize: "small",
			Time: 0.3, CranialCapacity: 1400, Height: 170},
		{Species: "Homo erectus", Country: "Indonesia", Zone: "Asia", Location: "Asia", Habitat: "forest",
			Diet: "omnivore", JawShape: "parabolic", TechnologyType: "Mode 2", IncisorSize: "medium large", CanineSize: "big",
			Time: 1.8, CranialCapacity: 900, Height: 160},
		{Species: "Paranthropus boisei", Country: "Tanzania", Zone: "East", Location: "Africa", Habitat: "savanna",
			Diet: "hard vegetables", JawShape: "U shape", TechnologyType: "Mode 1", IncisorSize: "megadont", CanineSize: "small",
			Time: 2.1, CranialCapacity: 500, Height: 0},
	})
}

// renderers binds every panel to the sample set.
func renderers(set *aggregate.Set, world *geo.World) map[string]func(*Mount) error {
	return map[string]func(*Mount) error{
		PanelBar:       func(m *Mount) error { return BarChart(set.Zones, m) },
		PanelPie:       func(m *Mount) error { return PieChart(set.Locations, m) },
		PanelBubble:    func(m *Mount) error { return BubbleChart(set.Bubbles, m) },
		PanelButterfly: func(m *Mount) error { return ButterflyChart(set.Traits, m) },
		PanelTreemap:   func(m *Mount) error { return Treemap(set.Habitats, m) },
		PanelMap:       func(m *Mount) error { return Choropleth(world, set.Countries, m) },
		PanelLine:      func(m *Mount) error { return LineChart(set.Tooth, m) },
		PanelStacked:   func(m *Mount) error { return StackedBar(set.Stacks, m) },
		PanelTimeline:  func(m *Mount) error { return Timeline(set.Timeline, m) },
		PanelTree:      func(m *Mount) error { return Tree(HomininiTree(), m) },
	}
}

func countElements(m *Mount) int {
	n := 0
	m.Walk(func(*Element) { n++ })
	return n
}

func TestRenderersAreIdempotent(t *testing.T) {
	set := sampleSet()
	mounts := NewMounts()
	for name, render := range renderers(set, nil) {
		t.Run(name, func(t *testing.T) {
			m := mounts[name]
			require.NoError(t, render(m))
			first := countElements(m)
			var a bytes.Buffer
			require.NoError(t, WriteSVG(&a, m))

			require.NoError(t, render(m))
			assert.Equal(t, first, countElements(m))
			var b bytes.Buffer
			require.NoError(t, WriteSVG(&b, m))
			assert.Equal(t, a.String(), b.String())
		})
	}
}

func TestRenderersDrawEmptyInput(t *testing.T) {
	set := aggregate.Compute(nil)
	mounts := NewMounts()
	for name, render := range renderers(set, nil) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, render(mounts[name]))
			assert.False(t, mounts[name].Empty())
		})
	}
}

func TestKeyedPanelsCarrySpecies(t *testing.T) {
	set := sampleSet()
	mounts := NewMounts()
	render := renderers(set, nil)
	for _, spec := range Layout {
		m := mounts[spec.Name]
		require.NoError(t, render[spec.Name](m))
		if spec.Keyed {
			assert.NotEmpty(t, m.Keyed(), spec.Name)
			for _, e := range m.Keyed() {
				assert.Equal(t, ActionSelectSpecies, e.Action)
			}
		} else {
			assert.Empty(t, m.Keyed(), spec.Name)
		}
	}
}

func TestButterflyBarsPerSpecies(t *testing.T) {
	m := NewMount(PanelButterfly, "", 800, 400)
	require.NoError(t, ButterflyChart(sampleSet().Traits, m))

	classes := map[string]int{}
	m.Walk(func(e *Element) {
		if e.Keyed() {
			classes[e.Class]++
		}
	})
	assert.Equal(t, map[string]int{"bar-left": 3, "bar-right": 3}, classes)
}

func TestHighlightAndReset(t *testing.T) {
	m := NewMount(PanelTreemap, "", 900, 400)
	require.NoError(t, Treemap(sampleSet().Habitats, m))

	m.Highlight("Homo sapiens", 0.3)
	for _, e := range m.Keyed() {
		if e.Species == "Homo sapiens" {
			assert.Equal(t, 1.0, e.Opacity)
		} else {
			assert.Equal(t, 0.3, e.Opacity)
		}
	}

	// highlight does not accumulate across selections
	m.Highlight("Homo erectus", 0.3)
	for _, e := range m.Keyed() {
		assert.Equal(t, e.Species == "Homo erectus", e.Opacity == 1.0, e.Species)
	}

	m.ResetHighlights()
	for _, e := range m.Keyed() {
		assert.Equal(t, 1.0, e.Opacity)
		assert.Equal(t, "white", e.Stroke)
		assert.Equal(t, 1.0, e.StrokeWidth)
	}
}

func TestBubbleKeepsFillOpacityThroughReset(t *testing.T) {
	m := NewMount(PanelBubble, "", 800, 600)
	require.NoError(t, BubbleChart(sampleSet().Bubbles, m))
	m.Highlight("Homo sapiens", 0.3)
	m.ResetHighlights()
	for _, e := range m.Keyed() {
		assert.Equal(t, 1.0, e.Opacity)
		assert.Equal(t, 0.7, e.FillOpacity)
	}
}

func TestWriteSVG(t *testing.T) {
	m := NewMount(PanelStacked, "Technology <over> Time", 800, 500)
	require.NoError(t, StackedBar(sampleSet().Stacks, m))

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, m))
	out := buf.String()
	assert.Contains(t, out, `data-species="Homo sapiens"`)
	assert.Contains(t, out, `data-action="select-species"`)
	assert.Contains(t, out, "Technology &lt;over&gt; Time")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestPieArcs(t *testing.T) {
	arcs := PieArcs([]float64{1, 3})
	require.Len(t, arcs, 2)
	// larger value is laid out first
	assert.InDelta(t, 0, arcs[1].StartAngle, 1e-9)
	assert.InDelta(t, 1.5*math.Pi, arcs[1].EndAngle, 1e-9)
	assert.InDelta(t, 1.5*math.Pi, arcs[0].StartAngle, 1e-9)
	assert.InDelta(t, 2*math.Pi, arcs[0].EndAngle, 1e-9)

	full := PieArcs([]float64{5})
	assert.Contains(t, full[0].Path(10), "A10,10")
}

func TestSquarifyCoversArea(t *testing.T) {
	values := []float64{6, 6, 4, 3, 2, 2, 1}
	r := Rect{0, 0, 600, 400}
	rects := Squarify(values, r)
	require.Len(t, rects, len(values))

	area := 0.0
	for i, c := range rects {
		area += c.W() * c.H()
		assert.InDelta(t, values[i]/24*600*400, c.W()*c.H(), 1e-6)
		assert.True(t, c.X0 >= r.X0-1e-9 && c.X1 <= r.X1+1e-9 && c.Y0 >= r.Y0-1e-9 && c.Y1 <= r.Y1+1e-9)
	}
	assert.InDelta(t, 600*400, area, 1e-6)
}

func TestBandAndPoint(t *testing.T) {
	b := NewBand([]string{"a", "b", "a", "c"}, 0, 100, 0)
	assert.Equal(t, []string{"a", "b", "c"}, b.Domain())
	x, ok := b.Map("b")
	require.True(t, ok)
	assert.InDelta(t, 100.0/3, x, 1e-9)
	_, ok = b.Map("z")
	assert.False(t, ok)

	p := NewPoint([]string{"lo", "hi"}, 100, 0, 0.5)
	lo, _ := p.Map("lo")
	hi, _ := p.Map("hi")
	assert.Greater(t, lo, hi)
	assert.Equal(t, 0.0, p.Bandwidth())
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		v      float64
		expect string
	}{
		{0, Greens5[0]}, {1, Greens5[1]}, {4, Greens5[1]}, {5, Greens5[2]}, {19, Greens5[3]}, {20, Greens5[4]},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, MapColors.Color(tt.v))
	}
}

func TestLayoutTree(t *testing.T) {
	root := HomininiTree()
	LayoutTree(root, 500, 660)
	nodes := root.Descendants()
	assert.Len(t, nodes, 28)
	for _, n := range nodes {
		assert.True(t, n.X >= 0 && n.X <= 500+1e-9, n.Name)
		assert.True(t, n.Y >= 0 && n.Y <= 660+1e-9, n.Name)
	}
	assert.Equal(t, 0.0, root.Y)
}

func TestRelaxBubblesSeparates(t *testing.T) {
	bs := []*Bubble{{R: 10, TX: 50, TY: 50}, {R: 10, TX: 50, TY: 50}, {R: 10, TX: 50, TY: 50}}
	RelaxBubbles(bs, 2, 100)
	for i := range bs {
		for j := i + 1; j < len(bs); j++ {
			d := math.Hypot(bs[i].X-bs[j].X, bs[i].Y-bs[j].Y)
			assert.Greater(t, d, 15.0)
		}
	}
}

func TestChoroplethShadesMatchedCountries(t *testing.T) {
	world, err := geo.Parse([]byte(`{"type":"FeatureCollection","features":[
	  {"type":"Feature","properties":{"name":"Kenya"},"geometry":{"type":"Polygon","coordinates":[[[34,-4],[42,-4],[42,5],[34,5],[34,-4]]]}},
	  {"type":"Feature","properties":{"name":"Chad"},"geometry":{"type":"Polygon","coordinates":[[[14,8],[24,8],[24,23],[14,23],[14,8]]]}}
	]}`))
	require.NoError(t, err)

	m := NewMount(PanelMap, "", 700, 500)
	require.NoError(t, Choropleth(world, []aggregate.CountryCount{{Country: "Kenya", Count: 6}}, m))

	fills := map[string]string{}
	m.Walk(func(e *Element) {
		if e.Class == "country" {
			fills[strings.SplitN(e.Tooltip, "\n", 2)[0]] = e.Fill
		}
	})
	assert.Equal(t, map[string]string{"Kenya": Greens5[2], "Chad": Greens5[0]}, fills)
}
