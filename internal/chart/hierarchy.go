package chart

import (
	"fmt"
	"sort"
	"strings"

	"evodash/adapters/geo"
	"evodash/internal/aggregate"
)

// Treemap tiles habitats and, inside each, species by record count. Cells
// select their species when clicked.
func Treemap(habitats []aggregate.HabitatGroup, m *Mount) error {
	if err := begin(m); err != nil {
		return err
	}
	if len(habitats) == 0 {
		emptyNotice(m)
		return nil
	}
	const legendWidth = 100
	area := Rect{0, 0, float64(m.Width - legendWidth), float64(m.Height)}

	color := NewOrdinal(Category10)
	groups := append([]aggregate.HabitatGroup(nil), habitats...)
	for _, g := range groups {
		color.Color(g.Habitat) // legend order follows encounter order
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Total > groups[j].Total })

	totals := make([]float64, len(groups))
	for i, g := range groups {
		totals[i] = float64(g.Total)
	}
	cells := group("cells")
	for i, hr := range Squarify(totals, area.Inset(1)) {
		g := groups[i]
		leaves := append([]aggregate.SpeciesCount(nil), g.Species...)
		sort.SliceStable(leaves, func(a, b int) bool { return leaves[a].Count > leaves[b].Count })
		counts := make([]float64, len(leaves))
		for j, l := range leaves {
			counts[j] = float64(l.Count)
		}
		for j, r := range Squarify(counts, hr.Inset(0.5).Inset(1)) {
			r = r.Inset(0.5)
			l := leaves[j]
			cell := rect(0, 0, r.W(), r.H(), color.Color(g.Habitat))
			cell.Class = "cell"
			cell.Stroke, cell.StrokeWidth = "white", 1
			cell.Tooltip = fmt.Sprintf("%s\nHabitat: %s\nCount: %d", l.Species, g.Habitat, l.Count)
			label := text(5, 15, fmt.Sprintf("%s (%d)", l.Species, l.Count), "start", 12)
			label.Fill = "white"
			cells.Children = append(cells.Children, translate(r.X0, r.Y0, selectable(cell, l.Species), label))
		}
	}

	legend := translate(area.X1+10, 20)
	for i, g := range habitats {
		y := float64(i * 20)
		legend.Children = append(legend.Children,
			rect(0, y, 20, 15, color.Color(g.Habitat)),
			text(30, y+12, g.Habitat, "start", 12),
		)
	}
	m.Append(cells, legend)
	return nil
}

// Tree draws the fixed Hominini phylogeny top-down. It does not depend on
// the filtered data.
func Tree(root *TreeNode, m *Mount) error {
	if err := begin(m); err != nil {
		return err
	}
	if root == nil {
		emptyNotice(m)
		return nil
	}
	mg := margin{top: 50, right: 90, bottom: 90, left: 10}
	w, h := mg.inner(m)
	LayoutTree(root, w, h)

	links := group("links")
	nodes := group("nodes")
	for _, n := range root.Descendants() {
		for _, c := range n.Children {
			links.Children = append(links.Children, &Element{
				Kind: KindPath, Class: "tree-link", D: VerticalLink(n.X, n.Y, c.X, c.Y),
				Fill: "none", Stroke: "#555", StrokeWidth: 2,
			})
		}
		label := rotated(text(0, -12, n.Name, "middle", 10), -30)
		label.Class = "node-label"
		node := translate(n.X, n.Y, circle(0, 0, 10, "#8B4513"), label)
		node.Class = "tree-node"
		node.Tooltip = n.Name
		nodes.Children = append(nodes.Children, node)
	}
	m.Append(translate(mg.left, mg.top, links, nodes))
	return nil
}

// MapColors is the choropleth threshold scale on record counts.
var MapColors = Threshold{Cuts: []float64{1, 5, 10, 20}, Colors: Greens5}

// Choropleth shades every country outline by its record count. Without
// geometry only the legend is drawn.
func Choropleth(world *geo.World, counts []aggregate.CountryCount, m *Mount) error {
	if err := begin(m); err != nil {
		return err
	}
	byCountry := make(map[string]int, len(counts))
	for _, c := range counts {
		byCountry[c.Country] += c.Count
	}

	min, max, ok := geoBounds(world)
	if ok {
		proj := FitMercator(min, max, float64(m.Width), float64(m.Height))
		byFeature, _ := world.FeatureCounts(byCountry)
		countries := group("countries")
		for i, f := range world.Features {
			n := byFeature[i]
			countries.Children = append(countries.Children, &Element{
				Kind: KindPath, Class: "country", D: featurePath(f, proj),
				Fill: MapColors.Color(float64(n)), Stroke: "#fff", StrokeWidth: 0.5,
				Tooltip: fmt.Sprintf("%s\nSpecies Count: %d", f.Name, n),
			})
		}
		m.Append(countries)
	} else {
		m.Append(text(float64(m.Width)/2, float64(m.Height)/2, "No map geometry loaded", "middle", 14))
	}

	labels := []string{"0", "1-4", "5-9", "10-19", "20+"}
	legend := translate(10, float64(m.Height)-30)
	for i, c := range MapColors.Colors {
		x := float64(i * 50)
		sw := rect(x, 0, 50, 10, c)
		sw.Stroke, sw.StrokeWidth = "#999", 0.5
		legend.Children = append(legend.Children, sw, text(x+25, 22, labels[i], "middle", 10))
	}
	m.Append(legend)
	return nil
}

func geoBounds(w *geo.World) (geo.Point, geo.Point, bool) {
	if w == nil {
		return geo.Point{}, geo.Point{}, false
	}
	return w.Bounds()
}

func featurePath(f geo.Feature, proj Mercator) string {
	var b strings.Builder
	for _, poly := range f.Polygons {
		for _, ring := range poly {
			for i, p := range ring {
				x, y := proj.Project(p)
				cmd := "L"
				if i == 0 {
					cmd = "M"
				}
				fmt.Fprintf(&b, "%s%s,%s", cmd, num(x), num(y))
			}
			if len(ring) > 0 {
				b.WriteString("Z")
			}
		}
	}
	return b.String()
}

func node(name string, children ...*TreeNode) *TreeNode {
	return &TreeNode{Name: name, Children: children}
}

// HomininiTree returns a fresh copy of the phylogeny drawn by Tree.
func HomininiTree() *TreeNode {
	return node("Tribe: Hominini",
		node("Subtribe: Hominina",
			node("Sahelanthropus tchadensis"),
			node("Orrorin tugenensis"),
			node("Ardipithecus kadabba",
				node("Ardipithecus ramidus",
					node("Australopithecus anamensis",
						node("Australopithecus afarensis",
							node("Australopithecus bahrelghazali"),
							node("Australopithecus garhi",
								node("Homo habilis",
									node("Homo rudolfensis"),
									node("Homo ergaster",
										node("Homo erectus",
											node("Homo georgicus"),
											node("Homo floresiensis"),
										),
										node("Homo antecessor",
											node("Homo heidelbergensis",
												node("Homo rhodesiensis"),
												node("Homo neanderthalensis"),
												node("Homo sapiens"),
											),
										),
									),
								),
							),
							node("Australopithecus africanus"),
							node("Australopithecus sediba"),
						),
					),
				),
			),
			node("Homo naledi"),
		),
		node("Genus: Paranthropus",
			node("Paranthropus aethiopicus"),
			node("Paranthropus boisei"),
			node("Paranthropus robustus"),
		),
	)
}
