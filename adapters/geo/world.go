// Package geo loads world country outlines for the choropleth map and matches
// them to the country names used in the species dataset.
package geo

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"evodash/internal"
	"evodash/internal/errors"

	"github.com/biter777/countries"
	"github.com/tidwall/gjson"
)

// Point is a lon/lat pair in degrees.
type Point [2]float64

// Ring is a closed sequence of points; Polygon[0] is the outer ring.
type (
	Ring    []Point
	Polygon []Ring
)

// Feature is one country outline.
type Feature struct {
	Name     string
	ID       string
	Polygons []Polygon
}

// World is a parsed FeatureCollection with a name index for matching.
type World struct {
	Features []Feature
	index    map[string]int
}

// Opener fetches the raw bytes behind a URI. source.Loader implements it.
type Opener interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Load fetches and parses GeoJSON from uri. An empty uri yields an empty
// world so the map panel renders without outlines.
func Load(ctx context.Context, opener Opener, uri string) (*World, error) {
	if uri == "" {
		return &World{index: map[string]int{}}, nil
	}
	rc, err := opener.Open(ctx, uri)
	if err != nil {
		return nil, errors.LoadError(uri, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.LoadError(uri, err)
	}
	w, err := Parse(data)
	if err != nil {
		return nil, errors.LoadError(uri, err)
	}
	internal.DefaultLogger.With("geo").Info("loaded %d country outlines from %s", len(w.Features), uri)
	return w, nil
}

// Parse reads a GeoJSON FeatureCollection. Features without a name or with
// geometry other than Polygon/MultiPolygon are skipped.
func Parse(data []byte) (*World, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid GeoJSON")
	}
	root := gjson.ParseBytes(data)
	if t := root.Get("type").String(); t != "FeatureCollection" {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", t)
	}

	w := &World{index: make(map[string]int)}
	root.Get("features").ForEach(func(_, f gjson.Result) bool {
		name := featureName(f)
		if name == "" {
			return true
		}
		var polys []Polygon
		coords := f.Get("geometry.coordinates")
		switch f.Get("geometry.type").String() {
		case "Polygon":
			polys = []Polygon{parsePolygon(coords)}
		case "MultiPolygon":
			coords.ForEach(func(_, p gjson.Result) bool {
				polys = append(polys, parsePolygon(p))
				return true
			})
		default:
			return true
		}
		w.add(Feature{Name: name, ID: f.Get("id").String(), Polygons: polys})
		return true
	})
	return w, nil
}

func featureName(f gjson.Result) string {
	for _, path := range []string{"properties.name", "properties.NAME", "properties.ADMIN", "properties.admin"} {
		if v := f.Get(path); v.Exists() && v.String() != "" {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}

func parsePolygon(p gjson.Result) Polygon {
	var poly Polygon
	p.ForEach(func(_, ring gjson.Result) bool {
		var r Ring
		ring.ForEach(func(_, pt gjson.Result) bool {
			xy := pt.Array()
			if len(xy) >= 2 {
				r = append(r, Point{xy[0].Float(), xy[1].Float()})
			}
			return true
		})
		poly = append(poly, r)
		return true
	})
	return poly
}

func (w *World) add(f Feature) {
	w.Features = append(w.Features, f)
	i := len(w.Features) - 1
	w.index[strings.ToLower(f.Name)] = i
	if k := CountryKey(f.Name); k != "" {
		if _, taken := w.index[k]; !taken {
			w.index[k] = i
		}
	}
}

// CountryKey returns the ISO alpha-3 code for a recognised country name, or
// "" when the name is not a known country.
func CountryKey(name string) string {
	c := countries.ByName(strings.TrimSpace(name))
	if c == countries.Unknown {
		return ""
	}
	return c.Alpha3()
}

// Lookup returns the index of the feature for a dataset country name. Exact
// (case-insensitive) names win over ISO code matches.
func (w *World) Lookup(country string) (int, bool) {
	if w == nil {
		return 0, false
	}
	if i, ok := w.index[strings.ToLower(strings.TrimSpace(country))]; ok {
		return i, true
	}
	if k := CountryKey(country); k != "" {
		i, ok := w.index[k]
		return i, ok
	}
	return 0, false
}

// FeatureCounts maps per-country record counts onto feature indexes.
// Countries with no outline are returned separately.
func (w *World) FeatureCounts(counts map[string]int) (byFeature map[int]int, unmatched []string) {
	byFeature = make(map[int]int)
	for country, n := range counts {
		if i, ok := w.Lookup(country); ok {
			byFeature[i] += n
		} else {
			unmatched = append(unmatched, country)
		}
	}
	return byFeature, unmatched
}

// Bounds returns the lon/lat extent of every outline. ok is false when the
// world is empty.
func (w *World) Bounds() (min, max Point, ok bool) {
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	for _, f := range w.Features {
		for _, poly := range f.Polygons {
			for _, ring := range poly {
				for _, p := range ring {
					min[0], min[1] = math.Min(min[0], p[0]), math.Min(min[1], p[1])
					max[0], max[1] = math.Max(max[0], p[0]), math.Max(max[1], p[1])
					ok = true
				}
			}
		}
	}
	return min, max, ok
}
