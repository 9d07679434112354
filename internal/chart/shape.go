package chart

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Arc is one pie slice. Angles are radians clockwise from twelve o'clock.
type Arc struct {
	Index      int
	Value      float64
	StartAngle float64
	EndAngle   float64
}

// PieArcs assigns angles in descending value order while keeping the input
// order in the result. Ties keep input order.
func PieArcs(values []float64) []Arc {
	arcs := make([]Arc, len(values))
	order := make([]int, len(values))
	total := 0.0
	for i, v := range values {
		order[i] = i
		if v > 0 {
			total += v
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] > values[order[b]] })

	angle := 0.0
	for _, i := range order {
		v := math.Max(values[i], 0)
		span := 0.0
		if total > 0 {
			span = v / total * 2 * math.Pi
		}
		arcs[i] = Arc{Index: i, Value: values[i], StartAngle: angle, EndAngle: angle + span}
		angle += span
	}
	return arcs
}

// Path returns the SVG path of the slice centred on the origin.
func (a Arc) Path(r float64) string {
	span := a.EndAngle - a.StartAngle
	if span <= 0 {
		return ""
	}
	if span >= 2*math.Pi-1e-9 {
		return fmt.Sprintf("M0,%sA%s,%s,0,1,1,0,%sA%s,%s,0,1,1,0,%sZ",
			num(-r), num(r), num(r), num(r), num(r), num(r), num(-r))
	}
	x0, y0 := polar(r, a.StartAngle)
	x1, y1 := polar(r, a.EndAngle)
	large := 0
	if span > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M%s,%sA%s,%s,0,%d,1,%s,%sL0,0Z",
		num(x0), num(y0), num(r), num(r), large, num(x1), num(y1))
}

// Centroid is the midpoint of the slice at half radius.
func (a Arc) Centroid(r float64) (float64, float64) {
	return polar(r/2, (a.StartAngle+a.EndAngle)/2)
}

func polar(r, angle float64) (float64, float64) {
	return r * math.Sin(angle), -r * math.Cos(angle)
}

// MonotonePath draws a cubic curve through the points that preserves
// monotonicity between neighbours in y.
func MonotonePath(xs, ys []float64) string {
	n := len(xs)
	if n == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M%s,%s", num(xs[0]), num(ys[0]))
	if n == 1 {
		return b.String()
	}
	if n == 2 {
		fmt.Fprintf(&b, "L%s,%s", num(xs[1]), num(ys[1]))
		return b.String()
	}

	secants := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		if dx := xs[i+1] - xs[i]; dx != 0 {
			secants[i] = (ys[i+1] - ys[i]) / dx
		}
	}
	tangents := make([]float64, n)
	for i := 1; i < n-1; i++ {
		s0, s1 := secants[i-1], secants[i]
		h0, h1 := xs[i]-xs[i-1], xs[i+1]-xs[i]
		if s0*s1 <= 0 || h0+h1 == 0 {
			continue
		}
		p := (s0*h1 + s1*h0) / (h0 + h1)
		tangents[i] = math.Copysign(1, s0) * math.Min(math.Min(math.Abs(s0), math.Abs(s1))*2, math.Abs(p))
	}
	tangents[0] = (3*secants[0] - tangents[1]) / 2
	tangents[n-1] = (3*secants[n-2] - tangents[n-2]) / 2
	for i := 0; i < n-1; i++ {
		dx := (xs[i+1] - xs[i]) / 3
		fmt.Fprintf(&b, "C%s,%s,%s,%s,%s,%s",
			num(xs[i]+dx), num(ys[i]+dx*tangents[i]),
			num(xs[i+1]-dx), num(ys[i+1]-dx*tangents[i+1]),
			num(xs[i+1]), num(ys[i+1]))
	}
	return b.String()
}

// VerticalLink is a cubic link between a parent and child in a top-down tree.
func VerticalLink(x0, y0, x1, y1 float64) string {
	my := (y0 + y1) / 2
	return fmt.Sprintf("M%s,%sC%s,%s,%s,%s,%s,%s",
		num(x0), num(y0), num(x0), num(my), num(x1), num(my), num(x1), num(y1))
}

// num formats coordinates compactly with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
