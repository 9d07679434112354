package chart

import (
	"math"

	"github.com/aclements/go-moremath/scale"
)

// Linear maps a numeric domain onto a pixel range.
type Linear struct {
	s      scale.Linear
	r0, r1 float64
}

// NewLinear builds a linear scale. A degenerate domain is widened so Map
// stays finite.
func NewLinear(d0, d1, r0, r1 float64) *Linear {
	if d0 > d1 {
		// moremath wants Min <= Max; flip the range instead.
		d0, d1 = d1, d0
		r0, r1 = r1, r0
	}
	if d0 == d1 {
		if d0 == 0 {
			d1 = 1
		} else {
			d0, d1 = d0-math.Abs(d0)/2, d1+math.Abs(d1)/2
		}
	}
	return &Linear{s: scale.Linear{Min: d0, Max: d1}, r0: r0, r1: r1}
}

// Nice extends the domain to round tick values.
func (l *Linear) Nice(maxTicks int) *Linear {
	l.s.Nice(scale.TickOptions{Max: maxTicks})
	return l
}

// Map returns the pixel position of v.
func (l *Linear) Map(v float64) float64 {
	return l.r0 + l.s.Map(v)*(l.r1-l.r0)
}

// Domain returns the (possibly niced) domain.
func (l *Linear) Domain() (float64, float64) { return l.s.Min, l.s.Max }

// Ticks returns at most max major tick values.
func (l *Linear) Ticks(max int) []float64 {
	major, _ := l.s.Ticks(scale.TickOptions{Max: max})
	return major
}

// Band positions discrete categories as equal-width bands.
type Band struct {
	index     map[string]int
	domain    []string
	start     float64
	step      float64
	bandwidth float64
	reverse   bool
}

// NewBand lays domain across [r0, r1] with the same padding on the inside
// and outside of the bands.
func NewBand(domain []string, r0, r1, padding float64) *Band {
	return newBand(domain, r0, r1, padding, padding)
}

// NewPoint places categories at evenly spaced points with outer padding
// expressed in steps.
func NewPoint(domain []string, r0, r1, padding float64) *Band {
	return newBand(domain, r0, r1, 1, padding)
}

func newBand(domain []string, r0, r1, inner, outer float64) *Band {
	b := &Band{index: make(map[string]int), reverse: r1 < r0}
	for _, d := range domain {
		if _, ok := b.index[d]; ok {
			continue
		}
		b.index[d] = len(b.domain)
		b.domain = append(b.domain, d)
	}
	if b.reverse {
		r0, r1 = r1, r0
	}
	n := float64(len(b.domain))
	b.step = (r1 - r0) / math.Max(1, n-inner+outer*2)
	b.start = r0 + (r1-r0-b.step*(n-inner))*0.5
	b.bandwidth = b.step * (1 - inner)
	return b
}

// Map returns the start of the band for v and whether v is in the domain.
func (b *Band) Map(v string) (float64, bool) {
	i, ok := b.index[v]
	if !ok {
		return 0, false
	}
	if b.reverse {
		i = len(b.domain) - 1 - i
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth returns the width of each band; 0 for point scales.
func (b *Band) Bandwidth() float64 { return b.bandwidth }

// Domain returns the distinct categories in first-seen order.
func (b *Band) Domain() []string { return b.domain }

// Threshold maps values to colors by ascending cut points.
type Threshold struct {
	Cuts   []float64
	Colors []string // len(Cuts)+1
}

// Color returns the color for v.
func (t Threshold) Color(v float64) string {
	for i, c := range t.Cuts {
		if v < c {
			return t.Colors[i]
		}
	}
	return t.Colors[len(t.Cuts)]
}
