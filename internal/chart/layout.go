package chart

import (
	"math"

	"evodash/adapters/geo"
)

// Rect is an axis-aligned box given by its corners.
type Rect struct{ X0, Y0, X1, Y1 float64 }

func (r Rect) W() float64 { return r.X1 - r.X0 }
func (r Rect) H() float64 { return r.Y1 - r.Y0 }

// Inset shrinks r by p on every side without inverting it.
func (r Rect) Inset(p float64) Rect {
	out := Rect{r.X0 + p, r.Y0 + p, r.X1 - p, r.Y1 - p}
	if out.X1 < out.X0 {
		out.X0, out.X1 = (r.X0+r.X1)/2, (r.X0+r.X1)/2
	}
	if out.Y1 < out.Y0 {
		out.Y0, out.Y1 = (r.Y0+r.Y1)/2, (r.Y0+r.Y1)/2
	}
	return out
}

var goldenRatio = (1 + math.Sqrt(5)) / 2

// Squarify tiles r with one box per value, in value order, choosing row
// breaks that keep aspect ratios close to the golden ratio. Values should be
// sorted descending and non-negative.
func Squarify(values []float64, r Rect) []Rect {
	out := make([]Rect, len(values))
	total := 0.0
	for _, v := range values {
		total += v
	}
	n := len(values)
	i0, i1 := 0, 0
	x0, y0, x1, y1 := r.X0, r.Y0, r.X1, r.Y1
	for i0 < n {
		dx, dy := x1-x0, y1-y0

		sum := values[i1]
		i1++
		for sum == 0 && i1 < n {
			sum = values[i1]
			i1++
		}
		minV, maxV := sum, sum
		alpha := math.Max(dy/dx, dx/dy) / (total * goldenRatio)
		beta := sum * sum * alpha
		minRatio := math.Max(maxV/beta, beta/minV)
		for ; i1 < n; i1++ {
			v := values[i1]
			sum += v
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
			beta = sum * sum * alpha
			ratio := math.Max(maxV/beta, beta/minV)
			if ratio > minRatio {
				sum -= v
				break
			}
			minRatio = ratio
		}

		if dx < dy {
			// row spans the width
			ry1 := y1
			if total > 0 {
				ry1 = y0 + dy*sum/total
			}
			k := 0.0
			if sum > 0 {
				k = dx / sum
			}
			x := x0
			for i := i0; i < i1; i++ {
				out[i] = Rect{x, y0, x + values[i]*k, ry1}
				x += values[i] * k
			}
			y0 = ry1
		} else {
			rx1 := x1
			if total > 0 {
				rx1 = x0 + dx*sum/total
			}
			k := 0.0
			if sum > 0 {
				k = dy / sum
			}
			y := y0
			for i := i0; i < i1; i++ {
				out[i] = Rect{x0, y, rx1, y + values[i]*k}
				y += values[i] * k
			}
			x0 = rx1
		}
		total -= sum
		i0 = i1
	}
	return out
}

// TreeNode is a node of a fixed hierarchy plus its computed position.
type TreeNode struct {
	Name     string      `json:"name"`
	Children []*TreeNode `json:"children,omitempty"`

	X, Y  float64 `json:"-"`
	Depth int     `json:"-"`
}

// LayoutTree positions a top-down tree in width x height. Leaves are spread
// left to right with a wider gap between leaves of different parents;
// parents sit centred over their children and depth maps to y.
func LayoutTree(root *TreeNode, width, height float64) {
	if root == nil {
		return
	}
	var leaves []*TreeNode
	maxDepth := 0
	var walk func(n, parent *TreeNode, depth int)
	var prevParent *TreeNode
	gap := 0.0
	walk = func(n, parent *TreeNode, depth int) {
		n.Depth = depth
		if depth > maxDepth {
			maxDepth = depth
		}
		if len(n.Children) == 0 {
			if len(leaves) > 0 {
				if parent == prevParent {
					gap++
				} else {
					gap += 2
				}
			}
			n.X = gap
			prevParent = parent
			leaves = append(leaves, n)
			return
		}
		for _, c := range n.Children {
			walk(c, n, depth+1)
		}
		n.X = (n.Children[0].X + n.Children[len(n.Children)-1].X) / 2
	}
	walk(root, nil, 0)

	kx := 0.0
	if gap > 0 {
		kx = width / gap
	}
	ky := 0.0
	if maxDepth > 0 {
		ky = height / float64(maxDepth)
	}
	var place func(n *TreeNode)
	place = func(n *TreeNode) {
		if gap == 0 {
			n.X = width / 2
		} else {
			n.X *= kx
		}
		n.Y = float64(n.Depth) * ky
		for _, c := range n.Children {
			place(c)
		}
	}
	place(root)
}

// Descendants lists n and every node below it in pre-order.
func (n *TreeNode) Descendants() []*TreeNode {
	out := []*TreeNode{n}
	for _, c := range n.Children {
		out = append(out, c.Descendants()...)
	}
	return out
}

// Bubble is a circle being relaxed toward a target point.
type Bubble struct {
	X, Y, R float64
	TX, TY  float64
	vx, vy  float64
}

// RelaxBubbles pulls every bubble toward its target while pushing
// overlapping bubbles apart, for a fixed number of ticks. Initial positions
// follow a phyllotaxis spiral so the result is deterministic.
func RelaxBubbles(bs []*Bubble, padding float64, ticks int) {
	initialAngle := math.Pi * (3 - math.Sqrt(5))
	for i, b := range bs {
		radius := 10 * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		b.X, b.Y = radius*math.Cos(angle), radius*math.Sin(angle)
		b.vx, b.vy = 0, 0
	}

	alpha := 1.0
	alphaDecay := 1 - math.Pow(0.001, 1.0/300)
	const velocityDecay = 0.4
	for t := 0; t < ticks; t++ {
		alpha += (0 - alpha) * alphaDecay
		for _, b := range bs {
			b.vx += (b.TX - b.X) * alpha
			b.vy += (b.TY - b.Y) * alpha
		}
		for i := 0; i < len(bs); i++ {
			for j := i + 1; j < len(bs); j++ {
				a, b := bs[i], bs[j]
				ri, rj := a.R+padding, b.R+padding
				rr := ri + rj
				x := a.X + a.vx - b.X - b.vx
				y := a.Y + a.vy - b.Y - b.vy
				l := x*x + y*y
				if l >= rr*rr {
					continue
				}
				if x == 0 {
					x = jiggle(i, j)
					l += x * x
				}
				if y == 0 {
					y = jiggle(j, i)
					l += y * y
				}
				l = math.Sqrt(l)
				l = (rr - l) / l
				x, y = x*l, y*l
				share := rj * rj / (ri*ri + rj*rj)
				a.vx += x * share
				a.vy += y * share
				b.vx -= x * (1 - share)
				b.vy -= y * (1 - share)
			}
		}
		for _, b := range bs {
			b.vx *= 1 - velocityDecay
			b.vy *= 1 - velocityDecay
			b.X += b.vx
			b.Y += b.vy
		}
	}
}

// jiggle is a tiny deterministic offset for coincident centres.
func jiggle(i, j int) float64 {
	return (float64((i*31+j*17)%11) - 5) * 1e-6
}

// Mercator projects lon/lat degrees, fitted to a width x height box.
type Mercator struct {
	k, tx, ty float64
}

const maxLat = 85.05112878

func mercatorRaw(p geo.Point) (float64, float64) {
	lat := math.Max(-maxLat, math.Min(maxLat, p[1]))
	x := p[0] * math.Pi / 180
	y := math.Log(math.Tan(math.Pi/4 + lat*math.Pi/360))
	return x, -y
}

// FitMercator scales and centres the projected bounds of min..max into the
// box.
func FitMercator(min, max geo.Point, width, height float64) Mercator {
	x0, y1 := mercatorRaw(min)
	x1, y0 := mercatorRaw(max)
	dx, dy := x1-x0, y1-y0
	if dx <= 0 || dy <= 0 {
		return Mercator{k: 1, tx: width / 2, ty: height / 2}
	}
	k := math.Min(width/dx, height/dy)
	return Mercator{
		k:  k,
		tx: (width - k*(x0+x1)) / 2,
		ty: (height - k*(y0+y1)) / 2,
	}
}

// Project returns the screen position of p.
func (m Mercator) Project(p geo.Point) (float64, float64) {
	x, y := mercatorRaw(p)
	return m.tx + m.k*x, m.ty + m.k*y
}
