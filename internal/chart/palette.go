package chart

// Category10 is the ten-color categorical palette.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Greens5 is a five-step sequential green scheme, lightest first.
var Greens5 = []string{"#edf8e9", "#bae4b3", "#74c476", "#31a354", "#006d2c"}

// Ordinal assigns palette colors to keys in first-seen order, cycling when
// the palette runs out.
type Ordinal struct {
	palette []string
	index   map[string]int
}

// NewOrdinal returns an ordinal color scale, optionally pre-seeded with a
// domain so colors do not depend on draw order.
func NewOrdinal(palette []string, domain ...string) *Ordinal {
	o := &Ordinal{palette: palette, index: make(map[string]int)}
	for _, d := range domain {
		o.Color(d)
	}
	return o
}

// Color returns the color for key.
func (o *Ordinal) Color(key string) string {
	i, ok := o.index[key]
	if !ok {
		i = len(o.index)
		o.index[key] = i
	}
	return o.palette[i%len(o.palette)]
}
