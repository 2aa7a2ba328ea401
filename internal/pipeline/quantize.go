package pipeline

import (
	"github.com/gogpu/pixquant/internal/color"
)

// Weights of the WeightedRGB metric.
const (
	weightR = 0.3
	weightG = 0.59
	weightB = 0.11
)

// Quantizer finds the nearest palette color under a metric.
// It is immutable after construction and safe for concurrent use.
type Quantizer struct {
	metric  Metric
	palette [][3]uint8
	rgb     [][3]float64
	lab     []color.Lab // precomputed once; only for MetricLab
}

// NewQuantizer prepares palette for nearest-color search under m.
// For MetricLab the palette's Lab values are computed here, once per run.
func NewQuantizer(palette [][3]uint8, m Metric) (*Quantizer, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	q := &Quantizer{
		metric:  m,
		palette: palette,
		rgb:     make([][3]float64, len(palette)),
	}
	for i, c := range palette {
		q.rgb[i] = [3]float64{float64(c[0]), float64(c[1]), float64(c[2])}
	}
	if m == MetricLab {
		q.lab = color.PaletteLab(palette)
	}
	return q, nil
}

// Len returns the number of palette entries.
func (q *Quantizer) Len() int {
	return len(q.palette)
}

// Color returns palette entry i.
func (q *Quantizer) Color(i int) [3]uint8 {
	return q.palette[i]
}

// Nearest returns the index of the palette entry closest to (r,g,b) and the
// squared distance to it. The first entry wins ties.
func (q *Quantizer) Nearest(r, g, b float64) (int, float64) {
	if q.metric == MetricLab {
		p := color.RGBToLab(r, g, b)
		best, bestDist := 0, p.Distance(q.lab[0])
		for i := 1; i < len(q.lab); i++ {
			if d := p.Distance(q.lab[i]); d < bestDist {
				best, bestDist = i, d
			}
		}
		return best, bestDist
	}

	best, bestDist := 0, q.distance(r, g, b, 0)
	for i := 1; i < len(q.rgb); i++ {
		if d := q.distance(r, g, b, i); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

func (q *Quantizer) distance(r, g, b float64, i int) float64 {
	c := &q.rgb[i]
	dr := r - c[0]
	dg := g - c[1]
	db := b - c[2]
	if q.metric == MetricWeightedRGB {
		return weightR*dr*dr + weightG*dg*dg + weightB*db*db
	}
	return dr*dr + dg*dg + db*db
}

// QuantizeRows replaces the RGB of rows [y0,y1) of pix with palette colors,
// dithering where d allows. Alpha is left untouched.
func QuantizeRows(pix []uint8, w int, q *Quantizer, d Dither, y0, y1 int) {
	for y := y0; y < y1; y++ {
		i := y * w * 4
		for x := 0; x < w; x++ {
			idx := d.Apply(q, x, y, float64(pix[i]), float64(pix[i+1]), float64(pix[i+2]))
			c := q.palette[idx]
			pix[i], pix[i+1], pix[i+2] = c[0], c[1], c[2]
			i += 4
		}
	}
}
