package pipeline

// DefaultAmplitude is the dither amplitude used when none is configured.
// Bayer offsets span [-0.5, 0.4375], so the default perturbs each channel
// by at most 16 levels.
const DefaultAmplitude = 32

// MaxThreshold is the largest accepted snap threshold (squared distance).
const MaxThreshold = 1500

// bayer4 is the 4x4 Bayer matrix, row-major.
var bayer4 = [16]float64{
	0, 8, 2, 10,
	12, 4, 14, 6,
	3, 11, 1, 9,
	15, 7, 13, 5,
}

// BayerOffset returns the normalized Bayer value v/16 - 0.5 for pixel (x,y).
func BayerOffset(x, y int) float64 {
	return bayer4[(y&3)*4+(x&3)]/16 - 0.5
}

// Dither configures ordered dithering.
//
// Threshold only gates dithering: a pixel whose squared distance to its
// nearest palette color is below Threshold is snapped without dithering.
// Amplitude alone controls how far the Bayer offset moves a pixel.
type Dither struct {
	Enabled   bool
	Threshold float64
	Amplitude float64
}

// Apply returns the palette index for the pixel at (x,y).
func (d Dither) Apply(q *Quantizer, x, y int, r, g, b float64) int {
	idx, dist := q.Nearest(r, g, b)
	if !d.Enabled || dist < d.Threshold {
		return idx
	}
	off := BayerOffset(x, y) * d.Amplitude
	idx, _ = q.Nearest(clamp255(r+off), clamp255(g+off), clamp255(b+off))
	return idx
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
