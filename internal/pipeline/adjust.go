package pipeline

import "math"

// BT.601 luma weights used by the saturation step. Lab conversion uses
// BT.709 primaries; the difference is intentional and matches the
// established look of the saturation slider.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Adjuster applies brightness, contrast and saturation to raw 0-255 RGB.
type Adjuster struct {
	BrightnessDelta  float64
	ContrastFactor   float64
	SaturationFactor float64

	identity bool
}

// NewAdjuster derives the per-pixel factors from slider values in [-100,100].
//
//	brightnessDelta = brightness * 2.55
//	contrastFactor  = 259*(contrast+255) / (255*(259-contrast))
//	satFactor       = 1 + saturation/100
func NewAdjuster(brightness, contrast, saturation float64) Adjuster {
	return Adjuster{
		BrightnessDelta:  brightness * 2.55,
		ContrastFactor:   259 * (contrast + 255) / (255 * (259 - contrast)),
		SaturationFactor: 1 + saturation/100,
		identity:         brightness == 0 && contrast == 0 && saturation == 0,
	}
}

// IsIdentity reports whether all three sliders are zero.
func (a Adjuster) IsIdentity() bool {
	return a.identity
}

// Apply returns the adjusted color. No clamping happens here; callers
// clamp when materializing into 8 bits.
func (a Adjuster) Apply(r, g, b float64) (float64, float64, float64) {
	r = a.ContrastFactor*(r+a.BrightnessDelta-128) + 128
	g = a.ContrastFactor*(g+a.BrightnessDelta-128) + 128
	b = a.ContrastFactor*(b+a.BrightnessDelta-128) + 128

	luma := lumaR*r + lumaG*g + lumaB*b
	s := a.SaturationFactor
	return luma + (r-luma)*s, luma + (g-luma)*s, luma + (b-luma)*s
}

// AdjustRows adjusts rows [y0,y1) of pix in place.
func AdjustRows(pix []uint8, w int, a Adjuster, y0, y1 int) {
	for i := y0 * w * 4; i < y1*w*4; i += 4 {
		r, g, b := a.Apply(float64(pix[i]), float64(pix[i+1]), float64(pix[i+2]))
		pix[i] = Materialize(r)
		pix[i+1] = Materialize(g)
		pix[i+2] = Materialize(b)
	}
}

// Materialize clamps c to [0,255] and rounds half up, the same conversion
// the GPU passes apply when storing a stage result.
func Materialize(c float64) uint8 {
	if c <= 0 {
		return 0
	}
	if c >= 255 {
		return 255
	}
	return uint8(math.Floor(c + 0.5))
}
