// Package color provides the sRGB to CIE Lab conversion shared by the CPU
// and GPU pipelines.
//
// The conversion constants live here and nowhere else: the CPU path reads
// them directly and the GPU path receives them as generated WGSL constants
// (see WGSLConstants), so both backends compute identical Lab values up to
// floating-point precision.
package color

// Lab is a CIE L*a*b* color relative to the D65 white point.
// L is in [0,100]; A and B are unbounded but stay within about ±128 for sRGB input.
type Lab struct {
	L, A, B float64
}

// SRGBToXYZ is the linear sRGB (BT.709 primaries) to CIE XYZ matrix, row-major.
var SRGBToXYZ = [3][3]float64{
	{0.41239079926595948, 0.35758433938387796, 0.18048078840183429},
	{0.21263900587151036, 0.71516867876775593, 0.072192315360733715},
	{0.019330818715591851, 0.11919477979462599, 0.95053215224966058},
}

// WhiteD65 is the CIE XYZ tristimulus value of the D65 reference white.
var WhiteD65 = [3]float64{0.95047, 1.00000, 1.08883}

// Piecewise constants of the sRGB transfer function and the Lab companding.
const (
	// SRGBThreshold is the encoded value below which the sRGB curve is linear.
	SRGBThreshold = 0.04045

	// LabDelta is δ = 6/29, the breakpoint of the Lab cube-root segment.
	LabDelta = 6.0 / 29.0
)

// Distance returns the squared Euclidean distance between two Lab colors.
func (c Lab) Distance(o Lab) float64 {
	dl := c.L - o.L
	da := c.A - o.A
	db := c.B - o.B
	return dl*dl + da*da + db*db
}
