package color

import "math"

// SRGBToLinear converts an sRGB component to linear (EOTF - Electro-Optical Transfer Function).
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
// Input and output are in range [0,1].
func SRGBToLinear(s float64) float64 {
	if s <= SRGBThreshold {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// labF is the Lab companding function with the δ = 6/29 breakpoint.
func labF(t float64) float64 {
	if t > LabDelta*LabDelta*LabDelta {
		return math.Cbrt(t)
	}
	return t/(3*LabDelta*LabDelta) + 4.0/29.0
}

// XYZToLab converts CIE XYZ to Lab relative to D65.
func XYZToLab(x, y, z float64) Lab {
	fx := labF(x / WhiteD65[0])
	fy := labF(y / WhiteD65[1])
	fz := labF(z / WhiteD65[2])
	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// RGBToLab converts 0-255 sRGB components to Lab.
// Components may be fractional (dithered values are not rounded).
func RGBToLab(r, g, b float64) Lab {
	lr := SRGBToLinear(r / 255)
	lg := SRGBToLinear(g / 255)
	lb := SRGBToLinear(b / 255)
	m := &SRGBToXYZ
	return XYZToLab(
		m[0][0]*lr+m[0][1]*lg+m[0][2]*lb,
		m[1][0]*lr+m[1][1]*lg+m[1][2]*lb,
		m[2][0]*lr+m[2][1]*lg+m[2][2]*lb,
	)
}

// PaletteLab precomputes Lab values for a palette once per run,
// so the per-pixel loop only converts the pixel side.
func PaletteLab(palette [][3]uint8) []Lab {
	out := make([]Lab, len(palette))
	for i, c := range palette {
		out[i] = RGBToLab(float64(c[0]), float64(c[1]), float64(c[2]))
	}
	return out
}
