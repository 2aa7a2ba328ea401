package color

import (
	"fmt"
	"strings"
)

// WGSLConstants returns WGSL module-scope constant declarations for the
// conversion constants. GPU shaders that convert to Lab are prefixed with
// this block so they never carry hand-copied numbers.
//
// Declared names: SRGB_THRESHOLD, LAB_DELTA, SRGB_TO_X, SRGB_TO_Y,
// SRGB_TO_Z (matrix rows) and WHITE_D65.
func WGSLConstants() string {
	var b strings.Builder
	b.WriteString("// Generated from internal/color. Do not edit.\n")
	fmt.Fprintf(&b, "const SRGB_THRESHOLD: f32 = %s;\n", wgslFloat(SRGBThreshold))
	fmt.Fprintf(&b, "const LAB_DELTA: f32 = %s;\n", wgslFloat(LabDelta))
	for i, name := range []string{"SRGB_TO_X", "SRGB_TO_Y", "SRGB_TO_Z"} {
		row := SRGBToXYZ[i]
		fmt.Fprintf(&b, "const %s: vec3<f32> = vec3<f32>(%s, %s, %s);\n",
			name, wgslFloat(row[0]), wgslFloat(row[1]), wgslFloat(row[2]))
	}
	fmt.Fprintf(&b, "const WHITE_D65: vec3<f32> = vec3<f32>(%s, %s, %s);\n",
		wgslFloat(WhiteD65[0]), wgslFloat(WhiteD65[1]), wgslFloat(WhiteD65[2]))
	return b.String()
}

// wgslFloat formats v as a WGSL float literal. WGSL requires a decimal
// point or exponent to type a literal as float.
func wgslFloat(v float64) string {
	s := fmt.Sprintf("%.9g", v)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
