package color

import (
	"math"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// TestSRGBToLinearEdgeCases tests edge cases for sRGB to linear conversion.
func TestSRGBToLinearEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"black", 0.0, 0.0},
		{"white", 1.0, 1.0},
		{"threshold", 0.04045, 0.04045 / 12.92},
		{"just above threshold", 0.04046, math.Pow((0.04046+0.055)/1.055, 2.4)},
		{"mid gray", 0.5, math.Pow((0.5+0.055)/1.055, 2.4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SRGBToLinear(tt.input)
			if !near(got, tt.want, 1e-12) {
				t.Errorf("SRGBToLinear(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRGBToLabReferenceColors(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    Lab
	}{
		{"black", 0, 0, 0, Lab{0, 0, 0}},
		{"white", 255, 255, 255, Lab{100, 0, 0}},
		{"red", 255, 0, 0, Lab{53.24, 80.09, 67.20}},
		{"green", 0, 255, 0, Lab{87.73, -86.18, 83.18}},
		{"blue", 0, 0, 255, Lab{32.30, 79.19, -107.86}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToLab(tt.r, tt.g, tt.b)
			if !near(got.L, tt.want.L, 0.1) || !near(got.A, tt.want.A, 0.1) || !near(got.B, tt.want.B, 0.1) {
				t.Errorf("RGBToLab(%v,%v,%v) = %+v, want %+v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

// TestConstantsMatchColorful cross-checks the matrix and white point against
// go-colorful, which implements the same D65 sRGB conversion independently.
func TestConstantsMatchColorful(t *testing.T) {
	for col := 0; col < 3; col++ {
		var in [3]float64
		in[col] = 1
		x, y, z := colorful.LinearRgbToXyz(in[0], in[1], in[2])
		got := [3]float64{x, y, z}
		for row := 0; row < 3; row++ {
			if !near(SRGBToXYZ[row][col], got[row], 1e-4) {
				t.Errorf("SRGBToXYZ[%d][%d] = %v, colorful = %v", row, col, SRGBToXYZ[row][col], got[row])
			}
		}
	}
	for i := range WhiteD65 {
		if !near(WhiteD65[i], colorful.D65[i], 1e-9) {
			t.Errorf("WhiteD65[%d] = %v, colorful = %v", i, WhiteD65[i], colorful.D65[i])
		}
	}
}

func TestRGBToLabMatchesColorful(t *testing.T) {
	for r := 0; r < 256; r += 51 {
		for g := 0; g < 256; g += 51 {
			for b := 0; b < 256; b += 51 {
				got := RGBToLab(float64(r), float64(g), float64(b))
				l, a, bb := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Lab()
				// go-colorful scales Lab by 1/100.
				if !near(got.L, l*100, 0.01) || !near(got.A, a*100, 0.01) || !near(got.B, bb*100, 0.01) {
					t.Errorf("RGBToLab(%d,%d,%d) = %+v, colorful = (%v,%v,%v)", r, g, b, got, l*100, a*100, bb*100)
				}
			}
		}
	}
}

func TestPaletteLabPreservesOrder(t *testing.T) {
	pal := [][3]uint8{{255, 255, 255}, {0, 0, 0}, {255, 0, 0}}
	labs := PaletteLab(pal)
	if len(labs) != len(pal) {
		t.Fatalf("len = %d, want %d", len(labs), len(pal))
	}
	for i, c := range pal {
		want := RGBToLab(float64(c[0]), float64(c[1]), float64(c[2]))
		if labs[i] != want {
			t.Errorf("labs[%d] = %+v, want %+v", i, labs[i], want)
		}
	}
}

func TestLabDistance(t *testing.T) {
	a := Lab{L: 10, A: 2, B: -3}
	b := Lab{L: 13, A: 6, B: -3}
	if got := a.Distance(b); got != 25 {
		t.Errorf("Distance = %v, want 25", got)
	}
	if got := a.Distance(a); got != 0 {
		t.Errorf("self Distance = %v, want 0", got)
	}
}

func TestWGSLConstants(t *testing.T) {
	src := WGSLConstants()
	for _, name := range []string{"SRGB_THRESHOLD", "LAB_DELTA", "SRGB_TO_X", "SRGB_TO_Y", "SRGB_TO_Z", "WHITE_D65"} {
		if !strings.Contains(src, "const "+name) {
			t.Errorf("WGSLConstants() missing %s", name)
		}
	}
	if !strings.Contains(src, "0.04045") {
		t.Errorf("threshold literal missing:\n%s", src)
	}
	if !strings.Contains(src, "vec3<f32>(0.95047, 1.0, 1.08883)") {
		t.Errorf("white point literal not formatted as floats:\n%s", src)
	}
}

func TestWGSLFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{0.5, "0.5"},
		{6.0 / 29.0, "0.206896552"},
	}
	for _, tt := range tests {
		if got := wgslFloat(tt.in); got != tt.want {
			t.Errorf("wgslFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
