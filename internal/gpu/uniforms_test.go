//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/pixquant/internal/color"
	"github.com/gogpu/pixquant/internal/pipeline"
)

func TestParamsSize(t *testing.T) {
	// 3 x 16-byte header rows + two arrays of 64 vec4<f32>.
	const want = 48 + 2*MaxPalette*16
	if paramsSize != want {
		t.Errorf("paramsSize = %d, want %d", paramsSize, want)
	}
	if paramsSize%16 != 0 {
		t.Errorf("paramsSize = %d, not a multiple of 16", paramsSize)
	}
}

func TestParamsMatchesShaderArrays(t *testing.T) {
	decl := "array<vec4<f32>, 64>"
	if MaxPalette != 64 || strings.Count(commonShaderSource, decl) != 2 {
		t.Errorf("common.wgsl must declare two %s arrays matching MaxPalette=%d", decl, MaxPalette)
	}
}

func readF32(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestParamsLayout(t *testing.T) {
	cfg := &pipeline.Config{
		Brightness: 10,
		Contrast:   20,
		Saturation: -50,
		Sharpness:  40,
		Palette:    [][3]uint8{{0, 0, 0}, {255, 128, 7}},
		Metric:     pipeline.MetricLab,
		Dither:     pipeline.Dither{Enabled: true, Threshold: 300, Amplitude: 32},
	}
	b := newParams(cfg, 640, 480).bytes()
	if uint64(len(b)) != paramsSize {
		t.Fatalf("len = %d, want %d", len(b), paramsSize)
	}

	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }
	if u32(0) != 640 || u32(4) != 480 || u32(8) != 2 || u32(12) != uint32(pipeline.MetricLab) {
		t.Errorf("header = %d %d %d %d", u32(0), u32(4), u32(8), u32(12))
	}

	adj := cfg.Adjuster()
	floats := []struct {
		name string
		off  int
		want float64
	}{
		{"brightness_delta", 16, adj.BrightnessDelta},
		{"contrast_factor", 20, adj.ContrastFactor},
		{"saturation_factor", 24, adj.SaturationFactor},
		{"sharpen_strength", 28, 0.4},
		{"threshold", 36, 300},
		{"amplitude", 40, 32},
	}
	for _, f := range floats {
		if got := readF32(b, f.off); math.Abs(float64(got)-f.want) > 1e-5 {
			t.Errorf("%s at %d = %v, want %v", f.name, f.off, got, f.want)
		}
	}
	if u32(32) != 1 {
		t.Errorf("dither_enabled = %d, want 1", u32(32))
	}

	const paletteOff, labOff = 48, 48 + MaxPalette*16
	if r, g, bl := readF32(b, paletteOff+16), readF32(b, paletteOff+20), readF32(b, paletteOff+24); r != 255 || g != 128 || bl != 7 {
		t.Errorf("palette[1] = %v %v %v", r, g, bl)
	}
	want := color.RGBToLab(255, 128, 7)
	if l := readF32(b, labOff+16); math.Abs(float64(l)-want.L) > 1e-4 {
		t.Errorf("palette_lab[1].L = %v, want %v", l, want.L)
	}
}

func TestParamsLabOnlyForLabMetric(t *testing.T) {
	cfg := &pipeline.Config{Palette: [][3]uint8{{200, 10, 10}}, Metric: pipeline.MetricRGB}
	p := newParams(cfg, 1, 1)
	if p.PaletteLab[0] != [4]float32{} {
		t.Errorf("PaletteLab filled for RGB metric: %v", p.PaletteLab[0])
	}
	if p.DitherEnabled != 0 {
		t.Error("DitherEnabled set with dithering off")
	}
}
