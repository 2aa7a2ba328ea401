//go:build !nogpu

package gpu

import (
	"bytes"
	"encoding/binary"

	"github.com/gogpu/pixquant/internal/color"
	"github.com/gogpu/pixquant/internal/pipeline"
)

// MaxPalette is the palette capacity of the uniform block.
const MaxPalette = 64

// params mirrors the WGSL Params struct in shaders/common.wgsl.
// Field order and sizes follow the uniform layout rules: the two palette
// arrays start on a 16-byte boundary with a 16-byte element stride.
type params struct {
	Width       uint32
	Height      uint32
	PaletteSize uint32
	Metric      uint32

	BrightnessDelta  float32
	ContrastFactor   float32
	SaturationFactor float32
	SharpenStrength  float32

	DitherEnabled uint32
	Threshold     float32
	Amplitude     float32
	_             uint32

	Palette    [MaxPalette][4]float32
	PaletteLab [MaxPalette][4]float32
}

// paramsSize is the byte size of the uniform buffer.
var paramsSize = uint64(binary.Size(params{}))

// newParams fills the uniform block for one run. cfg.Palette must hold
// between 1 and MaxPalette colors.
func newParams(cfg *pipeline.Config, w, h int) *params {
	adj := cfg.Adjuster()
	p := &params{
		Width:            uint32(w),
		Height:           uint32(h),
		PaletteSize:      uint32(len(cfg.Palette)),
		Metric:           uint32(cfg.Metric),
		BrightnessDelta:  float32(adj.BrightnessDelta),
		ContrastFactor:   float32(adj.ContrastFactor),
		SaturationFactor: float32(adj.SaturationFactor),
		SharpenStrength:  float32(cfg.SharpenStrength()),
		Threshold:        float32(cfg.Dither.Threshold),
		Amplitude:        float32(cfg.Dither.Amplitude),
	}
	if cfg.Dither.Enabled {
		p.DitherEnabled = 1
	}
	for i, c := range cfg.Palette {
		p.Palette[i] = [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), 0}
	}
	if cfg.Metric == pipeline.MetricLab {
		for i, lab := range color.PaletteLab(cfg.Palette) {
			p.PaletteLab[i] = [4]float32{float32(lab.L), float32(lab.A), float32(lab.B), 0}
		}
	}
	return p
}

// bytes encodes p in the little-endian layout the shaders read.
func (p *params) bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(int(paramsSize))
	// Writing a fixed-size struct to a bytes.Buffer cannot fail.
	_ = binary.Write(&buf, binary.LittleEndian, p)
	return buf.Bytes()
}
