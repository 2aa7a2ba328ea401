package pipeline

import (
	"errors"
	"fmt"
)

// Errors returned by the pipeline.
var (
	// ErrEmptyPalette is returned when quantization is requested with no colors.
	ErrEmptyPalette = errors.New("pipeline: palette has no colors")

	// ErrBufferSize is returned when a pixel buffer does not hold width*height*4 bytes.
	ErrBufferSize = errors.New("pipeline: buffer size does not match dimensions")
)

// Metric selects the distance used for nearest-color search.
// The numeric values are shared with the GPU uniform block.
type Metric uint32

const (
	// MetricRGB is squared Euclidean distance in sRGB.
	MetricRGB Metric = iota

	// MetricWeightedRGB weights squared channel deltas by 0.3, 0.59, 0.11.
	MetricWeightedRGB

	// MetricLab is squared Euclidean distance in CIE Lab (D65).
	MetricLab
)

// String returns the metric name.
func (m Metric) String() string {
	switch m {
	case MetricRGB:
		return "RGB"
	case MetricWeightedRGB:
		return "WeightedRGB"
	case MetricLab:
		return "Lab"
	default:
		return fmt.Sprintf("Metric(%d)", uint32(m))
	}
}

// Config is the complete, backend-agnostic description of one pipeline run.
// All fields are plain values; nothing is read from ambient state.
type Config struct {
	// Brightness, Contrast and Saturation are in [-100,100].
	Brightness float64
	Contrast   float64
	Saturation float64

	// Sharpness is in [0,100].
	Sharpness float64

	// Palette is the ordered list of active colors.
	Palette [][3]uint8

	// Metric selects the nearest-color distance.
	Metric Metric

	// Dither configures ordered dithering.
	Dither Dither
}

// Adjuster returns the tone adjuster for c.
func (c *Config) Adjuster() Adjuster {
	return NewAdjuster(c.Brightness, c.Contrast, c.Saturation)
}

// SharpenStrength returns the per-neighbor weight for c.Sharpness.
func (c *Config) SharpenStrength() float64 {
	return c.Sharpness / 100
}

// checkBuffer validates that pix holds exactly w*h RGBA8 pixels.
func checkBuffer(pix []uint8, w, h int) error {
	if w <= 0 || h <= 0 || len(pix) != w*h*4 {
		return fmt.Errorf("%w: len=%d, %dx%d", ErrBufferSize, len(pix), w, h)
	}
	return nil
}
