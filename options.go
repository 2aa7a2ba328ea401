package pixquant

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/pixquant/internal/pipeline"
)

// Adjustments are tone slider values.
// Brightness, Contrast and Saturation are in [-100,100]; Sharpness is in [0,100].
// The zero value leaves the image untouched.
type Adjustments struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	Sharpness  float64
}

// IsZero reports whether no adjustment or sharpening is applied.
func (a Adjustments) IsZero() bool {
	return a == Adjustments{}
}

// Validate checks slider ranges.
func (a Adjustments) Validate() error {
	for _, f := range []struct {
		name      string
		v, lo, hi float64
	}{
		{"brightness", a.Brightness, -100, 100},
		{"contrast", a.Contrast, -100, 100},
		{"saturation", a.Saturation, -100, 100},
		{"sharpness", a.Sharpness, 0, 100},
	} {
		if math.IsNaN(f.v) || f.v < f.lo || f.v > f.hi {
			return fmt.Errorf("%w: %s=%v outside [%v,%v]", ErrInvalidOptions, f.name, f.v, f.lo, f.hi)
		}
	}
	return nil
}

// Method selects the perceptual distance used for nearest-color search.
type Method int

const (
	// MethodRGBEuclidean is squared Euclidean distance in sRGB.
	MethodRGBEuclidean Method = iota

	// MethodWeightedRGB weights channel deltas 0.3/0.59/0.11.
	MethodWeightedRGB

	// MethodLab is squared Euclidean distance in CIE Lab (D65).
	MethodLab
)

// String returns the method name as accepted by ParseMethod.
func (m Method) String() string {
	switch m {
	case MethodRGBEuclidean:
		return "rgb"
	case MethodWeightedRGB:
		return "weighted"
	case MethodLab:
		return "lab"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod parses "rgb", "weighted" or "lab" (case-insensitive).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb", "rgb_euclidean", "euclidean":
		return MethodRGBEuclidean, nil
	case "weighted", "weighted_rgb":
		return MethodWeightedRGB, nil
	case "lab":
		return MethodLab, nil
	}
	return 0, fmt.Errorf("%w: unknown method %q", ErrInvalidOptions, s)
}

func (m Method) metric() pipeline.Metric {
	switch m {
	case MethodWeightedRGB:
		return pipeline.MetricWeightedRGB
	case MethodLab:
		return pipeline.MetricLab
	default:
		return pipeline.MetricRGB
	}
}

// DefaultDitherAmplitude is the dither amplitude used when
// DitherConfig.Amplitude is zero.
const DefaultDitherAmplitude = pipeline.DefaultAmplitude

// DitherConfig configures 4x4 ordered dithering.
type DitherConfig struct {
	Enabled bool

	// Threshold is a squared-distance snap cutoff in [0,1500]: pixels closer
	// than this to their nearest palette color are not dithered.
	Threshold float64

	// Amplitude scales the Bayer offset added to each channel, in [0,255].
	// Zero selects DefaultDitherAmplitude. Threshold does not affect it.
	Amplitude float64
}

func (d DitherConfig) validate() error {
	if math.IsNaN(d.Threshold) || d.Threshold < 0 || d.Threshold > pipeline.MaxThreshold {
		return fmt.Errorf("%w: dither threshold=%v outside [0,%d]", ErrInvalidOptions, d.Threshold, pipeline.MaxThreshold)
	}
	if math.IsNaN(d.Amplitude) || d.Amplitude < 0 || d.Amplitude > 255 {
		return fmt.Errorf("%w: dither amplitude=%v outside [0,255]", ErrInvalidOptions, d.Amplitude)
	}
	return nil
}

func (d DitherConfig) toPipeline() pipeline.Dither {
	amp := d.Amplitude
	if amp == 0 {
		amp = DefaultDitherAmplitude
	}
	return pipeline.Dither{Enabled: d.Enabled, Threshold: d.Threshold, Amplitude: amp}
}

// BackendPreference selects where a run executes.
type BackendPreference int

const (
	// BackendAuto uses the GPU when one is available and the palette fits,
	// otherwise the CPU.
	BackendAuto BackendPreference = iota

	// BackendGPU requests the GPU. Runs still fall back to the CPU when the
	// GPU is missing or fails.
	BackendGPU

	// BackendCPU always uses the CPU.
	BackendCPU
)

// String returns the preference name as accepted by ParseBackend.
func (b BackendPreference) String() string {
	switch b {
	case BackendAuto:
		return "auto"
	case BackendGPU:
		return "gpu"
	case BackendCPU:
		return "cpu"
	default:
		return fmt.Sprintf("BackendPreference(%d)", int(b))
	}
}

// ParseBackend parses "auto", "gpu" or "cpu" (case-insensitive).
func ParseBackend(s string) (BackendPreference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return BackendAuto, nil
	case "gpu":
		return BackendGPU, nil
	case "cpu", "software":
		return BackendCPU, nil
	}
	return 0, fmt.Errorf("%w: unknown backend %q", ErrInvalidOptions, s)
}

// Options describe one processing request. Every value is explicit;
// nothing is read from global state.
type Options struct {
	// Scale is the resize factor in (0,1]. Zero means 1.
	Scale float64

	Adjustments Adjustments

	// Palette is the ordered list of active colors. It must not be empty.
	Palette Palette

	Dither  DitherConfig
	Method  Method
	Backend BackendPreference
}

// Validate checks every option except the palette contents.
func (o *Options) Validate() error {
	if math.IsNaN(o.Scale) || o.Scale < 0 || o.Scale > 1 {
		return fmt.Errorf("%w: scale=%v outside (0,1]", ErrInvalidOptions, o.Scale)
	}
	if err := o.Adjustments.Validate(); err != nil {
		return err
	}
	if err := o.Dither.validate(); err != nil {
		return err
	}
	if o.Method < MethodRGBEuclidean || o.Method > MethodLab {
		return fmt.Errorf("%w: method=%v", ErrInvalidOptions, o.Method)
	}
	if o.Backend < BackendAuto || o.Backend > BackendCPU {
		return fmt.Errorf("%w: backend=%v", ErrInvalidOptions, o.Backend)
	}
	return nil
}

// scaledSize returns floor(w*s) x floor(h*s).
func (o *Options) scaledSize(w, h int) (int, int) {
	s := o.Scale
	if s == 0 || s == 1 {
		return w, h
	}
	return int(math.Floor(float64(w) * s)), int(math.Floor(float64(h) * s))
}
