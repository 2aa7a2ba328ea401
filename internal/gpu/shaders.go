//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/pixquant/internal/color"
	"github.com/gogpu/pixquant/internal/pipeline"
)

//go:embed shaders/common.wgsl
var commonShaderSource string

//go:embed shaders/adjust.wgsl
var adjustShaderSource string

//go:embed shaders/sharpen.wgsl
var sharpenShaderSource string

//go:embed shaders/quantize.wgsl
var quantizeShaderSource string

// pass identifies one compute pass of the pipeline.
type pass int

const (
	passAdjust pass = iota
	passSharpen
	passQuantize

	passCount
)

func (p pass) String() string {
	switch p {
	case passAdjust:
		return "adjust"
	case passSharpen:
		return "sharpen"
	case passQuantize:
		return "quantize"
	default:
		return fmt.Sprintf("pass(%d)", int(p))
	}
}

func (p pass) body() string {
	switch p {
	case passAdjust:
		return adjustShaderSource
	case passSharpen:
		return sharpenShaderSource
	default:
		return quantizeShaderSource
	}
}

// shaderSource returns the complete WGSL module for p: generated constants,
// the shared declarations, then the pass entry point.
func shaderSource(p pass) string {
	var b strings.Builder
	b.WriteString(color.WGSLConstants())
	fmt.Fprintf(&b, "const METRIC_RGB: u32 = %du;\n", uint32(pipeline.MetricRGB))
	fmt.Fprintf(&b, "const METRIC_WEIGHTED_RGB: u32 = %du;\n", uint32(pipeline.MetricWeightedRGB))
	fmt.Fprintf(&b, "const METRIC_LAB: u32 = %du;\n\n", uint32(pipeline.MetricLab))
	b.WriteString(commonShaderSource)
	b.WriteString("\n")
	b.WriteString(p.body())
	return b.String()
}

// compileSPIRV compiles the WGSL for p to SPIR-V words.
func compileSPIRV(p pass) ([]uint32, error) {
	spirvBytes, err := naga.Compile(shaderSource(p))
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", p, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile %s shader: SPIR-V length %d is not word aligned", p, len(spirvBytes))
	}
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// spirv holds the compiled words per pass, compiled on first use.
var spirv [passCount]func() ([]uint32, error)

func init() {
	for p := range passCount {
		spirv[p] = sync.OnceValues(func() ([]uint32, error) { return compileSPIRV(p) })
	}
}
