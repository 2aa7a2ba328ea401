package pixquant

import (
	"context"
	"errors"
	"sync"

	"github.com/gogpu/pixquant/internal/pipeline"
)

// Job is one validated, already-resized unit of work handed to a backend.
// Backends must not modify Image.
type Job struct {
	Image       *RasterImage
	Adjustments Adjustments
	Palette     []RGB
	Method      Method
	Dither      DitherConfig
}

// PipelineConfig returns the backend-agnostic pipeline description of j.
func (j *Job) PipelineConfig() pipeline.Config {
	return pipeline.Config{
		Brightness: j.Adjustments.Brightness,
		Contrast:   j.Adjustments.Contrast,
		Saturation: j.Adjustments.Saturation,
		Sharpness:  j.Adjustments.Sharpness,
		Palette:    triples(j.Palette),
		Metric:     j.Method.metric(),
		Dither:     j.Dither.toPipeline(),
	}
}

// Backend executes the color pipeline for a Job.
//
// Implementations must be safe for concurrent use and must not keep state
// between calls: every resource a call acquires is released before it returns.
type Backend interface {
	// Name returns the backend name (e.g., "software", "wgpu").
	Name() string

	// Process runs Adjust, Sharpen and Quantize(+Dither) over job.Image and
	// returns a new image of the same size.
	Process(ctx context.Context, job *Job) (*RasterImage, error)
}

// GPUBackend is an optional GPU executor.
//
// When registered via RegisterGPUBackend (or passed with WithGPUBackend),
// the Processor tries it first. Any error it returns, other than context
// cancellation, makes the Processor rerun the job on the CPU.
//
// Implementations are provided by GPU packages. Users opt in via blank import:
//
//	import _ "github.com/gogpu/pixquant/gpu"
type GPUBackend interface {
	Backend

	// Init verifies the backend can be used. Called once during registration.
	// It must not hold GPU objects; devices are acquired per Process call.
	Init() error

	// Close releases anything Init set up.
	Close()

	// MaxPaletteSize returns the largest palette the backend accepts.
	MaxPaletteSize() int
}

var (
	gpuMu      sync.RWMutex
	gpuBackend GPUBackend
)

// RegisterGPUBackend registers the GPU backend used by processors that were
// not given one explicitly.
//
// Only one backend can be registered. Subsequent calls replace the previous
// one. If Init fails, the backend is not registered and the error is returned.
func RegisterGPUBackend(b GPUBackend) error {
	if b == nil {
		return errors.New("pixquant: GPU backend must not be nil")
	}
	if err := b.Init(); err != nil {
		return err
	}
	propagateLogger(b, Logger())

	gpuMu.Lock()
	old := gpuBackend
	gpuBackend = b
	gpuMu.Unlock()
	if old != nil && old != b {
		old.Close()
	}
	return nil
}

// GPU returns the registered GPU backend, or nil if none.
func GPU() GPUBackend {
	gpuMu.RLock()
	b := gpuBackend
	gpuMu.RUnlock()
	return b
}
