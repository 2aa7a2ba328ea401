package pixquant

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultMaxDimension is the largest accepted output width or height.
const DefaultMaxDimension = 8192

// Result is the output of one processing run.
type Result struct {
	// Image is the quantized image at Width x Height.
	Image *RasterImage

	Width, Height int

	// Backend names the executor that produced Image.
	Backend string
}

// ProcessorOption configures a Processor during creation.
//
// Example:
//
//	// CPU only, at most 4 worker goroutines
//	p := pixquant.NewProcessor(pixquant.WithoutGPU(), pixquant.WithWorkers(4))
type ProcessorOption func(*processorOptions)

// processorOptions holds optional configuration for Processor creation.
type processorOptions struct {
	gpu          GPUBackend
	gpuSet       bool
	maxDimension int
	workers      int
}

// defaultProcessorOptions returns the default processor options.
func defaultProcessorOptions() processorOptions {
	return processorOptions{
		maxDimension: DefaultMaxDimension,
	}
}

// WithGPUBackend sets the GPU backend instead of the registered one.
// Use this for dependency injection of GPU or test backends.
func WithGPUBackend(b GPUBackend) ProcessorOption {
	return func(o *processorOptions) {
		o.gpu = b
		o.gpuSet = true
	}
}

// WithoutGPU disables GPU execution even if a backend is registered.
func WithoutGPU() ProcessorOption {
	return WithGPUBackend(nil)
}

// WithMaxDimension sets the largest accepted output width or height.
// Values <= 0 keep DefaultMaxDimension.
func WithMaxDimension(n int) ProcessorOption {
	return func(o *processorOptions) {
		if n > 0 {
			o.maxDimension = n
		}
	}
}

// WithWorkers bounds the goroutines used by the CPU backend.
// Values <= 0 mean GOMAXPROCS.
func WithWorkers(n int) ProcessorOption {
	return func(o *processorOptions) {
		o.workers = n
	}
}

// Processor is the orchestrator: it resizes the source, picks a backend,
// and guarantees a CPU rerun when the GPU fails.
//
// A Processor holds no per-run state and is safe for concurrent use.
type Processor struct {
	opts     processorOptions
	software *SoftwareBackend
}

// NewProcessor creates a Processor.
func NewProcessor(opts ...ProcessorOption) *Processor {
	o := defaultProcessorOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Processor{
		opts:     o,
		software: NewSoftwareBackend(o.workers),
	}
}

var defaultProcessor = NewProcessor()

// Process runs a request with the default Processor, which uses the
// registered GPU backend if any.
func Process(ctx context.Context, src *RasterImage, opts Options) (*Result, error) {
	return defaultProcessor.Process(ctx, src, opts)
}

// Process converts src according to opts. src is never modified.
//
// Stage order is fixed: nearest resize, adjust, sharpen, quantize (+dither).
// GPU failures are recovered by rerunning on the CPU; only invalid input,
// resource limits and context cancellation are returned as errors.
func (p *Processor) Process(ctx context.Context, src *RasterImage, opts Options) (*Result, error) {
	job, err := p.prepare(src, &opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if gpu := p.selectGPU(opts.Backend, len(job.Palette)); gpu != nil {
		img, err := runGPU(ctx, gpu, job)
		if err == nil {
			return newResult(img, gpu.Name()), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		Logger().Warn("pixquant: GPU backend failed, falling back to CPU",
			"backend", gpu.Name(), "err", err)
	}

	img, err := p.software.Process(ctx, job)
	if err != nil {
		return nil, err
	}
	return newResult(img, p.software.Name()), nil
}

// prepare validates the request and produces the resized Job.
func (p *Processor) prepare(src *RasterImage, opts *Options) (*Job, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Palette) == 0 {
		return nil, ErrInvalidPalette
	}

	w, h := opts.scaledSize(src.Width, src.Height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d scaled by %v gives %dx%d",
			ErrInvalidDimensions, src.Width, src.Height, opts.Scale, w, h)
	}
	if maxDim := p.opts.maxDimension; w > maxDim || h > maxDim {
		return nil, fmt.Errorf("%w: %dx%d exceeds maximum dimension %d",
			ErrResourceExhausted, w, h, maxDim)
	}

	return &Job{
		Image:       resizeNearest(src, w, h),
		Adjustments: opts.Adjustments,
		Palette:     opts.Palette.Colors(),
		Method:      opts.Method,
		Dither:      opts.Dither,
	}, nil
}

// gpu returns the configured GPU backend, falling back to the registry.
func (p *Processor) gpu() GPUBackend {
	if p.opts.gpuSet {
		return p.opts.gpu
	}
	return GPU()
}

// selectGPU returns the GPU backend to try first, or nil to go straight to
// the CPU. Palettes larger than the GPU capacity always run on the CPU;
// they are never truncated.
func (p *Processor) selectGPU(pref BackendPreference, paletteSize int) GPUBackend {
	if pref == BackendCPU {
		return nil
	}
	gpu := p.gpu()
	if gpu == nil {
		if pref == BackendGPU {
			Logger().Warn("pixquant: GPU requested but no GPU backend is available")
		}
		return nil
	}
	if limit := gpu.MaxPaletteSize(); paletteSize > limit {
		Logger().Info("pixquant: palette exceeds GPU capacity, using CPU",
			"colors", paletteSize, "limit", limit)
		return nil
	}
	return gpu
}

// runGPU calls the backend, converting a panic into an error so that a
// misbehaving driver cannot take down the caller.
func runGPU(ctx context.Context, gpu GPUBackend, job *Job) (img *RasterImage, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("%w: panic: %v", ErrBackendUnavailable, r)
		}
	}()
	img, err = gpu.Process(ctx, job)
	if err != nil {
		return nil, err
	}
	if img == nil || img.Width != job.Image.Width || img.Height != job.Image.Height ||
		len(img.Pix) != len(job.Image.Pix) {
		return nil, fmt.Errorf("%w: GPU returned a malformed image", ErrBackendUnavailable)
	}
	Logger().Debug("pixquant: GPU run complete", slog.String("backend", gpu.Name()),
		slog.Int("width", img.Width), slog.Int("height", img.Height))
	return img, nil
}

func newResult(img *RasterImage, backend string) *Result {
	return &Result{Image: img, Width: img.Width, Height: img.Height, Backend: backend}
}
