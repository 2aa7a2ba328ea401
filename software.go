package pixquant

import (
	"context"

	"github.com/gogpu/pixquant/internal/pipeline"
)

// SoftwareBackend runs the pipeline on the CPU. It is always available and
// has no palette size limit.
type SoftwareBackend struct {
	workers int
}

var _ Backend = (*SoftwareBackend)(nil)

// NewSoftwareBackend creates a CPU backend that uses up to workers
// goroutines (GOMAXPROCS when workers <= 0). The output does not depend on
// the worker count.
func NewSoftwareBackend(workers int) *SoftwareBackend {
	return &SoftwareBackend{workers: workers}
}

// Name returns "software".
func (s *SoftwareBackend) Name() string { return "software" }

// Process runs the pipeline over a private copy of job.Image.
func (s *SoftwareBackend) Process(ctx context.Context, job *Job) (*RasterImage, error) {
	img := job.Image
	pix, err := pipeline.Execute(ctx, job.PipelineConfig(), img.Pix, img.Width, img.Height, s.workers)
	if err != nil {
		return nil, err
	}
	return &RasterImage{Width: img.Width, Height: img.Height, Pix: pix}, nil
}
