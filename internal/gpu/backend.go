//go:build !nogpu

package gpu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/pixquant"
	"github.com/gogpu/wgpu/hal"
)

// BackendName is the name reported by Backend.
const BackendName = "wgpu"

// Backend runs the color pipeline as wgpu/hal compute passes.
// It implements pixquant.GPUBackend.
//
// A Backend keeps no GPU objects between calls: every Process opens its own
// instance and device, unless a shared device was installed with
// SetDeviceProvider. A shared device is borrowed and never destroyed.
type Backend struct {
	mu     sync.Mutex
	shared *sharedDevice
}

// sharedDevice is a device and queue owned by an external provider.
type sharedDevice struct {
	device hal.Device
	queue  hal.Queue

	// runMu serializes runs on the borrowed queue.
	runMu sync.Mutex
}

var _ pixquant.GPUBackend = (*Backend)(nil)

// Name returns "wgpu".
func (b *Backend) Name() string { return BackendName }

// MaxPaletteSize returns MaxPalette.
func (b *Backend) MaxPaletteSize() int { return MaxPalette }

// Init checks that a GPU adapter can be enumerated. The probe instance is
// destroyed before Init returns.
func (b *Backend) Init() error {
	b.mu.Lock()
	shared := b.shared
	b.mu.Unlock()
	if shared != nil {
		return nil
	}

	rel := &releaser{}
	defer rel.release()
	instance, err := openInstance(rel)
	if err != nil {
		return fmt.Errorf("%w: %w", pixquant.ErrBackendUnavailable, err)
	}
	if len(instance.EnumerateAdapters(nil)) == 0 {
		return fmt.Errorf("%w: no GPU adapters found", pixquant.ErrBackendUnavailable)
	}
	return nil
}

// Close drops the shared device, if any. It does not destroy it.
func (b *Backend) Close() {
	b.mu.Lock()
	b.shared = nil
	b.mu.Unlock()
}

// SetLogger sets the logger for GPU operations.
// Called by pixquant.SetLogger and pixquant.RegisterGPUBackend.
func (b *Backend) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// SetDeviceProvider makes Process run on a device owned by provider
// (e.g., a gogpu window) instead of opening its own. The provider must
// expose HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue. A nil provider restores per-run devices.
func (b *Backend) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		b.Close()
		return nil
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return errors.New("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("gpu: provider HalQueue is not hal.Queue")
	}

	b.mu.Lock()
	b.shared = &sharedDevice{device: device, queue: queue}
	b.mu.Unlock()
	slogger().Info("gpu: using shared GPU device")
	return nil
}

// Process runs the job on the GPU. Errors other than context cancellation
// wrap pixquant.ErrBackendUnavailable.
func (b *Backend) Process(ctx context.Context, job *pixquant.Job) (*pixquant.RasterImage, error) {
	cfg := job.PipelineConfig()
	if n := len(cfg.Palette); n == 0 || n > MaxPalette {
		return nil, fmt.Errorf("%w: palette of %d colors, GPU holds 1..%d",
			pixquant.ErrBackendUnavailable, n, MaxPalette)
	}
	img := job.Image
	if err := img.Validate(); err != nil {
		return nil, err
	}
	size := uint64(len(img.Pix))
	if limit := gputypes.DefaultLimits().MaxBufferSize; size > limit {
		return nil, fmt.Errorf("%w: image needs %d-byte buffers, limit is %d",
			pixquant.ErrBackendUnavailable, size, limit)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := &releaser{}
	defer rel.release()

	device, queue, err := b.device(rel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pixquant.ErrBackendUnavailable, err)
	}

	r := &run{device: device, queue: queue, rel: rel}
	pix, err := r.execute(ctx, &cfg, img.Pix, img.Width, img.Height)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", pixquant.ErrBackendUnavailable, err)
	}
	return &pixquant.RasterImage{Width: img.Width, Height: img.Height, Pix: pix}, nil
}

// device returns the device for one run. A borrowed device is locked for
// the run; the unlock is registered first so it happens after every other
// release.
func (b *Backend) device(rel *releaser) (hal.Device, hal.Queue, error) {
	b.mu.Lock()
	shared := b.shared
	b.mu.Unlock()

	if shared == nil {
		return openDevice(rel)
	}
	shared.runMu.Lock()
	rel.add(shared.runMu.Unlock)
	return shared.device, shared.queue, nil
}
