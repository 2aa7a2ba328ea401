//go:build !nogpu

package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/pixquant"
	gpuimpl "github.com/gogpu/pixquant/internal/gpu"
)

// ErrNotRegistered is returned by SetDeviceProvider when the GPU backend
// failed to register.
var ErrNotRegistered = errors.New("pixquant/gpu: GPU backend is not registered")

func init() {
	if err := pixquant.RegisterGPUBackend(&gpuimpl.Backend{}); err != nil {
		pixquant.Logger().Warn("GPU backend not available", "err", err)
	}
}

// SetDeviceProvider makes the registered GPU backend run on a shared GPU
// device from an external provider (e.g., gogpu) instead of opening its
// own device for every run.
//
// The provider must also expose HalDevice() any and HalQueue() any for
// direct HAL access. Pass nil to go back to per-run devices.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	b, ok := pixquant.GPU().(*gpuimpl.Backend)
	if !ok {
		return ErrNotRegistered
	}
	return b.SetDeviceProvider(provider)
}
