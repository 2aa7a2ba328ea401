//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/pixquant"
	gpuimpl "github.com/gogpu/pixquant/internal/gpu"
)

func TestRegistration(t *testing.T) {
	b := pixquant.GPU()
	if b == nil {
		// No adapter on this machine: SetDeviceProvider must say so.
		if err := SetDeviceProvider(nil); !errors.Is(err, ErrNotRegistered) {
			t.Errorf("SetDeviceProvider() = %v, want ErrNotRegistered", err)
		}
		t.Skip("GPU backend not registered on this machine")
	}
	if b.Name() != gpuimpl.BackendName {
		t.Errorf("registered backend = %q, want %q", b.Name(), gpuimpl.BackendName)
	}
	if err := SetDeviceProvider(nil); err != nil {
		t.Errorf("SetDeviceProvider(nil) = %v", err)
	}
}
