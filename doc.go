// Package pixquant converts raster images into reduced-palette
// approximations for pixel placement on a shared canvas.
//
// # Overview
//
// A run takes a decoded RGBA image, a scale factor, tone adjustments, an
// ordered palette, a distance metric and an optional ordered-dither
// configuration, and produces an image whose every pixel uses a palette
// color:
//
//	resize (nearest) -> adjust -> sharpen -> quantize (+ dither)
//
// # Quick Start
//
//	res, err := pixquant.Process(ctx, img, pixquant.Options{
//	    Scale:   0.5,
//	    Palette: pixquant.Palette{{ID: 1, Color: pixquant.RGB{}}, {ID: 2, Color: pixquant.RGB{R: 255, G: 255, B: 255}}},
//	    Method:  pixquant.MethodLab,
//	    Dither:  pixquant.DitherConfig{Enabled: true, Threshold: 200},
//	})
//
// # Backends
//
// Two interchangeable executors implement the same math: SoftwareBackend
// (CPU, always available) and an optional GPU backend that runs three compute
// passes through gogpu/wgpu. Enable the GPU via blank import:
//
//	import _ "github.com/gogpu/pixquant/gpu"
//
// Any GPU failure (no adapter, shader compilation, pipeline creation, buffer
// limits, even a panic) is logged and the identical request is rerun on the
// CPU. Palettes larger than the GPU's fixed uniform capacity (64 colors) are
// always processed on the CPU.
//
// # Superseding Work
//
// Interactive callers re-trigger processing on every slider change. A
// Session cancels the in-flight run when a newer one starts and only
// returns the newest result; older runs fail with ErrSuperseded.
//
// # Errors
//
//   - ErrInvalidPalette: no active palette colors
//   - ErrInvalidDimensions: zero-sized input or output, malformed buffer
//   - ErrInvalidOptions: out-of-range configuration
//   - ErrResourceExhausted: output larger than the configured maximum dimension
package pixquant
