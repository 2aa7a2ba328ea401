//go:build !nogpu

// Package gpu implements the pixquant color pipeline as wgpu/hal compute
// passes.
//
// Each run acquires its own Vulkan instance and device (or borrows a shared
// device from a gpucontext.DeviceProvider), uploads the image into a storage
// buffer, and dispatches up to three passes over 8x8 workgroups:
//
//	adjust   -> brightness, contrast, saturation (skipped when all are 0)
//	sharpen  -> 3x3 kernel with edge clamping (skipped at strength 0)
//	quantize -> nearest palette color, optional 4x4 Bayer dithering
//
// Passes ping-pong between two storage buffers. Every stage result is
// rounded to 8 bits, so the output matches the CPU backend up to float32
// rounding at color boundaries.
//
// All GPU objects created by a run are destroyed before Process returns.
// Only the compiled SPIR-V words are cached between runs.
//
// The palette lives in a fixed uniform array of MaxPalette entries; larger
// palettes are rejected and the orchestrator runs them on the CPU.
package gpu
