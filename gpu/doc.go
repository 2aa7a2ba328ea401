// Package gpu registers the wgpu GPU backend for pixquant.
//
// Import this package to run the color pipeline as compute shaders.
// The backend uses wgpu/hal with Vulkan and opens a device per run.
//
// If no GPU adapter is available, registration is skipped with a warning
// and processing runs on the CPU. Building with -tags nogpu leaves this
// package empty.
//
// Usage:
//
//	import _ "github.com/gogpu/pixquant/gpu" // enable GPU execution
package gpu
