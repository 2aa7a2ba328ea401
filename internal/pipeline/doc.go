// Package pipeline implements the color pipeline math shared by every backend:
// tone adjustment, 3x3 sharpening, nearest-palette quantization and 4x4
// ordered dithering, plus the CPU executor that runs them over a flat RGBA8
// buffer.
//
// # Stage order
//
//	Adjust -> Sharpen -> Quantize (+ Dither)
//
// Adjust and Sharpen outputs are materialized into 8-bit buffers
// (clamped to [0,255], rounded with floor(x+0.5)) exactly as a GPU pass
// writing into an RGBA8 target does, so the CPU executor and the shader
// pipeline agree pixel for pixel up to floating-point precision.
//
// # Invariants
//
//   - Alpha is never read by the color math and is copied through unchanged.
//   - Every output RGB equals one palette entry.
//   - Ties in nearest-color search go to the first palette entry.
//   - Sharpening samples outside the image with clamp-to-edge, so border
//     pixels are sharpened like interior ones.
//   - Stages that are no-ops (all adjustments zero, sharpness zero) are skipped
//     entirely rather than evaluated.
package pipeline
