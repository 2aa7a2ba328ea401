//go:build !nogpu

package gpu

import "encoding/binary"

// packPixels converts RGBA8 bytes to the u32 words the shaders read:
// r | g<<8 | b<<16 | a<<24.
func packPixels(pix []uint8) []byte {
	out := make([]byte, len(pix))
	for i := 0; i+3 < len(pix); i += 4 {
		packed := uint32(pix[i]) | uint32(pix[i+1])<<8 | uint32(pix[i+2])<<16 | uint32(pix[i+3])<<24
		binary.LittleEndian.PutUint32(out[i:], packed)
	}
	return out
}

// unpackPixels is the inverse of packPixels, writing into dst.
func unpackPixels(packed []byte, dst []uint8) {
	for i := 0; i+3 < len(dst); i += 4 {
		val := binary.LittleEndian.Uint32(packed[i:])
		dst[i+0] = uint8(val & 0xFF)         //nolint:gosec // masked to 8 bits
		dst[i+1] = uint8((val >> 8) & 0xFF)  //nolint:gosec // masked to 8 bits
		dst[i+2] = uint8((val >> 16) & 0xFF) //nolint:gosec // masked to 8 bits
		dst[i+3] = uint8((val >> 24) & 0xFF) //nolint:gosec // masked to 8 bits
	}
}
