package pixquant

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// RasterImage is a non-premultiplied RGBA8 image stored row by row,
// 4 bytes per pixel, with no padding between rows.
type RasterImage struct {
	Width, Height int
	Pix           []uint8
}

// NewRasterImage allocates a transparent black image.
func NewRasterImage(width, height int) (*RasterImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &RasterImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}, nil
}

// RasterImageFromImage converts any decoded image to a RasterImage.
// The result never shares memory with img.
func RasterImageFromImage(img image.Image) *RasterImage {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &RasterImage{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

// Validate reports ErrInvalidDimensions unless the buffer holds exactly
// Width*Height pixels.
func (m *RasterImage) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidDimensions)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, m.Width, m.Height)
	}
	if len(m.Pix) != m.Width*m.Height*4 {
		return fmt.Errorf("%w: buffer has %d bytes, want %d", ErrInvalidDimensions, len(m.Pix), m.Width*m.Height*4)
	}
	return nil
}

// NRGBA returns an *image.NRGBA view sharing m's pixels.
func (m *RasterImage) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    m.Pix,
		Stride: m.Width * 4,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}

// Clone returns a deep copy of m.
func (m *RasterImage) Clone() *RasterImage {
	pix := make([]uint8, len(m.Pix))
	copy(pix, m.Pix)
	return &RasterImage{Width: m.Width, Height: m.Height, Pix: pix}
}
