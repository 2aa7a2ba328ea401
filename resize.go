package pixquant

import (
	"image"

	"golang.org/x/image/draw"
)

// resizeNearest scales src to w x h with nearest-neighbor sampling, which
// keeps hard pixel edges. The result never shares memory with src.
func resizeNearest(src *RasterImage, w, h int) *RasterImage {
	if w == src.Width && h == src.Height {
		return src.Clone()
	}
	// Nearest sampling only copies whole pixels, so both buffers are viewed
	// as image.RGBA to hit the byte-exact RGBA->RGBA path. An NRGBA view
	// would round-trip semi-transparent pixels through premultiplied color.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	s := rawRGBA(src)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), s, s.Bounds(), draw.Src, nil)
	return &RasterImage{Width: w, Height: h, Pix: dst.Pix}
}

// rawRGBA labels m's bytes as an image.RGBA without conversion.
func rawRGBA(m *RasterImage) *image.RGBA {
	return &image.RGBA{
		Pix:    m.Pix,
		Stride: m.Width * 4,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}
