package pipeline

// SharpenRows writes rows [y0,y1) of dst by applying the 3x3 sharpening
// kernel to src:
//
//	-s  -s  -s
//	-s 1+8s -s
//	-s  -s  -s
//
// where s is strength. Neighbors outside the image are clamped to the
// nearest edge pixel. Only RGB is filtered; alpha is copied from src.
// dst and src must not alias.
func SharpenRows(dst, src []uint8, w, h int, strength float64, y0, y1 int) {
	center := 1 + 8*strength
	stride := w * 4
	for y := y0; y < y1; y++ {
		up := max(y-1, 0) * stride
		row := y * stride
		down := min(y+1, h-1) * stride
		for x := 0; x < w; x++ {
			left := max(x-1, 0) * 4
			mid := x * 4
			right := min(x+1, w-1) * 4
			i := row + mid
			for c := 0; c < 3; c++ {
				sum := int(src[up+left+c]) + int(src[up+mid+c]) + int(src[up+right+c]) +
					int(src[row+left+c]) + int(src[row+right+c]) +
					int(src[down+left+c]) + int(src[down+mid+c]) + int(src[down+right+c])
				dst[i+c] = Materialize(center*float64(src[i+c]) - strength*float64(sum))
			}
			dst[i+3] = src[i+3]
		}
	}
}
