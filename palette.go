package pixquant

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"
)

// RGB is an opaque 8-bit sRGB color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHexColor parses "#rrggbb" or "#rgb"; the leading '#' is optional.
func ParseHexColor(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if n := len(s) - 1; n != 3 && n != 6 {
		return RGB{}, fmt.Errorf("%w: color %q: want 3 or 6 hex digits", ErrInvalidOptions, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: color %q: %v", ErrInvalidOptions, s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// PaletteEntry is one selectable palette color. ID is opaque to the
// pipeline; only Color participates in distance math.
type PaletteEntry struct {
	ID    int
	Color RGB
}

// Palette is an ordered list of active colors. Order matters: when two
// entries are equally close to a pixel, the earlier one is chosen.
type Palette []PaletteEntry

// Colors returns the palette colors in declared order.
func (p Palette) Colors() []RGB {
	return lo.Map(p, func(e PaletteEntry, _ int) RGB { return e.Color })
}

// PaletteFromColors builds a palette whose IDs are the color positions.
func PaletteFromColors(colors ...RGB) Palette {
	return lo.Map(colors, func(c RGB, i int) PaletteEntry {
		return PaletteEntry{ID: i, Color: c}
	})
}

// triples converts colors to the pipeline representation.
func triples(colors []RGB) [][3]uint8 {
	return lo.Map(colors, func(c RGB, _ int) [3]uint8 { return [3]uint8{c.R, c.G, c.B} })
}
