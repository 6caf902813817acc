// Package palette turns escape-time iteration counts into colours.
package palette

import (
	"image/color"
	"math"

	"mandelbrot/fractal"
)

// Colorer maps the iteration count of point c to an opaque colour.
// Implementations must be pure: the same inputs always give the same colour.
type Colorer interface {
	Color(n uint16, c complex128) color.RGBA
}

var (
	_ Colorer = Lookup(nil)
	_ Colorer = Gradient{}
)

// Black is the colour of points that escape at once and, when colouring with a
// Lookup, of points that never escape.
var Black = color.RGBA{A: 0xff}

// Lookup colours a count by indexing a table with n modulo its length.
// A count of zero, meaning the point escaped at once, is always black.
type Lookup []color.RGBA

// Classic is the 16 entry table used by default.
var Classic = Lookup{
	{66, 30, 15, 0xff},
	{25, 7, 26, 0xff},
	{9, 1, 47, 0xff},
	{4, 4, 73, 0xff},
	{0, 7, 100, 0xff},
	{12, 44, 138, 0xff},
	{24, 82, 177, 0xff},
	{57, 125, 209, 0xff},
	{134, 181, 229, 0xff},
	{211, 236, 248, 0xff},
	{241, 233, 191, 0xff},
	{248, 201, 95, 0xff},
	{255, 170, 0, 0xff},
	{204, 128, 0, 0xff},
	{153, 87, 0, 0xff},
	{0, 0, 0, 0xff},
}

func (l Lookup) Color(n uint16, _ complex128) color.RGBA {
	if n == 0 || len(l) == 0 {
		return Black
	}
	return l[int(n)%len(l)]
}

// FromPalette converts a color.Palette into a lookup table with every entry
// made opaque.
func FromPalette(p color.Palette) Lookup {
	l := make(Lookup, len(p))
	for i, c := range p {
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		rgba.A = 0xff
		l[i] = rgba
	}
	return l
}

// Palette returns the table as a color.Palette with black prepended when the
// table does not already contain it, so that every colour a render can
// produce is present. It is meant for palettising images; the indices do not
// line up with the table's.
func (l Lookup) Palette() color.Palette {
	p := make(color.Palette, 0, len(l)+1)
	hasBlack := false
	for _, c := range l {
		hasBlack = hasBlack || c == Black
		p = append(p, c)
	}
	if !hasBlack {
		p = append(color.Palette{Black}, p...)
	}
	return p
}

// Gradient derives the colour from the count and |c|^2:
//
//	R = 255*|c|^2*n, G = 255*n, B = 20*|c|^2*n
//
// Channels saturate at 0 and 255 instead of wrapping.
type Gradient struct{}

func (Gradient) Color(n uint16, c complex128) color.RGBA {
	norm := fractal.NormSq(c)
	count := float64(n)
	return color.RGBA{
		R: saturate(255 * norm * count),
		G: saturate(255 * count),
		B: saturate(20 * norm * count),
		A: 0xff,
	}
}

func saturate(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
