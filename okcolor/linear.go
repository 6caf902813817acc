package okcolor

import (
	"image/color"
	"math"
)

// LinearRGB is an opaque colour with linear-light channels in [0, 1].
type LinearRGB struct {
	R float64
	G float64
	B float64
}

var LinearRGBModel = color.ModelFunc(linearRGBConvert)

func linearRGBConvert(c color.Color) color.Color {
	switch lc := c.(type) {
	case LinearRGB:
		return c
	case Lab:
		return lc.LinearRGB()
	}

	r, g, b, _ := c.RGBA()
	return LinearRGB{
		R: toLinear(float64(r) / 0xffff),
		G: toLinear(float64(g) / 0xffff),
		B: toLinear(float64(b) / 0xffff),
	}
}

// RGBA clamps out of gamut channels before converting back to sRGB.
func (lc LinearRGB) RGBA() (uint32, uint32, uint32, uint32) {
	c := lc.Clamp()
	return uint32(math.Round(fromLinear(c.R) * 0xffff)),
		uint32(math.Round(fromLinear(c.G) * 0xffff)),
		uint32(math.Round(fromLinear(c.B) * 0xffff)),
		0xffff
}

func (lc LinearRGB) InGamut() bool {
	return (lc.R >= 0) && (lc.R <= 1) && (lc.G >= 0) && (lc.G <= 1) && (lc.B >= 0) && (lc.B <= 1)
}

func (lc LinearRGB) Clamp() LinearRGB {
	if lc.InGamut() {
		return lc
	}
	return LinearRGB{
		R: clamp(lc.R, 0, 1),
		G: clamp(lc.G, 0, 1),
		B: clamp(lc.B, 0, 1),
	}
}

func toLinear(x float64) float64 {
	if x >= 0.04045 {
		return math.Pow((x+0.055)/1.055, 2.4)
	}
	return x / 12.92
}

const pow float64 = 1.0 / 2.4

func fromLinear(x float64) float64 {
	if x >= 0.0031308 {
		return math.Pow(x, pow)*1.055 - 0.055
	}
	return x * 12.92
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	return min(max(x, lo), hi)
}
