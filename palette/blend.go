package palette

import (
	"fmt"
	"image/color"

	"mandelbrot/okcolor"
)

// Blend builds a lookup table of steps colours running from `from` to `to`,
// interpolated evenly in OKLab.
func Blend(from, to color.Color, steps int) (Lookup, error) {
	if steps < 2 || steps > 256 {
		return nil, fmt.Errorf("blend needs between 2 and 256 steps, got %d", steps)
	}

	a := okcolor.LabModel.Convert(from).(okcolor.Lab)
	b := okcolor.LabModel.Convert(to).(okcolor.Lab)

	l := make(Lookup, steps)
	for i := range steps {
		lc := okcolor.Lerp(a, b, float64(i)/float64(steps-1))
		l[i] = color.RGBAModel.Convert(lc).(color.RGBA)
	}
	return l, nil
}

// Gray is a 16 step ramp from white down to black.
var Gray = func() Lookup {
	l, err := Blend(color.White, color.Black, 16)
	if err != nil {
		panic(err)
	}
	return l
}()
