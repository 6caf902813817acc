// Package fractal maps pixel grids onto the complex plane and evaluates the
// Mandelbrot escape time of individual points.
package fractal

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyBounds      = errors.New("image bounds must be positive")
	ErrDegenerateWindow = errors.New("degenerate plane window")
)

// Bounds is the pixel size of the output image.
type Bounds struct {
	Width  int
	Height int
}

func (b Bounds) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyBounds, b.Width, b.Height)
	}
	return nil
}

// Pixels returns Width*Height.
func (b Bounds) Pixels() int {
	return b.Width * b.Height
}

// BufferLen is the size in bytes of an RGB buffer covering the bounds.
func (b Bounds) BufferLen() int {
	return b.Pixels() * 3
}

// Window is the region of the complex plane rendered onto Bounds. TopLeft
// lands on pixel (0, 0).
type Window struct {
	TopLeft     complex128
	BottomRight complex128
}

// Validate rejects non-finite corners and windows that are empty or flipped
// on either axis.
func (w Window) Validate() error {
	for _, v := range []float64{real(w.TopLeft), imag(w.TopLeft), real(w.BottomRight), imag(w.BottomRight)} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite corner in %v", ErrDegenerateWindow, w)
		}
	}
	if real(w.BottomRight) <= real(w.TopLeft) {
		return fmt.Errorf("%w: right edge %g is not right of left edge %g",
			ErrDegenerateWindow, real(w.BottomRight), real(w.TopLeft))
	}
	if imag(w.TopLeft) <= imag(w.BottomRight) {
		return fmt.Errorf("%w: top edge %g is not above bottom edge %g",
			ErrDegenerateWindow, imag(w.TopLeft), imag(w.BottomRight))
	}
	return nil
}

func (w Window) String() string {
	return fmt.Sprintf("[%v .. %v]", w.TopLeft, w.BottomRight)
}

// Map converts pixel (x, y) of an image of size b into a point of the plane.
// Row 0 is the top edge of the window; larger rows move toward
// imag(BottomRight).
func (w Window) Map(x, y int, b Bounds) complex128 {
	xStep := (real(w.BottomRight) - real(w.TopLeft)) / float64(b.Width)
	yStep := (imag(w.TopLeft) - imag(w.BottomRight)) / float64(b.Height)

	return complex(
		real(w.TopLeft)+float64(x)*xStep,
		imag(w.TopLeft)-float64(y)*yStep,
	)
}
