package render

import (
	"cmp"
	"fmt"
	"slices"

	"mandelbrot/fractal"
)

// Band is a horizontal strip of the image and the byte range of the output
// buffer it owns.
type Band struct {
	Index int

	// pixel origin and extent
	X, Y          int
	Width, Height int

	// bytes owned in the full buffer
	Offset, Len int
}

func (b Band) String() string {
	return fmt.Sprintf("band %d: %dx%d at (%d,%d), bytes [%d,%d)",
		b.Index, b.Width, b.Height, b.X, b.Y, b.Offset, b.Offset+b.Len)
}

// Partition splits the image into n full-width bands of Height/n rows. The
// last band also takes the rows left over by the division, so the bands
// always cover the whole image. More bands than rows or than columns are
// rejected with ErrZeroBand.
func Partition(b fractal.Bounds, n int) ([]Band, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoWorkers, n)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	rows := b.Height / n
	if rows == 0 {
		return nil, fmt.Errorf("%w: %d bands over %d rows", ErrZeroBand, n, b.Height)
	}
	if n > b.Width {
		return nil, fmt.Errorf("%w: %d bands over %d columns", ErrZeroBand, n, b.Width)
	}

	stride := b.Width * 3
	bands := make([]Band, n)
	for i := range n {
		y := i * rows
		h := rows
		if i == n-1 {
			h = b.Height - y
		}

		bands[i] = Band{
			Index:  i,
			X:      0,
			Y:      y,
			Width:  b.Width,
			Height: h,
			Offset: y * stride,
			Len:    h * stride,
		}
	}

	return bands, nil
}

// CheckPlan verifies that the bands fit in a buffer of bufLen bytes, that no
// two bands share a byte, that every band's pixel extent fits its own range
// and that together they cover the buffer.
func CheckPlan(bands []Band, bufLen int) error {
	sorted := slices.SortedFunc(slices.Values(bands), func(a, b Band) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	next := 0
	for _, band := range sorted {
		switch {
		case band.Offset < 0 || band.Len < 0 || band.Offset+band.Len > bufLen:
			return fmt.Errorf("%w: %v outside buffer of %d bytes", ErrPartitionOverrun, band, bufLen)
		case band.Width*band.Height*3 > band.Len:
			return fmt.Errorf("%w: %v needs %d bytes", ErrPartitionOverrun, band, band.Width*band.Height*3)
		case band.Offset < next:
			return fmt.Errorf("%w: %v overlaps the previous band ending at %d", ErrPartitionOverrun, band, next)
		case band.Offset > next:
			return fmt.Errorf("%w: bytes [%d,%d) not assigned", ErrPartitionGap, next, band.Offset)
		}
		next = band.Offset + band.Len
	}

	if next != bufLen {
		return fmt.Errorf("%w: bytes [%d,%d) not assigned", ErrPartitionGap, next, bufLen)
	}
	return nil
}
