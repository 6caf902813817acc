package render

import (
	"context"
	"fmt"
	"log/slog"

	"mandelbrot/fractal"
	"mandelbrot/palette"
)

// Tile renders band into target, which must hold at least
// band.Width*band.Height*3 bytes. Pixel coordinates are mapped through the
// bounds and window of the whole image, not of the band. Nothing is written
// when target is too small. With a lookup table, points that never escape are
// black whatever the table size.
func Tile(ctx context.Context, band Band, cfg Config, target []byte) error {
	if need := band.Width * band.Height * 3; need > len(target) {
		slog.Warn("band extent overruns its buffer", "band", band.Index, "need", need, "have", len(target))
		return fmt.Errorf("%w: %v needs %d bytes, got %d", ErrPartitionOverrun, band, need, len(target))
	}

	cfg = cfg.withDefaults()
	_, table := cfg.Colorer.(palette.Lookup)

	n := 0
	for row := range band.Height {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stopped at row %d: %w", band.Y+row, err)
		}

		y := band.Y + row
		for col := range band.Width {
			c := cfg.Window.Map(band.X+col, y, cfg.Bounds)
			count := fractal.Iterate(c, cfg.MaxIterations)

			rgb := palette.Black
			if !table || count < cfg.MaxIterations {
				rgb = cfg.Colorer.Color(count, c)
			}

			target[n] = rgb.R
			target[n+1] = rgb.G
			target[n+2] = rgb.B
			n += 3
		}
	}

	return nil
}
