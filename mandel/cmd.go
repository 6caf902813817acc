// Package mandel implements the render command: it turns command line flags
// into a render configuration, runs the parallel renderer and saves the
// result.
package mandel

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"mandelbrot/encode"
	"mandelbrot/fractal"
	"mandelbrot/palette"
	"mandelbrot/render"

	"github.com/alecthomas/kong"
)

const maxSupersample = 8

type CLICmd struct {
	Output      string `short:"o" help:"Destination image. The format follows the extension unless --format is given" default:"mandelbrot.png"`
	Width       int    `help:"Image width in pixels" default:"1000" group:"image"`
	Height      int    `help:"Image height in pixels" default:"1000" group:"image"`
	Supersample int    `help:"Render at N times the size and scale down to smooth edges" default:"1" group:"image"`
	Format      string `help:"Output format" enum:"auto,png,gif,jpeg,bmp,tiff" default:"auto" group:"image"`
	Quality     int    `help:"JPEG quality" default:"90" group:"image"`
	Force       bool   `help:"Replace the destination if it exists" default:"false"`
	Meta        bool   `help:"Write a JSON sidecar describing the render next to the image" default:"false"`

	Region      string `help:"Named plane window (full, seahorse, elephant, spiral, triple-spiral, dragon)" default:"full" group:"plane"`
	TopLeft     string `help:"Top left corner as a complex number, e.g. -2+2i. Overrides the region's corner" group:"plane"`
	BottomRight string `help:"Bottom right corner as a complex number, e.g. 1-2i. Overrides the region's corner" group:"plane"`
	MaxIter     uint16 `help:"Iteration cap per point" default:"255" group:"plane"`

	Palette string `help:"Colour policy: classic, gray, gradient, blend:FROM:TO[:STEPS] or a RIFF PAL file" default:"classic" group:"colour"`
	Dither  bool   `help:"Dither GIF output" default:"false" group:"colour"`

	Workers int `help:"Number of bands rendered in parallel, 0 for one per CPU" default:"0"`

	Window  fractal.Window  `kong:"-"`
	Colorer palette.Colorer `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	var err error
	if c.Output, err = filepath.Abs(c.Output); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if c.Format == "auto" {
		if _, err := encode.FormatFromPath(c.Output); err != nil {
			return err
		}
	}

	switch {
	case c.Width <= 0:
		return fmt.Errorf("invalid width: %d", c.Width)
	case c.Height <= 0:
		return fmt.Errorf("invalid height: %d", c.Height)
	case c.Supersample < 1 || c.Supersample > maxSupersample:
		return fmt.Errorf("supersample must be between 1 and %d: %d", maxSupersample, c.Supersample)
	case c.MaxIter == 0:
		return fmt.Errorf("iteration cap must be positive")
	case c.Quality < 1 || c.Quality > 100:
		return fmt.Errorf("invalid JPEG quality: %d", c.Quality)
	case c.Workers < 0:
		return fmt.Errorf("invalid number of workers: %d", c.Workers)
	}

	rows, cols := c.Height*c.Supersample, c.Width*c.Supersample
	if c.Workers == 0 {
		c.Workers = min(runtime.NumCPU(), rows, cols)
	} else if c.Workers > min(rows, cols) {
		return fmt.Errorf("%d workers for %dx%d pixels: %w", c.Workers, cols, rows, render.ErrZeroBand)
	}

	if c.Window, err = c.window(); err != nil {
		return err
	}

	if c.Colorer, err = palette.Load(c.Palette); err != nil {
		return err
	}

	return nil
}

func (c *CLICmd) window() (fractal.Window, error) {
	w, err := fractal.Region(c.Region)
	if err != nil {
		return w, err
	}

	if c.TopLeft != "" {
		if w.TopLeft, err = parseComplex(c.TopLeft); err != nil {
			return w, fmt.Errorf("invalid top left corner: %w", err)
		}
	}
	if c.BottomRight != "" {
		if w.BottomRight, err = parseComplex(c.BottomRight); err != nil {
			return w, fmt.Errorf("invalid bottom right corner: %w", err)
		}
	}

	return w, w.Validate()
}

// parseComplex accepts Go style literals such as -2+2i, (1-2i) or 0.5.
func parseComplex(s string) (complex128, error) {
	return strconv.ParseComplex(strings.TrimSpace(s), 128)
}

func (c *CLICmd) Run(ctx context.Context) error {
	logger := slog.Default().With("output", c.Output)

	bounds := fractal.Bounds{
		Width:  c.Width * c.Supersample,
		Height: c.Height * c.Supersample,
	}
	buf, err := render.NewBuffer(bounds)
	if err != nil {
		return err
	}

	cfg := render.Config{
		Bounds:        bounds,
		Window:        c.Window,
		MaxIterations: c.MaxIter,
		Colorer:       c.Colorer,
	}

	logger.Info("rendering", "width", bounds.Width, "height", bounds.Height, "window", c.Window,
		"workers", c.Workers, "palette", c.Palette)
	start := time.Now()
	if err := render.Parallel(ctx, c.Workers, cfg, buf); err != nil {
		return fmt.Errorf("could not render: %w", err)
	}
	elapsed := time.Since(start)
	logger.Info("rendered", "elapsed", elapsed)

	rgb, err := encode.FromBuffer(buf, bounds.Width, bounds.Height)
	if err != nil {
		return err
	}
	var img image.Image = rgb
	if c.Supersample > 1 {
		if img, err = encode.Downscale(logger, rgb, c.Supersample); err != nil {
			return fmt.Errorf("could not downscale: %w", err)
		}
	}

	if err := encode.Save(img, c.Output, c.saveOptions()); err != nil {
		return fmt.Errorf("could not save image: %w", err)
	}
	logger.Info("saved", "total", time.Since(start))

	if c.Meta {
		metaPath := encode.MetaPath(c.Output)
		if err := encode.WriteMeta(metaPath, c.meta(elapsed)); err != nil {
			return err
		}
		logger.Info("metadata written", "file", metaPath)
	}

	return nil
}

func (c *CLICmd) saveOptions() encode.Options {
	opts := encode.Options{
		Quality: c.Quality,
		Dither:  c.Dither,
		Force:   c.Force,
	}
	if c.Format != "auto" {
		opts.Format = c.Format
	}
	// without supersampling every pixel already is a palette colour
	if l, ok := c.Colorer.(palette.Lookup); ok && c.Supersample == 1 {
		opts.Palette = l.Palette()
	}
	return opts
}

func (c *CLICmd) meta(elapsed time.Duration) encode.Meta {
	return encode.Meta{
		Image:         filepath.Base(c.Output),
		Width:         c.Width,
		Height:        c.Height,
		TopLeft:       [2]float64{real(c.Window.TopLeft), imag(c.Window.TopLeft)},
		BottomRight:   [2]float64{real(c.Window.BottomRight), imag(c.Window.BottomRight)},
		MaxIterations: c.MaxIter,
		Workers:       c.Workers,
		Palette:       c.Palette,
		Supersample:   c.Supersample,
		ElapsedMS:     float64(elapsed.Microseconds()) / 1000,
	}
}
