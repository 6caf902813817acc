// Package render fills RGB pixel buffers with the Mandelbrot set, splitting
// the work into disjoint bands rendered concurrently.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mandelbrot/fractal"
	"mandelbrot/palette"
	"mandelbrot/parallel"
)

var (
	ErrNoWorkers        = errors.New("number of workers must be positive")
	ErrZeroBand         = errors.New("partition yields an empty band")
	ErrBufferSize       = errors.New("buffer size does not match bounds")
	ErrPartitionOverrun = errors.New("band overruns its buffer")
	ErrPartitionGap     = errors.New("bands leave part of the buffer unassigned")
)

// Config is shared read-only by every band of a render.
type Config struct {
	Bounds fractal.Bounds
	Window fractal.Window

	// MaxIterations caps the escape-time loop; zero means
	// fractal.DefaultMaxIterations.
	MaxIterations uint16

	// Colorer defaults to palette.Classic.
	Colorer palette.Colorer
}

func (c Config) withDefaults() Config {
	if c.MaxIterations == 0 {
		c.MaxIterations = fractal.DefaultMaxIterations
	}
	if c.Colorer == nil {
		c.Colorer = palette.Classic
	}
	return c
}

func (c Config) validate(buf []byte) error {
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	if err := c.Window.Validate(); err != nil {
		return err
	}
	if len(buf) != c.Bounds.BufferLen() {
		return fmt.Errorf("%w: %d bytes for %dx%d, expected %d",
			ErrBufferSize, len(buf), c.Bounds.Width, c.Bounds.Height, c.Bounds.BufferLen())
	}
	return nil
}

// NewBuffer allocates a zeroed buffer for an image of size b.
func NewBuffer(b fractal.Bounds) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return make([]byte, b.BufferLen()), nil
}

// Parallel renders the image described by cfg into buf using numWorkers
// bands, one goroutine each, and returns once all of them have finished.
// Configuration problems are reported before any band starts. If a band fails
// the others are cancelled and the error is returned; buf must then be
// considered garbage.
func Parallel(ctx context.Context, numWorkers int, cfg Config, buf []byte) error {
	if numWorkers <= 0 {
		return fmt.Errorf("%w: %d", ErrNoWorkers, numWorkers)
	}
	if err := cfg.validate(buf); err != nil {
		return err
	}

	bands, err := Partition(cfg.Bounds, numWorkers)
	if err != nil {
		return err
	}
	if err := CheckPlan(bands, len(buf)); err != nil {
		return err
	}

	cfg = cfg.withDefaults()
	logger := slog.Default().With("width", cfg.Bounds.Width, "height", cfg.Bounds.Height, "bands", len(bands))
	logger.Debug("rendering", "window", cfg.Window, "iterations", cfg.MaxIterations)

	start := time.Now()
	g := parallel.Start(ctx, numWorkers)
	for _, band := range bands {
		target := buf[band.Offset : band.Offset+band.Len : band.Offset+band.Len]
		g.Do(func(ctx context.Context) error {
			if err := Tile(ctx, band, cfg, target); err != nil {
				return fmt.Errorf("band %d: %w", band.Index, err)
			}
			logger.Debug("band done", "band", band.Index, "rows", band.Height)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	logger.Debug("render done", "elapsed", time.Since(start))
	return nil
}

// Serial renders the whole image as a single band on the calling goroutine.
func Serial(ctx context.Context, cfg Config, buf []byte) error {
	if err := cfg.validate(buf); err != nil {
		return err
	}

	bands, err := Partition(cfg.Bounds, 1)
	if err != nil {
		return err
	}
	return Tile(ctx, bands[0], cfg, buf)
}
