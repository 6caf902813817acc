// Package swatch implements the palette command for inspecting and exporting
// colour tables.
package swatch

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"mandelbrot/palette"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Show   ShowCmd   `cmd:"" help:"Log the colors of a palette"`
	Export ExportCmd `cmd:"" help:"Write a palette to a RIFF PAL file"`
}

type ShowCmd struct {
	Name string `arg:"" optional:"" help:"Palette name or PAL file" default:"classic"`
}

func (c *ShowCmd) Run() error {
	logger := slog.Default().With("palette", c.Name)

	colorer, err := palette.Load(c.Name)
	if err != nil {
		return err
	}

	l, ok := colorer.(palette.Lookup)
	if !ok {
		logger.Info("colors are computed from the iteration count and |c|^2, there is no table")
		return nil
	}

	logger.Info("lookup table", "colors", len(l))
	for i, col := range l {
		logger.Info("color", "index", i, "hex", Hex(col))
	}
	return nil
}

// Hex formats c as #RRGGBB.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

type ExportCmd struct {
	Name   string `arg:"" help:"Palette name, blend spec or PAL file"`
	Output string `arg:"" help:"Destination PAL file"`
	Force  bool   `help:"Replace the destination if it exists" default:"false"`
}

func (c *ExportCmd) Validate(kctx *kong.Context) error {
	var err error
	if c.Output, err = filepath.Abs(c.Output); err != nil {
		return fmt.Errorf("invalid output path %q: %w", c.Output, err)
	}
	if _, err := palette.LoadLookup(c.Name); err != nil {
		return err
	}
	return nil
}

func (c *ExportCmd) Run() (err error) {
	l, err := palette.LoadLookup(c.Name)
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if c.Force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	outFile, err := os.OpenFile(c.Output, flags, 0o644)
	if err != nil {
		return fmt.Errorf("could not create palette file %q: %w", c.Output, err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close palette file %q: %w", c.Output, closeErr)
		}
	}()

	// the table goes out as is, index for index
	pal := make(color.Palette, len(l))
	for i, col := range l {
		pal[i] = col
	}

	n, err := palette.WriteTo(outFile, []color.Palette{pal})
	if err != nil {
		return fmt.Errorf("could not write palette file %q: %w", c.Output, err)
	}

	slog.Info("palette exported", "palette", c.Name, "file", c.Output, "colors", len(pal), "bytes", n)
	return nil
}
