package palette

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Load resolves a colour policy by name:
//
//	classic                  the 16 entry table
//	gray                     a 16 step gray ramp
//	gradient                 the formula based Gradient
//	blend:FROM:TO[:STEPS]    an OKLab blend between two hex colours
//	anything else            a RIFF PAL file
func Load(name string) (Colorer, error) {
	if name == "gradient" {
		return Gradient{}, nil
	}
	return LoadLookup(name)
}

// LoadLookup is Load restricted to table based policies.
func LoadLookup(name string) (Lookup, error) {
	switch name {
	case "", "classic":
		return Classic, nil
	case "gray":
		return Gray, nil
	case "gradient":
		return nil, fmt.Errorf("palette %q is not a lookup table", name)
	}

	if spec, ok := strings.CutPrefix(name, "blend:"); ok {
		return parseBlend(spec)
	}

	return loadFile(name)
}

func parseBlend(spec string) (Lookup, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("invalid blend %q, should be blend:FROM:TO[:STEPS]", spec)
	}

	from, err := ParseHex(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid blend start: %w", err)
	}
	to, err := ParseHex(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid blend end: %w", err)
	}

	steps := len(Classic)
	if len(parts) == 3 {
		if steps, err = strconv.Atoi(parts[2]); err != nil {
			return nil, fmt.Errorf("invalid blend steps %q: %w", parts[2], err)
		}
	}

	return Blend(from, to, steps)
}

func loadFile(name string) (Lookup, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open palette %q: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close palette file", "name", name, "error", closeErr)
		}
	}()

	pals, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palettes from %q: %w", name, err)
	}

	var all color.Palette
	for _, pal := range pals {
		all = append(all, pal...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("palette file %q holds no colors", name)
	}

	return FromPalette(all), nil
}

// ParseHex reads #RGB, #RGBA, #RRGGBB or #RRGGBBAA.
func ParseHex(s string) (color.RGBA, error) {
	var c color.RGBA
	var n int
	var err error
	switch len(s) {
	case 4:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A = 0xff
	case 5:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A |= c.A << 4
	case 7:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
		c.A = 0xff
	case 9:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
	default:
		return c, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}

	if err != nil {
		return color.RGBA{}, fmt.Errorf("could not read color %q: %w", s, err)
	} else if n < 3 {
		return color.RGBA{}, fmt.Errorf("insufficient color fields in %q: %d", s, n)
	}
	return c, nil
}
