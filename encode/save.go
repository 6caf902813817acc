package encode

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

var ErrExists = errors.New("destination file already exists")

// Formats lists the supported output formats.
var Formats = []string{"png", "gif", "jpeg", "bmp", "tiff"}

type Options struct {
	// Format is one of Formats; empty means derive it from the file name.
	Format string
	// Quality is the JPEG quality, 1 to 100.
	Quality int
	// Palette, when it has at most 256 colors, is used as the exact GIF
	// palette. Otherwise GIFs are quantised to Plan 9 colors.
	Palette color.Palette
	// Dither enables Floyd-Steinberg error diffusion for GIF output.
	Dither bool
	// Force allows replacing an existing file.
	Force bool
}

// FormatFromPath derives the output format from the file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "gif", "bmp":
		return ext, nil
	case "jpg", "jpeg":
		return "jpeg", nil
	case "tif", "tiff":
		return "tiff", nil
	}
	return "", fmt.Errorf("cannot derive image format from %q", path)
}

// WriteBuffer encodes a row-major RGB buffer of width*height*3 bytes to path.
func WriteBuffer(buf []byte, width, height int, path string, opts Options) error {
	img, err := FromBuffer(buf, width, height)
	if err != nil {
		return err
	}
	return Save(img, path, opts)
}

// Save encodes img into a temporary file next to path and renames it into
// place once the encoder succeeded, so a failed save never leaves a partial
// image behind.
func Save(img image.Image, path string, opts Options) (err error) {
	format := opts.Format
	if format == "" {
		if format, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	if !opts.Force {
		if err := checkDest(path); err != nil {
			return err
		}
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	outFile, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary destination for %q: %w", path, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", outFile.Name(), defErr)
			canRename = false
		}

		if canRename {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", path, defErr)
			}
		}
		if !canRename || err != nil {
			_ = os.Remove(outFile.Name())
		}
	}()

	if err = encode(outFile, img, format, opts); err != nil {
		return err
	}

	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush temporary destination %q: %w", outFile.Name(), err)
	}

	canRename = true
	return nil
}

func checkDest(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", path, err)
		}
		return nil
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("destination %q is not a regular file: %s", path, info.Mode().String())
	}
	return fmt.Errorf("%w: %q", ErrExists, path)
}

func encode(w io.Writer, img image.Image, format string, opts Options) error {
	switch format {
	case "gif":
		if err := gif.Encode(w, paletted(img, opts.Palette, opts.Dither), nil); err != nil {
			return fmt.Errorf("could not encode GIF: %w", err)
		}
	case "jpeg":
		quality := opts.Quality
		if quality == 0 {
			quality = jpeg.DefaultQuality
		}
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("could not encode JPEG: %w", err)
		}
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode PNG: %w", err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode BMP: %w", err)
		}
	case "tiff":
		if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("could not encode TIFF: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return nil
}

// paletted maps img onto pal, falling back to the Plan 9 palette when pal
// is empty or too large for a GIF.
func paletted(img image.Image, pal color.Palette, dither bool) *image.Paletted {
	if len(pal) == 0 || len(pal) > 256 {
		pal = palette.Plan9
		dither = true
	}

	r := img.Bounds()
	dest := image.NewPaletted(r, pal)
	if dither {
		draw.FloydSteinberg.Draw(dest, r, img, r.Min)
	} else {
		draw.Draw(dest, r, img, r.Min, draw.Src)
	}
	return dest
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
