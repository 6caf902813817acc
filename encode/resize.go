package encode

import (
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/image/draw"
)

// Downscale shrinks img by an integer factor with Catmull-Rom filtering,
// averaging each factor x factor block of a supersampled render.
func Downscale(logger *slog.Logger, img image.Image, factor int) (*RGB, error) {
	if factor < 1 {
		return nil, fmt.Errorf("invalid downscale factor: %d", factor)
	}

	src := img.Bounds()
	if src.Dx()%factor != 0 || src.Dy()%factor != 0 {
		return nil, fmt.Errorf("%dx%d image is not a multiple of %d", src.Dx(), src.Dy(), factor)
	}

	dest := NewRGB(image.Rect(0, 0, src.Dx()/factor, src.Dy()/factor))
	if factor == 1 {
		draw.Draw(dest, dest.Rect, img, src.Min, draw.Src)
		return dest, nil
	}

	logger.Info("downscaling", "factor", factor, "width", dest.Rect.Dx(), "height", dest.Rect.Dy())
	draw.CatmullRom.Scale(dest, dest.Rect, img, src, draw.Src, nil)

	return dest, nil
}
