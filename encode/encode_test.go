package encode

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// checker returns a w x h buffer of red and blue squares of size n.
func checker(w, h, n int) []byte {
	buf := make([]byte, w*h*3)
	for y := range h {
		for x := range w {
			i := (y*w + x) * 3
			if (x/n+y/n)%2 == 0 {
				buf[i] = 0xff
			} else {
				buf[i+2] = 0xff
			}
		}
	}
	return buf
}

func TestFromBuffer(t *testing.T) {
	buf := checker(4, 3, 1)
	img, err := FromBuffer(buf, 4, 3)
	if err != nil {
		t.Fatal(err)
	}

	if img.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("bounds %v", img.Bounds())
	}
	if c := img.RGBAAt(0, 0); c != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("(0,0) = %v", c)
	}
	if c := img.RGBAAt(1, 0); c != (color.RGBA{B: 0xff, A: 0xff}) {
		t.Errorf("(1,0) = %v", c)
	}
	if c := img.RGBAAt(9, 9); c != (color.RGBA{}) {
		t.Errorf("outside = %v", c)
	}

	// the image shares the buffer
	img.Set(3, 2, color.RGBA{G: 0x80, A: 0xff})
	if buf[len(buf)-2] != 0x80 {
		t.Error("Set did not write through to the buffer")
	}

	for _, size := range [][2]int{{0, 3}, {4, 0}, {4, 4}} {
		if _, err := FromBuffer(buf, size[0], size[1]); err == nil {
			t.Errorf("%dx%d: expected error", size[0], size[1])
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"out.png":     "png",
		"OUT.JPG":     "jpeg",
		"a/b.jpeg":    "jpeg",
		"x.gif":       "gif",
		"x.bmp":       "bmp",
		"x.tif":       "tiff",
		"mandel.tiff": "tiff",
	}
	for path, expected := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != expected {
			t.Errorf("FormatFromPath(%q) = %q, %v", path, got, err)
		}
	}
	if _, err := FormatFromPath("noext"); err == nil {
		t.Error("expected error without extension")
	}
}

func decodeFile(t *testing.T, path string, decode func(*os.File) (image.Image, error)) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
	return img
}

func sameImage(t *testing.T, name string, got image.Image, expected *RGB) {
	t.Helper()
	if got.Bounds() != expected.Bounds() {
		t.Fatalf("%s: bounds %v, expected %v", name, got.Bounds(), expected.Bounds())
	}
	for y := range expected.Rect.Dy() {
		for x := range expected.Rect.Dx() {
			c := color.RGBAModel.Convert(got.At(x, y)).(color.RGBA)
			if want := expected.RGBAAt(x, y); c != want {
				t.Fatalf("%s: pixel (%d,%d) = %v, expected %v", name, x, y, c, want)
			}
		}
	}
}

func TestSaveLossless(t *testing.T) {
	dir := t.TempDir()
	img, err := FromBuffer(checker(16, 8, 4), 16, 8)
	if err != nil {
		t.Fatal(err)
	}

	decoders := map[string]func(*os.File) (image.Image, error){
		"png":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"bmp":  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
		"tiff": func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
		"gif":  func(f *os.File) (image.Image, error) { return gif.Decode(f) },
	}
	pal := color.Palette{
		color.RGBA{A: 0xff},
		color.RGBA{R: 0xff, A: 0xff},
		color.RGBA{B: 0xff, A: 0xff},
	}

	for format, decode := range decoders {
		path := filepath.Join(dir, "out."+format)
		if err := Save(img, path, Options{Palette: pal}); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		sameImage(t, format, decodeFile(t, path, decode), img)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) > 0 {
		t.Errorf("temporary files left behind: %v", matches)
	}
}

func TestSaveJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	if err := WriteBuffer(checker(32, 32, 8), 32, 32, path, Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}

	img := decodeFile(t, path, func(f *os.File) (image.Image, error) { return jpeg.Decode(f) })
	if img.Bounds() != image.Rect(0, 0, 32, 32) {
		t.Errorf("bounds %v", img.Bounds())
	}
}

func TestSaveRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := os.WriteFile(path, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	img := NewRGB(image.Rect(0, 0, 2, 2))
	if err := Save(img, path, Options{}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "keep me" {
		t.Error("existing file was modified")
	}

	if err := Save(img, path, Options{Force: true}); err != nil {
		t.Fatalf("forced save: %v", err)
	}
	decodeFile(t, path, func(f *os.File) (image.Image, error) { return png.Decode(f) })
}

func TestSaveUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	img := NewRGB(image.Rect(0, 0, 2, 2))
	if err := Save(img, filepath.Join(dir, "out.png"), Options{Format: "webp"}); err == nil {
		t.Fatal("expected error for webp output")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed save left %d files behind", len(entries))
	}
}

func TestDownscale(t *testing.T) {
	src, err := FromBuffer(checker(8, 8, 2), 8, 8)
	if err != nil {
		t.Fatal(err)
	}

	dest, err := Downscale(slog.Default(), src, 2)
	if err != nil {
		t.Fatal(err)
	}
	if dest.Rect != image.Rect(0, 0, 4, 4) {
		t.Fatalf("bounds %v", dest.Rect)
	}
	// 2x2 blocks are uniform, so the corners keep their colour
	if c := dest.RGBAAt(0, 0); c.R < 0xc0 || c.B > 0x40 {
		t.Errorf("(0,0) = %v, expected mostly red", c)
	}

	same, err := Downscale(slog.Default(), src, 1)
	if err != nil {
		t.Fatal(err)
	}
	sameImage(t, "factor 1", same, src)

	if _, err := Downscale(slog.Default(), src, 3); err == nil {
		t.Error("expected error for a factor not dividing the size")
	}
	if _, err := Downscale(slog.Default(), src, 0); err == nil {
		t.Error("expected error for factor 0")
	}
}

func TestMeta(t *testing.T) {
	path := MetaPath(filepath.Join(t.TempDir(), "mandel.png"))
	if filepath.Ext(path) != ".json" {
		t.Fatalf("meta path %q", path)
	}

	meta := Meta{
		Image:         "mandel.png",
		Width:         640,
		Height:        480,
		TopLeft:       [2]float64{-2, 2},
		BottomRight:   [2]float64{1, -2},
		MaxIterations: 255,
		Workers:       8,
		Palette:       "classic",
		Supersample:   2,
		ElapsedMS:     12.5,
	}
	if err := WriteMeta(path, meta); err != nil {
		t.Fatal(err)
	}

	got, err := ReadMeta(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != meta {
		t.Errorf("read %+v, expected %+v", got, meta)
	}
}
