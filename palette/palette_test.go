package palette

import (
	"image/color"
	"math"
	"testing"

	"mandelbrot/fractal"
)

func TestClassic(t *testing.T) {
	if len(Classic) != 16 {
		t.Fatalf("classic palette has %d entries", len(Classic))
	}

	if c := Classic.Color(0, complex(-2, 2)); c != Black {
		t.Errorf("count 0 = %v, expected black", c)
	}
	if c := Classic.Color(1, 0); c != Classic[1] {
		t.Errorf("count 1 = %v, expected %v", c, Classic[1])
	}
	if c := Classic.Color(16, 0); c != Classic[0] {
		t.Errorf("count 16 = %v, expected %v", c, Classic[0])
	}
	// points that never escape end up black
	if c := Classic.Color(fractal.DefaultMaxIterations, 0); c != Black {
		t.Errorf("count %d = %v, expected black", fractal.DefaultMaxIterations, c)
	}
}

func TestLookupEmpty(t *testing.T) {
	if c := Lookup(nil).Color(7, 0); c != Black {
		t.Errorf("empty lookup = %v", c)
	}
}

func TestLookupPalette(t *testing.T) {
	p := Classic.Palette()
	if len(p) != len(Classic) {
		t.Errorf("classic already holds black, got %d colors", len(p))
	}

	l := Lookup{{0xff, 0, 0, 0xff}, {0, 0xff, 0, 0xff}}
	p = l.Palette()
	if len(p) != 3 || p[0] != Black {
		t.Errorf("expected black prepended, got %v", p)
	}
}

func TestGradient(t *testing.T) {
	var g Gradient

	if c := g.Color(0, complex(1, 1)); c != Black {
		t.Errorf("count 0 = %v", c)
	}

	// |c|^2 = 0.01: R = 2.55*n, G saturates, B = 0.2*n
	c := g.Color(10, complex(0.1, 0))
	expected := color.RGBA{R: 25, G: 255, B: 2, A: 0xff}
	if c != expected {
		t.Errorf("Color(10, 0.1) = %v, expected %v", c, expected)
	}

	// large values saturate instead of wrapping
	c = g.Color(200, complex(1.5, 1.5))
	if c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("Color(200, 1.5+1.5i) = %v, expected saturation", c)
	}

	if c := g.Color(3, complex(math.NaN(), 0)); c.R != 0 || c.B != 0 {
		t.Errorf("NaN point = %v", c)
	}
}

func TestColorDeterministic(t *testing.T) {
	for _, p := range []Colorer{Classic, Gray, Gradient{}} {
		for n := range uint16(300) {
			c := complex(float64(n)/300-1, 0.25)
			if p.Color(n, c) != p.Color(n, c) {
				t.Fatalf("%T not deterministic at n=%d", p, n)
			}
		}
	}
}

func TestBlend(t *testing.T) {
	from := color.RGBA{0, 7, 100, 0xff}
	to := color.RGBA{255, 170, 0, 0xff}

	l, err := Blend(from, to, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(l) != 8 {
		t.Fatalf("expected 8 colors, got %d", len(l))
	}
	if !near(l[0], from) || !near(l[7], to) {
		t.Errorf("blend ends %v .. %v, expected %v .. %v", l[0], l[7], from, to)
	}

	if _, err := Blend(from, to, 1); err == nil {
		t.Error("expected error for a single step")
	}
}

func TestGray(t *testing.T) {
	if len(Gray) != 16 {
		t.Fatalf("gray has %d entries", len(Gray))
	}
	for i := 1; i < len(Gray); i++ {
		if Gray[i].R > Gray[i-1].R {
			t.Errorf("gray ramp not descending at %d: %v > %v", i, Gray[i], Gray[i-1])
		}
	}
}

func near(a, b color.RGBA) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= 1 && d(a.G, b.G) <= 1 && d(a.B, b.B) <= 1 && a.A == b.A
}
