package fractal

import (
	"fmt"
	"maps"
	"slices"
)

// Regions holds well known windows of the Mandelbrot set by name.
var Regions = map[string]Window{
	// the whole set
	"full": {TopLeft: complex(-2.0, 2.0), BottomRight: complex(1.0, -2.0)},

	// dense filaments and repeating curls
	"seahorse": {TopLeft: complex(-0.8, 0.15), BottomRight: complex(-0.7, 0.05)},

	// large bulb with trunk-like tendrils
	"elephant": {TopLeft: complex(-1.85, -0.02), BottomRight: complex(-1.75, -0.10)},

	// small copy of the set with tight spiral arms
	"spiral": {TopLeft: complex(-0.7435, 0.1325), BottomRight: complex(-0.7420, 0.1310)},

	"triple-spiral": {TopLeft: complex(-0.7480, 0.0980), BottomRight: complex(-0.7450, 0.0950)},

	"dragon": {TopLeft: complex(-0.7400, 0.1850), BottomRight: complex(-0.7350, 0.1800)},
}

// Region looks up a named window.
func Region(name string) (Window, error) {
	w, ok := Regions[name]
	if !ok {
		return Window{}, fmt.Errorf("unknown region %q, known: %v", name, RegionNames())
	}
	return w, nil
}

func RegionNames() []string {
	return slices.Sorted(maps.Keys(Regions))
}
