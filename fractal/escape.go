package fractal

// DefaultMaxIterations caps the escape-time loop when no other limit is given.
const DefaultMaxIterations uint16 = 255

// escapeRadiusSq is |z|^2 at escape radius 2.
const escapeRadiusSq = 4.0

// Iterate runs z = z*z + c from z = 0 and returns how many iterates stayed
// within the escape radius before one left it. A point whose first iterate
// (c itself) is already outside returns 0; a point that never escapes
// returns maxIter.
func Iterate(c complex128, maxIter uint16) uint16 {
	cr, ci := real(c), imag(c)
	var zr, zi float64
	for n := uint16(0); n < maxIter; n++ {
		zr, zi = zr*zr-zi*zi+cr, 2*zr*zi+ci
		if !(zr*zr+zi*zi < escapeRadiusSq) {
			return n
		}
	}
	return maxIter
}

// NormSq returns |c|^2.
func NormSq(c complex128) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}
