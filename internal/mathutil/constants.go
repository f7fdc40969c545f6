package mathutil

import "math"

// Epsilon is the smallest determinant or length treated as non-zero.
const Epsilon = 1e-8

// Mat4Error is returned by operations that cannot produce a meaningful matrix
// (singular inverse, invalid projection parameters). Every element is NaN so
// the failure propagates visibly into whatever consumes it.
var Mat4Error = Mat4{
	math.NaN(), math.NaN(), math.NaN(), math.NaN(),
	math.NaN(), math.NaN(), math.NaN(), math.NaN(),
	math.NaN(), math.NaN(), math.NaN(), math.NaN(),
	math.NaN(), math.NaN(), math.NaN(), math.NaN(),
}

// Mat3Error is the 3×3 counterpart of Mat4Error.
var Mat3Error = Mat3{
	math.NaN(), math.NaN(), math.NaN(),
	math.NaN(), math.NaN(), math.NaN(),
	math.NaN(), math.NaN(), math.NaN(),
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CeilInt returns ceil(v) as an int.
func CeilInt(v float64) int {
	return int(math.Ceil(v))
}
