package mathutil

import "math"

// Row-major rotation matrices for a right-handed frame. A positive angle
// turns counter-clockwise when looking down the axis towards the origin.

// RotX rotates about +X by a radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY rotates about +Y by a radians; +Z turns towards +X, which matches
// the scene camera's orbit angle.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotZ rotates about +Z by a radians; +X turns towards +Y.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Deg2Rad converts degrees to radians, for angles read from configuration
// and scene descriptions.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
