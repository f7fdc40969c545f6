package scene

import (
	"math"

	"parallax-renderer/internal/mathutil"
)

// Camera is a perspective camera.
type Camera struct {
	Eye    mathutil.Vec3
	At     mathutil.Vec3
	Up     mathutil.Vec3
	FOV    float64 // vertical, radians
	Aspect float64
	Near   float64
	Far    float64
}

// NewCamera returns a camera at +Z looking at the origin with a 45° field of
// view.
func NewCamera(aspect float64) *Camera {
	return &Camera{
		Eye:    mathutil.Vec3{0, 0, 1},
		Up:     mathutil.Vec3{0, 1, 0},
		FOV:    math.Pi / 4,
		Aspect: aspect,
		Near:   0.1,
		Far:    1000,
	}
}

// View returns the world-to-view transform.
func (c *Camera) View() mathutil.Mat4 {
	return mathutil.LookAt(c.Eye, c.At, c.Up)
}

// Projection returns the view-to-clip transform, or Mat4Error for invalid
// parameters.
func (c *Camera) Projection() mathutil.Mat4 {
	return mathutil.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// Frustum returns the view volume in world space.
func (c *Camera) Frustum() mathutil.Frustum {
	return mathutil.NewFrustum(c.View(), c.Projection())
}

// Orbit places the eye on a circle of radius around At, height above it,
// at angle radians about +Y measured from +Z.
func (c *Camera) Orbit(angle, radius, height float64) {
	c.Eye = mathutil.Vec3{
		c.At[0] + radius*math.Sin(angle),
		c.At[1] + height,
		c.At[2] + radius*math.Cos(angle),
	}
}
