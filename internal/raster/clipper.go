package raster

// clipSafety pulls the near/far planes slightly inside so a vertex created on
// the boundary never divides by a w of (almost) zero.
const clipSafety = 0.999995

// Plane bits of the trivial reject mask. Each plane owns three bits, one per
// triangle vertex.
const (
	maskNear   = 0b000000000000000111
	maskFar    = 0b000000000000111000
	maskBottom = 0b000000000111000000
	maskTop    = 0b000000111000000000
	maskLeft   = 0b000111000000000000
	maskRight  = 0b111000000000000000
)

// Clipper clips triangles against the view frustum in homogeneous clip space.
// The x/y planes take part in trivial rejection only; geometry is split
// against the near and far planes, which bounds the result to 5 vertices.
// Screen-space clamping takes care of x and y.
//
// A Clipper is scratch state owned by one worker.
type Clipper struct {
	src  [6]Vertex
	dst  [6]Vertex
	mask int
}

// Clip clips triangle abc and returns the vertex count of the resulting convex
// polygon: 0 when the triangle is outside, 3 when it is untouched, or up to 5.
// The vertices are available through Polygon.
func (c *Clipper) Clip(a, b, v *Vertex) int {
	mask := clipMask(a, b, v)
	c.mask = mask
	if outside(mask) {
		return 0
	}

	c.src[0] = *a
	c.src[1] = *b
	c.src[2] = *v
	if mask == 0 {
		return 3
	}

	c.src[3] = *a
	n := clipAxis(&c.src, &c.dst, 3, -1)
	if n == 0 {
		return 0
	}
	return clipAxis(&c.dst, &c.src, n, 1)
}

// Crossed reports whether the last clipped triangle had a vertex outside
// any plane.
func (c *Clipper) Crossed() bool {
	return c.mask != 0
}

// Polygon returns the first n result vertices of the last Clip.
func (c *Clipper) Polygon(n int) []Vertex {
	return c.src[:n]
}

func outside(mask int) bool {
	return mask&maskNear == maskNear || mask&maskFar == maskFar ||
		mask&maskBottom == maskBottom || mask&maskTop == maskTop ||
		mask&maskLeft == maskLeft || mask&maskRight == maskRight
}

// clipMask sets a bit for every (plane, vertex) pair where the vertex is
// outside the plane. Tests are done on homogeneous coordinates.
func clipMask(v0, v1, v2 *Vertex) int {
	mask := 0
	for i, v := range [3]*Vertex{v0, v1, v2} {
		if !(v.Z > -v.W) {
			mask |= 1 << (0 + i)
		}
		if !(v.Z < v.W) {
			mask |= 1 << (3 + i)
		}
		if !(v.Y > -v.W) {
			mask |= 1 << (6 + i)
		}
		if !(v.Y < v.W) {
			mask |= 1 << (9 + i)
		}
		if !(v.X > -v.W) {
			mask |= 1 << (12 + i)
		}
		if !(v.X < v.W) {
			mask |= 1 << (15 + i)
		}
	}
	return mask
}

// clipAxis runs one Sutherland-Hodgman pass against z·side < w·clipSafety.
// src holds count vertices followed by a copy of the first one. The result is
// written to dst in the same closed form and its vertex count returned.
func clipAxis(src, dst *[6]Vertex, count int, side float64) int {
	out := 0
	a := &src[0]
	na := a.Z*side - a.W*clipSafety
	for i := 1; i <= count; i++ {
		b := &src[i]
		nb := b.Z*side - b.W*clipSafety
		if na < 0 {
			if nb < 0 {
				dst[out] = *b
				out++
			} else {
				dst[out].Lerp(a, b, na/(na-nb))
				out++
			}
		} else if nb < 0 {
			dst[out].Lerp(a, b, na/(na-nb))
			out++
			dst[out] = *b
			out++
		}
		na = nb
		a = b
	}
	if out > 0 {
		dst[out] = dst[0]
	}
	return out
}
