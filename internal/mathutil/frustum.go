package mathutil

import "math"

// Plane is n·p + d = 0 with a unit normal; points with a negative distance
// are behind it.
type Plane struct {
	Normal Vec3
	D      float64
}

// NewPlane normalises (a, b, c, d).
func NewPlane(a, b, c, d float64) Plane {
	l := math.Sqrt(a*a + b*b + c*c)
	if l < Epsilon {
		return Plane{}
	}
	return Plane{Normal: Vec3{a / l, b / l, c / l}, D: d / l}
}

// Distance returns the signed distance from p to the plane.
func (p Plane) Distance(v Vec3) float64 {
	return p.Normal.Dot(v) + p.D
}

// AABB is an axis-aligned bounding box. The zero value is not empty; use
// EmptyAABB to start an aggregate.
type AABB struct {
	Min, Max Vec3
}

func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

// IsEmpty reports whether no point has been aggregated.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Add grows the box to include v. Non-finite points are ignored.
func (b AABB) Add(v Vec3) AABB {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return b
		}
	}
	return AABB{Min: b.Min.Min(v), Max: b.Max.Max(v)}
}

// Corners returns the eight box corners.
func (b AABB) Corners() [8]Vec3 {
	lo, hi := b.Min, b.Max
	return [8]Vec3{
		{lo[0], hi[1], lo[2]}, {hi[0], hi[1], lo[2]}, {hi[0], lo[1], lo[2]}, {lo[0], lo[1], lo[2]},
		{lo[0], hi[1], hi[2]}, {hi[0], hi[1], hi[2]}, {hi[0], lo[1], hi[2]}, {lo[0], lo[1], hi[2]},
	}
}

// Transform returns the box enclosing b after transformation by m.
func (b AABB) Transform(m Mat4) AABB {
	if b.IsEmpty() {
		return b
	}
	out := EmptyAABB()
	for _, c := range b.Corners() {
		out = out.Add(m.MulPoint(c))
	}
	return out
}

// pointsBehind counts the corners on the negative side of p.
func (b AABB) pointsBehind(p Plane) int {
	n := 0
	for _, c := range b.Corners() {
		if p.Distance(c) < 0 {
			n++
		}
	}
	return n
}

// Containment classifies a volume against a frustum.
type Containment int

const (
	Outside Containment = iota
	Inside
	Partial
)

func (c Containment) String() string {
	switch c {
	case Inside:
		return "inside"
	case Partial:
		return "partial"
	default:
		return "outside"
	}
}

// Frustum holds the six clip planes of projection × view, in world space.
type Frustum struct {
	View       Mat4
	Projection Mat4
	Planes     [6]Plane // left, right, bottom, top, near, far
}

// NewFrustum extracts the planes from the combined matrix (Gribb/Hartmann).
func NewFrustum(view, projection Mat4) Frustum {
	m := Mat4Mul(projection, view)
	row := func(r int) [4]float64 {
		return [4]float64{m.At(r, 0), m.At(r, 1), m.At(r, 2), m.At(r, 3)}
	}
	x, y, z, w := row(0), row(1), row(2), row(3)
	plane := func(a [4]float64, s float64) Plane {
		return NewPlane(w[0]+s*a[0], w[1]+s*a[1], w[2]+s*a[2], w[3]+s*a[3])
	}
	return Frustum{
		View:       view,
		Projection: projection,
		Planes: [6]Plane{
			plane(x, 1), plane(x, -1),
			plane(y, 1), plane(y, -1),
			plane(z, 1), plane(z, -1),
		},
	}
}

// Evaluate classifies a world-space box. A box is outside as soon as all
// eight corners lie behind any single plane.
func (f Frustum) Evaluate(box AABB) Containment {
	if box.IsEmpty() {
		return Outside
	}
	total := 0
	for _, p := range f.Planes {
		n := box.pointsBehind(p)
		if n == 8 {
			return Outside
		}
		total += n
	}
	if total == 0 {
		return Inside
	}
	return Partial
}
