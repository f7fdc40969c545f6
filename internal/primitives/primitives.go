// Package primitives generates simple meshes in the raster vertex layout.
// Faces wind counter-clockwise when seen from outside, so they survive back
// face culling from any exterior viewpoint.
package primitives

import (
	"fmt"
	"math"

	"parallax-renderer/internal/mathutil"
	"parallax-renderer/internal/raster"
)

// builder accumulates interleaved vertices and triangle indices.
type builder struct {
	vertices []float32
	indices  []int32
}

func (b *builder) vertex(p, n mathutil.Vec3, u, v float64) int32 {
	idx := int32(len(b.vertices) / raster.VertexStride)
	b.vertices = append(b.vertices,
		float32(p[0]), float32(p[1]), float32(p[2]),
		float32(n[0]), float32(n[1]), float32(n[2]),
		float32(u), float32(v))
	return idx
}

func (b *builder) triangle(a, c, d int32) {
	b.indices = append(b.indices, a, c, d)
}

// quad appends a face with corners centre ± u ± v. u × v is the face normal.
func (b *builder) quad(centre, u, v mathutil.Vec3) {
	n := u.Cross(v).Normalize()
	i0 := b.vertex(centre.Sub(u).Sub(v), n, 0, 0)
	i1 := b.vertex(centre.Add(u).Sub(v), n, 1, 0)
	i2 := b.vertex(centre.Add(u).Add(v), n, 1, 1)
	i3 := b.vertex(centre.Sub(u).Add(v), n, 0, 1)
	b.triangle(i0, i1, i2)
	b.triangle(i0, i2, i3)
}

func (b *builder) mesh(name string) (*raster.Mesh, error) {
	m, err := raster.NewMesh(b.vertices, b.indices)
	if err != nil {
		return nil, fmt.Errorf("primitives: %s: %w", name, err)
	}
	return m, nil
}

// Plane returns a width×depth quad in the XZ plane facing +Y.
func Plane(width, depth float64) (*raster.Mesh, error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("primitives: plane %gx%g: size must be positive", width, depth)
	}
	var b builder
	b.quad(mathutil.Vec3{}, mathutil.Vec3{0, 0, depth / 2}, mathutil.Vec3{width / 2, 0, 0})
	return b.mesh("plane")
}

// Cube returns the box spanning lo..hi with one quad per face.
func Cube(lo, hi mathutil.Vec3) (*raster.Mesh, error) {
	for i := range 3 {
		if hi[i] <= lo[i] {
			return nil, fmt.Errorf("primitives: cube %v..%v: empty extent", lo, hi)
		}
	}
	c := lo.Add(hi).Scale(0.5)
	h := hi.Sub(lo).Scale(0.5)
	x := mathutil.Vec3{h[0], 0, 0}
	y := mathutil.Vec3{0, h[1], 0}
	z := mathutil.Vec3{0, 0, h[2]}

	var b builder
	b.quad(c.Add(x), y, z)
	b.quad(c.Sub(x), z, y)
	b.quad(c.Add(y), z, x)
	b.quad(c.Sub(y), x, z)
	b.quad(c.Add(z), x, y)
	b.quad(c.Sub(z), y, x)
	return b.mesh("cube")
}

// UnitCube returns the cube spanning -0.5..0.5.
func UnitCube() (*raster.Mesh, error) {
	return Cube(mathutil.Vec3{-0.5, -0.5, -0.5}, mathutil.Vec3{0.5, 0.5, 0.5})
}

// Sphere returns a UV sphere. stacks divide pole to pole, slices divide the
// equator. Seam vertices are duplicated so texture coordinates wrap cleanly.
func Sphere(radius float64, stacks, slices int) (*raster.Mesh, error) {
	if radius <= 0 || stacks < 2 || slices < 3 {
		return nil, fmt.Errorf("primitives: sphere r=%g stacks=%d slices=%d: invalid tessellation", radius, stacks, slices)
	}

	var b builder
	for s := 0; s <= slices; s++ {
		phi := 2 * math.Pi * float64(s) / float64(slices)
		for k := 0; k <= stacks; k++ {
			theta := math.Pi * float64(k) / float64(stacks)
			n := mathutil.Vec3{
				math.Sin(theta) * math.Sin(phi),
				math.Cos(theta),
				math.Sin(theta) * math.Cos(phi),
			}
			b.vertex(n.Scale(radius), n, float64(s)/float64(slices), float64(k)/float64(stacks))
		}
	}

	idx := func(k, s int) int32 { return int32(s*(stacks+1) + k) }
	for s := 0; s < slices; s++ {
		for k := 0; k < stacks; k++ {
			// Skip the triangle that collapses onto a pole.
			if k != stacks-1 {
				b.triangle(idx(k, s), idx(k+1, s), idx(k+1, s+1))
			}
			if k != 0 {
				b.triangle(idx(k, s), idx(k+1, s+1), idx(k, s+1))
			}
		}
	}
	return b.mesh("sphere")
}
