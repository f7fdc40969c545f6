package raster

import "parallax-renderer/internal/mathutil"

// VertexStride is the number of float32 values per vertex in a vertex buffer:
// position (x, y, z), normal (nx, ny, nz) and texture coordinates (tu, tv).
const VertexStride = 8

// Interpolated attribute slots shared by Gradient, EdgeWalker and Span.
const (
	attrW  = iota // 1/w
	attrZ         // screen depth
	attrNX        // normal x / w
	attrNY        // normal y / w
	attrNZ        // normal z / w
	attrTU        // texture u / w
	attrTV        // texture v / w
	numAttrs
)

// Vertex is a transformed vertex. Before ToScreen, (X, Y, Z, W) is the clip
// space position. After it, X and Y are pixel coordinates, Z is depth in
// [0, 1], W holds 1/w and every other attribute has been multiplied by 1/w so
// it can be interpolated linearly in screen space.
//
// Vertices are scratch values owned by one worker and overwritten for every
// triangle.
type Vertex struct {
	X, Y, Z, W float64
	NX, NY, NZ float64
	TU, TV     float64
}

// Transform loads the vertex at offset from src and transforms its position
// by m and its normal by n.
func (v *Vertex) Transform(src []float32, offset int, m *mathutil.Mat4, n *mathutil.Mat3) {
	x := float64(src[offset+0])
	y := float64(src[offset+1])
	z := float64(src[offset+2])
	a := float64(src[offset+3])
	b := float64(src[offset+4])
	c := float64(src[offset+5])
	v.TU = float64(src[offset+6])
	v.TV = float64(src[offset+7])

	v.X = m[0]*x + m[4]*y + m[8]*z + m[12]
	v.Y = m[1]*x + m[5]*y + m[9]*z + m[13]
	v.Z = m[2]*x + m[6]*y + m[10]*z + m[14]
	v.W = m[3]*x + m[7]*y + m[11]*z + m[15]

	v.NX = n[0]*a + n[1]*b + n[2]*c
	v.NY = n[3]*a + n[4]*b + n[5]*c
	v.NZ = n[6]*a + n[7]*b + n[8]*c
}

// Lerp sets v to a + t·(b − a) for every component.
func (v *Vertex) Lerp(a, b *Vertex, t float64) {
	v.X = a.X + t*(b.X-a.X)
	v.Y = a.Y + t*(b.Y-a.Y)
	v.Z = a.Z + t*(b.Z-a.Z)
	v.W = a.W + t*(b.W-a.W)
	v.NX = a.NX + t*(b.NX-a.NX)
	v.NY = a.NY + t*(b.NY-a.NY)
	v.NZ = a.NZ + t*(b.NZ-a.NZ)
	v.TU = a.TU + t*(b.TU-a.TU)
	v.TV = a.TV + t*(b.TV-a.TV)
}

// ToScreen performs the perspective divide and viewport mapping.
func (v *Vertex) ToScreen(width, height int) {
	v.W = 1 / v.W
	v.X = 0.5 * (v.X*v.W + 1) * float64(width)
	v.Y = 0.5 * (1 - v.Y*v.W) * float64(height)
	v.Z = 0.5 * (v.Z*v.W + 1)
	v.NX *= v.W
	v.NY *= v.W
	v.NZ *= v.W
	v.TU *= v.W
	v.TV *= v.W
}

// attrs returns the interpolated attributes in slot order.
func (v *Vertex) attrs() [numAttrs]float64 {
	return [numAttrs]float64{v.W, v.Z, v.NX, v.NY, v.NZ, v.TU, v.TV}
}
