package mathutil

import "math"

// Mat4 is a 4×4 matrix stored column-major: element (row r, column c) lives at
// index c*4+r. Value type, like Mat3.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float64 {
	return m[c*4+r]
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			m[c*4+r] = a[0*4+r]*b[c*4+0] + a[1*4+r]*b[c*4+1] +
				a[2*4+r]*b[c*4+2] + a[3*4+r]*b[c*4+3]
		}
	}
	return m
}

// MulVec4 returns M × v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// MulPoint transforms a 3D point (w=1) by the matrix, ignoring the bottom row.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14],
	}
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 rotation and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[3], r[6], 0,
		r[1], r[4], r[7], 0,
		r[2], r[5], r[8], 0,
		t[0], t[1], t[2], 1,
	}
}

// Upper3 returns the upper-left 3×3 block as a row-major Mat3.
func (m Mat4) Upper3() Mat3 {
	return Mat3{
		m[0], m[4], m[8],
		m[1], m[5], m[9],
		m[2], m[6], m[10],
	}
}

func Mat4Translate(t Vec3) Mat4 {
	return FromMat3Translation(Mat3Identity(), t)
}

func Mat4Scale(s Vec3) Mat4 {
	return FromMat3Translation(Mat3Diag(s[0], s[1], s[2]), Vec3{})
}

func Mat4RotX(a float64) Mat4 { return FromMat3Translation(RotX(a), Vec3{}) }
func Mat4RotY(a float64) Mat4 { return FromMat3Translation(RotY(a), Vec3{}) }
func Mat4RotZ(a float64) Mat4 { return FromMat3Translation(RotZ(a), Vec3{}) }

func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			t[c*4+r] = m[r*4+c]
		}
	}
	return t
}

// Inverse returns M⁻¹, or Mat4Error when |det| is below Epsilon.
func (m Mat4) Inverse() Mat4 {
	b00 := m[0]*m[5] - m[1]*m[4]
	b01 := m[0]*m[6] - m[2]*m[4]
	b02 := m[0]*m[7] - m[3]*m[4]
	b03 := m[1]*m[6] - m[2]*m[5]
	b04 := m[1]*m[7] - m[3]*m[5]
	b05 := m[2]*m[7] - m[3]*m[6]
	b06 := m[8]*m[13] - m[9]*m[12]
	b07 := m[8]*m[14] - m[10]*m[12]
	b08 := m[8]*m[15] - m[11]*m[12]
	b09 := m[9]*m[14] - m[10]*m[13]
	b10 := m[9]*m[15] - m[11]*m[13]
	b11 := m[10]*m[15] - m[11]*m[14]

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if math.Abs(det) < Epsilon {
		return Mat4Error
	}
	inv := 1.0 / det

	return Mat4{
		(m[5]*b11 - m[6]*b10 + m[7]*b09) * inv,
		(m[2]*b10 - m[1]*b11 - m[3]*b09) * inv,
		(m[13]*b05 - m[14]*b04 + m[15]*b03) * inv,
		(m[10]*b04 - m[9]*b05 - m[11]*b03) * inv,
		(m[6]*b08 - m[4]*b11 - m[7]*b07) * inv,
		(m[0]*b11 - m[2]*b08 + m[3]*b07) * inv,
		(m[14]*b02 - m[12]*b05 - m[15]*b01) * inv,
		(m[8]*b05 - m[10]*b02 + m[11]*b01) * inv,
		(m[4]*b10 - m[5]*b08 + m[7]*b06) * inv,
		(m[1]*b08 - m[0]*b10 - m[3]*b06) * inv,
		(m[12]*b04 - m[13]*b02 + m[15]*b00) * inv,
		(m[9]*b02 - m[8]*b04 - m[11]*b00) * inv,
		(m[5]*b07 - m[4]*b09 - m[6]*b06) * inv,
		(m[0]*b09 - m[1]*b07 + m[2]*b06) * inv,
		(m[13]*b01 - m[12]*b03 - m[14]*b00) * inv,
		(m[8]*b03 - m[9]*b01 + m[10]*b00) * inv,
	}
}

// NormalMatrix returns the inverse-transpose of the upper 3×3 block, the
// transform that keeps normals perpendicular under non-uniform scale.
func NormalMatrix(world Mat4) Mat3 {
	return world.Upper3().Inverse().Transpose()
}

// LookAt builds a right-handed view matrix looking from eye towards at.
func LookAt(eye, at, up Vec3) Mat4 {
	d := eye.Sub(at).Normalize()
	r := up.Cross(d).Normalize()
	u := d.Cross(r)
	return Mat4{
		r[0], u[0], d[0], 0,
		r[1], u[1], d[1], 0,
		r[2], u[2], d[2], 0,
		-r.Dot(eye), -u.Dot(eye), -d.Dot(eye), 1,
	}
}

// Perspective builds a right-handed projection mapping view depth [near, far]
// to clip z in [-w, w]. fov is the vertical field of view in radians.
// Invalid parameters yield Mat4Error.
func Perspective(fov, aspect, near, far float64) Mat4 {
	if fov <= 0 || fov >= math.Pi || aspect <= 0 || near <= 0 || far <= near {
		return Mat4Error
	}
	f := math.Tan(math.Pi/2 - 0.5*fov)
	rangeInv := 1.0 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * rangeInv, -1,
		0, 0, 2 * far * near * rangeInv, 0,
	}
}

// Orthographic builds a right-handed parallel projection. Invalid parameters
// yield Mat4Error.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	if left >= right || bottom >= top || near < 0 || far <= near {
		return Mat4Error
	}
	return Mat4{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	return m.ApproxEqual(Mat4Identity(), 1e-8)
}

// ApproxEqual compares element-wise within eps.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := 0; i < 16; i++ {
		d := m[i] - o[i]
		if d > eps || d < -eps || math.IsNaN(d) {
			return false
		}
	}
	return true
}

// IsNaN reports whether any element is NaN.
func (m Mat4) IsNaN() bool {
	for _, v := range m {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
