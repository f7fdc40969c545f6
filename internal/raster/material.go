package raster

import "math"

// Material is the set of samplers a triangle is shaded with. Materials are
// shared read-only by every worker during a frame.
type Material struct {
	Name       string
	Diffuse    Sampler
	Specular   Sampler
	Emissive   Sampler
	Glossiness uint8
}

// NewMaterial returns a white diffuse material with no specular or emissive
// contribution.
func NewMaterial(name string) *Material {
	return &Material{
		Name:     name,
		Diffuse:  ColorSampler(0xFFFFFF),
		Specular: ColorSampler(0),
		Emissive: ColorSampler(0),
	}
}

// DefaultMaterial is used by a Device until SetMaterial is called.
var DefaultMaterial = NewMaterial("default")

// Normals are stored as three 10-bit unsigned components biased by 512.
const (
	normalBias  = 512
	normalScale = 511
)

// PackNormal normalizes (x, y, z) and packs it as 10:10:10 bits, x in the
// high bits. A zero vector packs as the all-bias value.
func PackNormal(x, y, z float64) uint32 {
	l := x*x + y*y + z*z
	if l == 0 {
		return normalBias<<20 | normalBias<<10 | normalBias
	}
	s := normalScale / math.Sqrt(l)
	r := uint32(int(x*s + normalBias))
	g := uint32(int(y*s + normalBias))
	b := uint32(int(z*s + normalBias))
	return r<<20 | g<<10 | b
}

// UnpackNormal reverses PackNormal. The result has length close to 1.
func UnpackNormal(n uint32) (x, y, z float64) {
	x = (float64(n>>20&0x3FF) - normalBias) / normalScale
	y = (float64(n>>10&0x3FF) - normalBias) / normalScale
	z = (float64(n&0x3FF) - normalBias) / normalScale
	return x, y, z
}
