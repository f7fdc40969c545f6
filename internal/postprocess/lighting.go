package postprocess

import (
	"math"

	"parallax-renderer/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. Directions point from
// the surface towards the light, in world space.
type LightConfig struct {
	LightDir  mathutil.Vec3
	RimDir    mathutil.Vec3
	ViewDir   mathutil.Vec3
	HalfMain  mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	SpecInt   float64
	SpecPow   float64 // used when a pixel carries no glossiness
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64

	// Transparent makes pixels that no triangle covered fully transparent
	// instead of keeping the clear color.
	Transparent bool
}

// DefaultLightConfig returns a key light from the upper right, a cool rim
// light from behind and a viewer looking down -Z.
func DefaultLightConfig() LightConfig {
	return NewLightConfig(
		mathutil.Vec3{180, 260, 140},
		mathutil.Vec3{-160, 130, -210},
		mathutil.Vec3{0, 0, 1},
	)
}

// NewLightConfig returns the default intensities for the given key light,
// rim light and view directions. The vectors need not be normalized.
func NewLightConfig(light, rim, view mathutil.Vec3) LightConfig {
	lightDir := light.Normalize()
	viewDir := view.Normalize()

	return LightConfig{
		LightDir:  lightDir,
		RimDir:    rim.Normalize(),
		ViewDir:   viewDir,
		HalfMain:  lightDir.Add(viewDir).Normalize(),
		Ambient:   0.35,
		Hemi:      0.30,
		Direct:    0.90,
		Rim:       0.25,
		SpecInt:   0.45,
		SpecPow:   12.0,
		Exposure:  1.05,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// Shade returns the diffuse lighting scalar and the specular factor for a
// unit normal. gloss overrides SpecPow when positive.
func (lc *LightConfig) Shade(normal mathutil.Vec3, gloss float64) (diffuse, specular float64) {
	ndlMain := math.Max(normal.Dot(lc.LightDir), 0)
	ndlRim := math.Max(normal.Dot(lc.RimDir), 0)

	// Hemisphere fill
	hemi := normal[1]*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	// Blinn-Phong specular
	ndh := normal.Dot(lc.HalfMain)
	if ndh < 0 {
		ndh = 0
	}
	pow := lc.SpecPow
	if gloss > 0 {
		pow = gloss
	}
	specular = math.Pow(ndh, pow) * lc.SpecInt * ndlMainMask(ndlMain)

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim, specular
}

// ndlMainMask removes highlights on faces turned away from the key light.
func ndlMainMask(ndl float64) float64 {
	if ndl > 0 {
		return 1
	}
	return 0
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
