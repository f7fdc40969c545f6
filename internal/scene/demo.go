package scene

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"parallax-renderer/internal/mathutil"
	"parallax-renderer/internal/primitives"
	"parallax-renderer/internal/raster"
)

// ErrUnknownScene is returned by Build for names with no builder.
var ErrUnknownScene = errors.New("scene: unknown scene")

// SamplerSource resolves named textures to samplers, returning fallback
// when a texture is unavailable.
type SamplerSource interface {
	Sampler(name string, fallback raster.Sampler) raster.Sampler
}

// Texture names looked up by the built-in scenes.
const (
	TextureGround = "ground"
	TextureCrate  = "crate"
	TextureGlobe  = "globe"
)

// Textures lists every texture name the built-in scenes may request.
var Textures = []string{TextureGround, TextureCrate, TextureGlobe}

var builders = map[string]func(SamplerSource) (*Graph, error){
	"demo":   buildDemo,
	"cubes":  buildCubes,
	"sphere": buildSphere,
}

// Names returns the built-in scene names, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the named scene. src may be nil, in which case every
// material uses its procedural fallback.
func Build(name string, src SamplerSource) (*Graph, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, name)
	}
	if src == nil {
		src = fallbackSource{}
	}
	g, err := build(src)
	if err != nil {
		return nil, fmt.Errorf("scene: build %s: %w", name, err)
	}
	g.Update()
	return g, nil
}

type fallbackSource struct{}

func (fallbackSource) Sampler(_ string, fallback raster.Sampler) raster.Sampler { return fallback }

func ground(src SamplerSource) (*Node, error) {
	mesh, err := primitives.Plane(12, 12)
	if err != nil {
		return nil, err
	}
	mat := raster.NewMaterial("ground")
	mat.Diffuse = src.Sampler(TextureGround, raster.CheckerSampler{A: 0x8C8C8C, B: 0x5A5A5A, Size: 6})
	return NewNode("ground", mesh, mat), nil
}

func crateMaterial(src SamplerSource, tint uint32) *raster.Material {
	mat := raster.NewMaterial("crate")
	mat.Diffuse = src.Sampler(TextureCrate, raster.CheckerSampler{A: tint, B: 0xE0E0E0, Size: 2})
	mat.Specular = raster.ColorSampler(0x303030)
	mat.Glossiness = 16
	return mat
}

func globeMaterial(src SamplerSource) *raster.Material {
	mat := raster.NewMaterial("globe")
	mat.Diffuse = src.Sampler(TextureGlobe, raster.CheckerSampler{A: 0x2D6CB5, B: 0x3F9B4A, Size: 8})
	mat.Specular = raster.ColorSampler(0x808080)
	mat.Glossiness = 48
	return mat
}

// buildDemo lays out a ground plane, a globe, three crates on a rotating
// carrier and a small emissive marker.
func buildDemo(src SamplerSource) (*Graph, error) {
	g := NewGraph()

	floor, err := ground(src)
	if err != nil {
		return nil, err
	}
	g.Root.Add(floor)

	sphere, err := primitives.Sphere(1, 16, 24)
	if err != nil {
		return nil, err
	}
	globe := NewNode("globe", sphere, globeMaterial(src))
	globe.Local = mathutil.Mat4Translate(mathutil.Vec3{0, 1, 0})
	g.Root.Add(globe)

	cube, err := primitives.UnitCube()
	if err != nil {
		return nil, err
	}
	carrier := NewNode("carrier", nil, nil)
	carrier.Local = mathutil.Mat4RotY(mathutil.Deg2Rad(15))
	tints := []uint32{0xB5542D, 0x2DB58C, 0xB5A22D}
	for i, tint := range tints {
		a := 2 * math.Pi * float64(i) / float64(len(tints))
		crate := NewNode(fmt.Sprintf("crate%d", i), cube, crateMaterial(src, tint))
		orient := mathutil.EulerToQuat(0, a, mathutil.Deg2Rad(10)).Mat4()
		crate.Local = mathutil.Mat4Mul(
			mathutil.Mat4Translate(mathutil.Vec3{2.5 * math.Sin(a), 0.5, 2.5 * math.Cos(a)}),
			orient,
		)
		carrier.Add(crate)
	}
	g.Root.Add(carrier)

	marker := NewNode("marker", cube, &raster.Material{
		Name:     "marker",
		Diffuse:  raster.ColorSampler(0x000000),
		Specular: raster.ColorSampler(0),
		Emissive: raster.ColorSampler(0xFFD040),
	})
	marker.Local = mathutil.Mat4Mul(
		mathutil.Mat4Translate(mathutil.Vec3{0, 2.6, 0}),
		mathutil.Mat4Scale(mathutil.Vec3{0.25, 0.25, 0.25}),
	)
	globe.Add(marker)

	return g, nil
}

// buildCubes lays out a 5×5 grid of crates, many of them crossing the view
// volume for typical orbits.
func buildCubes(src SamplerSource) (*Graph, error) {
	g := NewGraph()
	floor, err := ground(src)
	if err != nil {
		return nil, err
	}
	g.Root.Add(floor)

	cube, err := primitives.UnitCube()
	if err != nil {
		return nil, err
	}
	mat := crateMaterial(src, 0xB5542D)
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 2; z++ {
			n := NewNode(fmt.Sprintf("crate%d_%d", x+2, z+2), cube, mat)
			n.Local = mathutil.Mat4Translate(mathutil.Vec3{float64(x) * 2, 0.5, float64(z) * 2})
			g.Root.Add(n)
		}
	}
	return g, nil
}

func buildSphere(src SamplerSource) (*Graph, error) {
	g := NewGraph()
	sphere, err := primitives.Sphere(2, 24, 48)
	if err != nil {
		return nil, err
	}
	g.Root.Add(NewNode("globe", sphere, globeMaterial(src)))
	return g, nil
}
