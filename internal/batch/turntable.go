package batch

import (
	"errors"
	"image"
	"math"

	"parallax-renderer/internal/mathutil"
	"parallax-renderer/internal/parallel"
	"parallax-renderer/internal/postprocess"
	"parallax-renderer/internal/raster"
	"parallax-renderer/internal/scene"
)

// Frame is one rendered turntable image.
type Frame struct {
	Index  int
	Image  *image.NRGBA
	Stats  raster.RenderStats
	Report scene.Report
}

// Renderer produces frame index of total.
type Renderer interface {
	Render(index, total int) (Frame, error)
}

// Turntable renders a scene graph from a camera orbiting its target.
// Frames are rendered at Supersample times the output size and reduced
// afterwards. A Turntable owns its Device and is not safe for concurrent use.
type Turntable struct {
	Graph  *scene.Graph
	Camera *scene.Camera
	Light  postprocess.LightConfig

	// Orbit
	Radius    float64
	Elevation float64
	StartAt   float64 // radians

	Background uint32

	width, height int
	supersample   int
	device        *raster.Device
	pool          *parallel.Pool
}

// NewTurntable creates a turntable producing width×height images. The pool
// is borrowed and shared by the device and the resolve pass.
func NewTurntable(g *scene.Graph, width, height, supersample int, pool *parallel.Pool) (*Turntable, error) {
	if g == nil {
		return nil, errors.New("batch: nil scene graph")
	}
	if supersample < 1 {
		supersample = 1
	}
	d, err := raster.NewDevice(width*supersample, height*supersample, pool)
	if err != nil {
		return nil, err
	}

	return &Turntable{
		Graph:       g,
		Camera:      scene.NewCamera(float64(width) / float64(height)),
		Light:       postprocess.DefaultLightConfig(),
		Radius:      6,
		Elevation:   2.5,
		Background:  0x202428,
		width:       width,
		height:      height,
		supersample: supersample,
		device:      d,
		pool:        pool,
	}, nil
}

// Device returns the device frames are rasterized on.
func (t *Turntable) Device() *raster.Device { return t.device }

// Render draws frame index of total, with the camera advanced by an equal
// share of a full revolution per frame.
func (t *Turntable) Render(index, total int) (Frame, error) {
	if total < 1 {
		total = 1
	}
	angle := t.StartAt + 2*math.Pi*float64(index)/float64(total)
	t.Camera.Orbit(angle, t.Radius, t.Elevation)

	// The rig turns with the camera so every frame is lit the same way.
	rot := mathutil.RotY(angle)
	light := t.Light
	light.LightDir = rot.MulVec3(light.LightDir)
	light.RimDir = rot.MulVec3(light.RimDir)
	light.ViewDir = rot.MulVec3(light.ViewDir)
	light.HalfMain = light.LightDir.Add(light.ViewDir).Normalize()

	t.Graph.Update()
	t.device.Clear(t.Background, 1)
	report := t.Graph.Render(t.device, t.Camera)

	img := postprocess.Resolve(t.device.Buffer(), &light, 1, t.pool)
	if t.supersample > 1 {
		img = postprocess.Downsample(img, t.width, t.height)
	}

	return Frame{
		Index:  index,
		Image:  img,
		Stats:  t.device.Stats(),
		Report: report,
	}, nil
}
