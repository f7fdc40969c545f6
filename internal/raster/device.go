package raster

import (
	"errors"
	"fmt"
	"math"

	"parallax-renderer/internal/logging"
	"parallax-renderer/internal/mathutil"
	"parallax-renderer/internal/parallel"
)

// ErrInvalidSize is returned by NewDevice for a non-positive target size.
var ErrInvalidSize = errors.New("raster: invalid target size")

// CullMode selects which triangle facing is discarded. Front faces wind
// counter-clockwise in normalized device coordinates.
type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

func (c CullMode) String() string {
	switch c {
	case CullBack:
		return "back"
	case CullFront:
		return "front"
	case CullNone:
		return "none"
	}
	return fmt.Sprintf("CullMode(%d)", int(c))
}

// ParseCullMode maps "back", "front" or "none" to a CullMode.
func ParseCullMode(s string) (CullMode, error) {
	switch s {
	case "back", "":
		return CullBack, nil
	case "front":
		return CullFront, nil
	case "none":
		return CullNone, nil
	}
	return CullBack, fmt.Errorf("raster: unknown cull mode %q", s)
}

// partition is the scratch state of one draw worker. Nothing in it is shared
// with other partitions while triangles are processed.
type partition struct {
	spans   *ScanlineBuffer
	clipper Clipper
	input   [3]Vertex
	edges   [3]EdgeWalker
	grad    Gradient
}

// Device renders indexed triangle lists into a FrameBuffer.
//
// A frame is produced by Clear, Begin, any number of Draw calls, then End.
// Draw distributes triangles over the pool and buckets them into per-worker
// scanline buffers; End rasterizes every row in parallel. Buffers may be read
// after End until the next Clear. A Device is not safe for concurrent use.
type Device struct {
	World      mathutil.Mat4
	View       mathutil.Mat4
	Projection mathutil.Mat4

	// Clip enables homogeneous clipping. Draws known to be fully inside
	// the view volume can skip it.
	Clip     bool
	CullMode CullMode

	Rasterizer Rasterizer

	width    int
	height   int
	frame    Frame
	material *Material
	parts    []*partition
	stats    RenderStats
	drawing  bool
}

// NewDevice creates a device rendering width×height pixels on pool.
// The pool is borrowed; closing it remains the caller's job.
func NewDevice(width, height int, pool *parallel.Pool) (*Device, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if pool == nil {
		return nil, errors.New("raster: nil worker pool")
	}

	d := &Device{
		World:      mathutil.Mat4Identity(),
		View:       mathutil.Mat4Identity(),
		Projection: mathutil.Mat4Identity(),
		Clip:       true,
		Rasterizer: DefaultRasterizer(),
		width:      width,
		height:     height,
		material:   DefaultMaterial,
		parts:      make([]*partition, pool.Workers()),
	}
	spans := make([]*ScanlineBuffer, len(d.parts))
	for i := range d.parts {
		spans[i] = NewScanlineBuffer(width, height)
		d.parts[i] = &partition{spans: spans[i]}
	}
	d.frame = Frame{
		Buffer: NewFrameBuffer(width, height),
		Spans:  spans,
		Pool:   pool,
	}
	return d, nil
}

// Width returns the target width in pixels.
func (d *Device) Width() int { return d.width }

// Height returns the target height in pixels.
func (d *Device) Height() int { return d.height }

// Buffer returns the render targets.
func (d *Device) Buffer() *FrameBuffer { return d.frame.Buffer }

// Stats returns the counters of the last frame.
func (d *Device) Stats() RenderStats { return d.stats }

// SetMaterial sets the material for subsequent draws. nil selects
// DefaultMaterial.
func (d *Device) SetMaterial(m *Material) {
	if m == nil {
		m = DefaultMaterial
	}
	d.material = m
}

// Clear fills the color target with color and the depth target with depth,
// and zeroes the auxiliary targets.
func (d *Device) Clear(color uint32, depth float64) {
	d.Rasterizer.Clear(&d.frame, color, depth)
}

// Begin starts a frame.
func (d *Device) Begin() {
	if d.drawing {
		logging.Logger().Warn("raster: begin called twice, discarding pending spans")
		d.resetSpans()
	}
	d.drawing = true
	d.stats.Start()
}

// DrawMesh draws every triangle of m.
func (d *Device) DrawMesh(m *Mesh) {
	d.Draw(m.Vertices, m.Indices, m.TriangleCount())
}

// Draw submits count triangles from ib, indexing vertices in vb with
// VertexStride floats each. The buffers must have been validated, for
// example by NewMesh. Draw returns when every triangle has been bucketed.
func (d *Device) Draw(vb []float32, ib []int32, count int) {
	if !d.drawing {
		logging.Logger().Warn("raster: draw outside begin/end ignored")
		return
	}
	count = min(count, len(ib)/3)
	if count <= 0 {
		return
	}

	d.stats.Vertices += count * 3
	d.stats.Triangles += count

	transform := mathutil.Mat4Mul(d.Projection, mathutil.Mat4Mul(d.View, d.World))
	normal := mathutil.NormalMatrix(d.World)
	job := drawJob{
		device:    d,
		vb:        vb,
		ib:        ib,
		material:  d.material,
		transform: transform,
		normal:    normal,
	}
	d.frame.Pool.Partition(count, func(index, from, to int) {
		job.run(d.parts[index], from, to)
	})
}

// End rasterizes the frame and resets the scanline buffers. The buffers
// returned by Buffer hold the result afterwards.
func (d *Device) End() {
	if !d.drawing {
		logging.Logger().Warn("raster: end without begin ignored")
		return
	}
	d.Rasterizer.Render(&d.frame)

	for _, p := range d.parts {
		d.stats.merge(p.spans.stats)
	}
	d.resetSpans()
	d.stats.Stop()
	d.drawing = false

	logging.Logger().Debug("raster: frame done",
		"triangles", d.stats.Triangles,
		"rendered", d.stats.Rendered,
		"clipped", d.stats.Clipped,
		"culled", d.stats.Culled,
		"spans", d.stats.Spans,
		"elapsed", d.stats.Elapsed())
}

func (d *Device) resetSpans() {
	for _, p := range d.parts {
		p.spans.Reset()
	}
}

// drawJob carries the per-draw constants shared read-only by all partitions.
type drawJob struct {
	device    *Device
	vb        []float32
	ib        []int32
	material  *Material
	transform mathutil.Mat4
	normal    mathutil.Mat3
}

func (j *drawJob) run(p *partition, from, to int) {
	for t := from; t < to; t++ {
		i := t * 3
		p.input[0].Transform(j.vb, int(j.ib[i+0])*VertexStride, &j.transform, &j.normal)
		p.input[1].Transform(j.vb, int(j.ib[i+1])*VertexStride, &j.transform, &j.normal)
		p.input[2].Transform(j.vb, int(j.ib[i+2])*VertexStride, &j.transform, &j.normal)
		j.triangle(p)
	}
}

func (j *drawJob) triangle(p *partition) {
	d := j.device
	stats := &p.spans.stats

	poly := p.input[:]
	if d.Clip {
		n := p.clipper.Clip(&p.input[0], &p.input[1], &p.input[2])
		if p.clipper.Crossed() {
			stats.clipped++
		}
		poly = p.clipper.Polygon(n)
	}
	if len(poly) < 3 {
		stats.culled++
		return
	}

	area := signedArea(poly)
	if area == 0 || math.IsNaN(area) {
		stats.culled++
		return
	}
	switch d.CullMode {
	case CullBack:
		if area < 0 {
			stats.culled++
			return
		}
	case CullFront:
		if area > 0 {
			stats.culled++
			return
		}
	}

	for i := range poly {
		poly[i].ToScreen(d.width, d.height)
	}

	// The polygon is planar, so any non-degenerate fan triangle yields the
	// same gradients. The widest one is the best conditioned.
	a, b, c := widestFan(poly)
	if !p.grad.Configure(a, b, c) {
		stats.culled++
		return
	}

	emitted := 0
	for i := 2; i < len(poly); i++ {
		emitted += j.scan(p, &poly[0], &poly[i-1], &poly[i])
	}
	if emitted > 0 {
		stats.rendered++
	}
}

// scan splits one screen-space triangle at its middle vertex and buckets the
// upper and lower halves. It returns the number of span rows registered.
func (j *drawJob) scan(p *partition, a, b, c *Vertex) int {
	d := j.device
	w, h := float64(d.width), float64(d.height)

	if (a.X < 0 && b.X < 0 && c.X < 0) || (a.X >= w && b.X >= w && c.X >= w) {
		return 0
	}

	if a.Y > b.Y {
		a, b = b, a
	}
	if b.Y > c.Y {
		b, c = c, b
	}
	if a.Y > b.Y {
		a, b = b, a
	}
	if c.Y < 0 || a.Y >= h {
		return 0
	}

	long, upper, lower := &p.edges[0], &p.edges[1], &p.edges[2]
	if long.Configure(&p.grad, a, c) <= 0 {
		return 0
	}
	middleLeft := (b.X-a.X)*(c.Y-a.Y) < (c.X-a.X)*(b.Y-a.Y)

	rows := 0
	buf := p.spans
	if upper.Configure(&p.grad, a, b) > 0 && upper.Y1 < d.height {
		if middleLeft {
			rows += buf.Add(j.material, &p.grad, upper, long, upper)
		} else {
			rows += buf.Add(j.material, &p.grad, long, upper, upper)
		}
	}
	if lower.Configure(&p.grad, b, c) > 0 && lower.Y1 < d.height {
		if middleLeft {
			rows += buf.Add(j.material, &p.grad, lower, long, lower)
		} else {
			rows += buf.Add(j.material, &p.grad, long, lower, lower)
		}
	}
	return rows
}

// signedArea returns twice the signed area of poly after the perspective
// divide. Positive means counter-clockwise.
func signedArea(poly []Vertex) float64 {
	var sum float64
	n := len(poly)
	for i := range poly {
		p, q := &poly[i], &poly[(i+1)%n]
		px, py := p.X/p.W, p.Y/p.W
		qx, qy := q.X/q.W, q.Y/q.W
		sum += px*qy - qx*py
	}
	return sum
}

func widestFan(poly []Vertex) (a, b, c *Vertex) {
	a, b, c = &poly[0], &poly[1], &poly[2]
	best := math.Abs(screenArea(a, b, c))
	for i := 3; i < len(poly); i++ {
		if s := math.Abs(screenArea(&poly[0], &poly[i-1], &poly[i])); s > best {
			best = s
			b, c = &poly[i-1], &poly[i]
		}
	}
	return a, b, c
}

func screenArea(a, b, c *Vertex) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}
