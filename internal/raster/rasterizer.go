package raster

import (
	"parallax-renderer/internal/parallel"
)

// Frame is the state a Rasterizer works on: the target, the span buffers of
// every draw partition and the pool rows are distributed over.
type Frame struct {
	Buffer *FrameBuffer
	Spans  []*ScanlineBuffer
	Pool   *parallel.Pool
}

// Rasterizer turns collected spans into pixels. Render distributes rows over
// the pool; every row is written by exactly one worker, and the result does
// not depend on how rows or spans are scheduled.
type Rasterizer interface {
	Clear(f *Frame, color uint32, depth float64)
	Render(f *Frame)
}

// DepthRasterizer resolves the nearest depth of every pixel.
type DepthRasterizer struct{}

func (DepthRasterizer) Clear(f *Frame, color uint32, depth float64) {
	fb := f.Buffer
	f.Pool.ForEach(fb.Height, func(y int) {
		from, to := fb.Row(y)
		row := fb.Depth[from:to]
		for i := range row {
			row[i] = depth
		}
	})
}

func (DepthRasterizer) Render(f *Frame) {
	fb := f.Buffer
	f.Pool.ForEach(fb.Height, func(y int) {
		from, to := fb.Row(y)
		depth := fb.Depth[from:to]
		for _, buf := range f.Spans {
			for _, s := range buf.Row(y) {
				depthSpan(depth, s, y, fb.Width)
			}
		}
	})
}

func depthSpan(depth []float64, s *Span, y, width int) {
	x1, x2 := s.Columns(y, width)
	if x1 >= x2 {
		return
	}
	z := s.start(attrZ, y, x1)
	dz := s.DX[attrZ]
	for x := x1; x < x2; x++ {
		if z < depth[x] {
			depth[x] = z
		}
		z += dz
	}
}

// ColorRasterizer shades every pixel whose depth matches the resolved depth
// buffer. It must run after DepthRasterizer in the same frame.
type ColorRasterizer struct{}

func (ColorRasterizer) Clear(f *Frame, color uint32, depth float64) {
	fb := f.Buffer
	f.Pool.ForEach(fb.Height, func(y int) {
		from, to := fb.Row(y)
		for i := from; i < to; i++ {
			fb.Color[i] = color
			fb.Normal[i] = 0
			fb.Specular[i] = 0
			fb.Emissive[i] = 0
		}
	})
}

func (ColorRasterizer) Render(f *Frame) {
	fb := f.Buffer
	f.Pool.ForEach(fb.Height, func(y int) {
		from, to := fb.Row(y)
		row := pixelRow{
			depth:    fb.Depth[from:to],
			color:    fb.Color[from:to],
			normal:   fb.Normal[from:to],
			specular: fb.Specular[from:to],
			emissive: fb.Emissive[from:to],
		}
		for _, buf := range f.Spans {
			for _, s := range buf.Row(y) {
				row.shade(s, y, fb.Width)
			}
		}
	})
}

type pixelRow struct {
	depth    []float64
	color    []uint32
	normal   []uint32
	specular []uint32
	emissive []uint32
}

func (r *pixelRow) shade(s *Span, y, width int) {
	x1, x2 := s.Columns(y, width)
	if x1 >= x2 {
		return
	}
	m := s.Material
	if m == nil {
		m = DefaultMaterial
	}
	gloss := uint32(m.Glossiness) << 24

	z := s.start(attrZ, y, x1)
	w := s.start(attrW, y, x1)
	nx := s.start(attrNX, y, x1)
	ny := s.start(attrNY, y, x1)
	nz := s.start(attrNZ, y, x1)
	tu := s.start(attrTU, y, x1)
	tv := s.start(attrTV, y, x1)
	d := &s.DX

	for x := x1; x < x2; x++ {
		if z <= r.depth[x] {
			oz := 1 / w
			u, v := tu*oz, tv*oz
			r.color[x] = m.Diffuse.Sample(u, v)
			r.specular[x] = m.Specular.Sample(u, v) | gloss
			r.emissive[x] = m.Emissive.Sample(u, v)
			r.normal[x] = PackNormal(nx, ny, nz)
		}
		z += d[attrZ]
		w += d[attrW]
		nx += d[attrNX]
		ny += d[attrNY]
		nz += d[attrNZ]
		tu += d[attrTU]
		tv += d[attrTV]
	}
}

// CompoundRasterizer runs its passes in order.
type CompoundRasterizer []Rasterizer

// NewCompoundRasterizer returns a rasterizer running passes in order.
func NewCompoundRasterizer(passes ...Rasterizer) CompoundRasterizer {
	return CompoundRasterizer(passes)
}

// DefaultRasterizer resolves depth and then shades color.
func DefaultRasterizer() Rasterizer {
	return NewCompoundRasterizer(DepthRasterizer{}, ColorRasterizer{})
}

func (c CompoundRasterizer) Clear(f *Frame, color uint32, depth float64) {
	for _, r := range c {
		r.Clear(f, color, depth)
	}
}

func (c CompoundRasterizer) Render(f *Frame) {
	for _, r := range c {
		r.Render(f)
	}
}
