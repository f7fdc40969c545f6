package raster

import (
	"errors"
	"math"
	"slices"
	"sync"
	"testing"

	"parallax-renderer/internal/mathutil"
	"parallax-renderer/internal/parallel"
)

func newTestDevice(t *testing.T, w, h, workers int) *Device {
	t.Helper()
	pool := parallel.NewPool(workers)
	t.Cleanup(pool.Close)
	d, err := NewDevice(w, h, pool)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	return d
}

// vertexBuffer builds an interleaved buffer from positions with a +z normal
// and uv = (u, v) everywhere.
func vertexBuffer(u, v float32, pos ...[3]float32) []float32 {
	vb := make([]float32, 0, len(pos)*VertexStride)
	for _, p := range pos {
		vb = append(vb, p[0], p[1], p[2], 0, 0, 1, u, v)
	}
	return vb
}

func renderFrame(d *Device, draws ...func()) {
	d.Clear(0, 1)
	d.Begin()
	for _, draw := range draws {
		draw()
	}
	d.End()
}

func TestNewDevice_InvalidSize(t *testing.T) {
	pool := parallel.NewPool(1)
	defer pool.Close()

	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		if _, err := NewDevice(size[0], size[1], pool); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewDevice(%d, %d) error = %v, want ErrInvalidSize", size[0], size[1], err)
		}
	}
}

func TestDevice_FullViewportQuad(t *testing.T) {
	const w, h = 16, 12
	d := newTestDevice(t, w, h, 4)

	m := NewMaterial("red")
	m.Diffuse = ColorSampler(0xFF0000)
	d.SetMaterial(m)

	vb := vertexBuffer(0.5, 0.5,
		[3]float32{-1, -1, 0},
		[3]float32{1, -1, 0},
		[3]float32{1, 1, 0},
		[3]float32{-1, 1, 0},
	)
	ib := []int32{0, 1, 2, 0, 2, 3}

	renderFrame(d, func() { d.Draw(vb, ib, 2) })

	fb := d.Buffer()
	for i := range fb.Color {
		if fb.Color[i] != 0xFF0000 {
			t.Fatalf("Color[%d] (x=%d, y=%d) = %#06x, want 0xff0000", i, i%w, i/w, fb.Color[i])
		}
		if fb.Depth[i] != 0.5 {
			t.Fatalf("Depth[%d] = %v, want 0.5", i, fb.Depth[i])
		}
	}

	stats := d.Stats()
	if stats.Triangles != 2 || stats.Vertices != 6 {
		t.Errorf("stats = %d triangles, %d vertices, want 2, 6", stats.Triangles, stats.Vertices)
	}
	if stats.Rendered != 2 || stats.Culled != 0 {
		t.Errorf("stats = %d rendered, %d culled, want 2, 0", stats.Rendered, stats.Culled)
	}
}

func TestDevice_BackfaceCulling(t *testing.T) {
	ccw := vertexBuffer(0, 0,
		[3]float32{-0.5, -0.5, 0},
		[3]float32{0.5, -0.5, 0},
		[3]float32{0, 0.5, 0},
	)

	tests := []struct {
		name      string
		mode      CullMode
		indices   []int32
		wantSpans bool
	}{
		{"back/ccw", CullBack, []int32{0, 1, 2}, true},
		{"back/cw", CullBack, []int32{0, 2, 1}, false},
		{"front/ccw", CullFront, []int32{0, 1, 2}, false},
		{"front/cw", CullFront, []int32{0, 2, 1}, true},
		{"none/ccw", CullNone, []int32{0, 1, 2}, true},
		{"none/cw", CullNone, []int32{0, 2, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDevice(t, 32, 32, 2)
			d.CullMode = tt.mode
			renderFrame(d, func() { d.Draw(ccw, tt.indices, 1) })

			stats := d.Stats()
			if got := stats.Spans > 0; got != tt.wantSpans {
				t.Errorf("Spans = %d, want spans: %v", stats.Spans, tt.wantSpans)
			}
			if !tt.wantSpans && stats.Culled != 1 {
				t.Errorf("Culled = %d, want 1", stats.Culled)
			}
		})
	}
}

func overlapScene() (vb []float32, near, far []int32) {
	// Two triangles overlapping in the centre; the second is nearer.
	vb = vertexBuffer(0, 0,
		[3]float32{-0.9, -0.8, 0.2},
		[3]float32{0.7, -0.6, 0.4},
		[3]float32{-0.1, 0.9, 0.3},

		[3]float32{-0.7, 0.6, -0.5},
		[3]float32{0.1, -0.9, -0.1},
		[3]float32{0.9, 0.8, -0.3},
	)
	return vb, []int32{3, 4, 5}, []int32{0, 1, 2}
}

func TestDevice_OrderIndependent(t *testing.T) {
	vb, near, far := overlapScene()
	red := NewMaterial("red")
	red.Diffuse = ColorSampler(0xFF0000)
	blue := NewMaterial("blue")
	blue.Diffuse = ColorSampler(0x0000FF)

	render := func(workers int, nearFirst bool) *FrameBuffer {
		d := newTestDevice(t, 48, 40, workers)
		d.CullMode = CullNone
		drawFar := func() { d.SetMaterial(red); d.Draw(vb, far, 1) }
		drawNear := func() { d.SetMaterial(blue); d.Draw(vb, near, 1) }
		if nearFirst {
			renderFrame(d, drawNear, drawFar)
		} else {
			renderFrame(d, drawFar, drawNear)
		}
		return d.Buffer()
	}

	want := render(1, false)
	for _, workers := range []int{1, 3, 4} {
		for _, nearFirst := range []bool{false, true} {
			got := render(workers, nearFirst)
			if !slices.Equal(got.Color, want.Color) {
				t.Errorf("workers=%d nearFirst=%v: color buffer differs", workers, nearFirst)
			}
			if !slices.Equal(got.Depth, want.Depth) {
				t.Errorf("workers=%d nearFirst=%v: depth buffer differs", workers, nearFirst)
			}
		}
	}

	// The centre pixel is covered by both; the nearer (blue) one wins.
	if c := want.Color[20*48+24]; c != 0x0000FF {
		t.Errorf("centre color = %#06x, want 0x0000ff", c)
	}
}

func TestDevice_SingleDrawOrderIndependent(t *testing.T) {
	// Same geometry submitted as one draw, in both index orders, so the
	// triangles land in different partitions depending on worker count.
	vb, near, far := overlapScene()
	forward := append(slices.Clone(far), near...)
	reverse := append(slices.Clone(near), far...)

	render := func(workers int, ib []int32) *FrameBuffer {
		d := newTestDevice(t, 40, 40, workers)
		d.CullMode = CullNone
		renderFrame(d, func() { d.Draw(vb, ib, 2) })
		return d.Buffer()
	}

	want := render(1, forward)
	for _, workers := range []int{2, 4} {
		for _, ib := range [][]int32{forward, reverse} {
			got := render(workers, ib)
			if !slices.Equal(got.Depth, want.Depth) {
				t.Errorf("workers=%d: depth buffer differs", workers)
			}
			if !slices.Equal(got.Normal, want.Normal) {
				t.Errorf("workers=%d: normal buffer differs", workers)
			}
		}
	}
}

// recordingSampler remembers every coordinate it was sampled at.
type recordingSampler struct {
	mu sync.Mutex
	uv [][2]float64
}

func (r *recordingSampler) Sample(u, v float64) uint32 {
	r.mu.Lock()
	r.uv = append(r.uv, [2]float64{u, v})
	r.mu.Unlock()
	return 0xFFFFFF
}

func TestDevice_ConstantAttributesPerspective(t *testing.T) {
	d := newTestDevice(t, 32, 32, 3)
	d.Projection = mathutil.Perspective(math.Pi/2, 1, 0.1, 100)
	d.CullMode = CullNone

	rec := &recordingSampler{}
	m := NewMaterial("uv")
	m.Diffuse = rec
	d.SetMaterial(m)

	const u, v = 0.25, 0.75
	vb := vertexBuffer(u, v,
		[3]float32{-1, -1, -2},
		[3]float32{1, -1, -4},
		[3]float32{0, 1, -3},
	)
	renderFrame(d, func() { d.Draw(vb, []int32{0, 1, 2}, 1) })

	if len(rec.uv) == 0 {
		t.Fatal("no pixels were shaded")
	}
	for _, s := range rec.uv {
		if math.Abs(s[0]-u) > 1e-9 || math.Abs(s[1]-v) > 1e-9 {
			t.Fatalf("sampled (%v, %v), want (%v, %v)", s[0], s[1], u, v)
		}
	}

	fb := d.Buffer()
	for i, n := range fb.Normal {
		if fb.Depth[i] == 1 {
			continue
		}
		x, y, z := UnpackNormal(n)
		if math.Abs(x) > 0.01 || math.Abs(y) > 0.01 || math.Abs(z-1) > 0.01 {
			t.Fatalf("normal at %d = (%v, %v, %v), want (0, 0, 1)", i, x, y, z)
		}
	}
}

func TestDevice_ClipNearPlane(t *testing.T) {
	d := newTestDevice(t, 32, 32, 2)
	d.Projection = mathutil.Perspective(math.Pi/2, 1, 0.5, 100)
	d.CullMode = CullNone

	// One vertex behind the eye.
	vb := vertexBuffer(0, 0,
		[3]float32{-1, -1, -3},
		[3]float32{1, -1, -3},
		[3]float32{0, 0.5, 2},
	)
	renderFrame(d, func() { d.Draw(vb, []int32{0, 1, 2}, 1) })

	stats := d.Stats()
	if stats.Clipped != 1 {
		t.Errorf("Clipped = %d, want 1", stats.Clipped)
	}
	if stats.Rendered != 1 {
		t.Errorf("Rendered = %d, want 1", stats.Rendered)
	}
	for i, z := range d.Buffer().Depth {
		if z < 0 || z > 1 {
			t.Fatalf("Depth[%d] = %v, want within [0, 1]", i, z)
		}
	}
}

func TestDevice_OffscreenTriangle(t *testing.T) {
	d := newTestDevice(t, 16, 16, 2)
	vb := vertexBuffer(0, 0,
		[3]float32{2, 2, 0},
		[3]float32{3, 2, 0},
		[3]float32{2, 3, 0},
	)
	renderFrame(d, func() { d.Draw(vb, []int32{0, 1, 2}, 1) })

	stats := d.Stats()
	if stats.Spans != 0 || stats.Rendered != 0 {
		t.Errorf("stats = %+v, want no spans", stats)
	}
	if stats.Culled != 1 {
		t.Errorf("Culled = %d, want 1 (trivially rejected)", stats.Culled)
	}
}

func TestDevice_BuffersResetBetweenFrames(t *testing.T) {
	d := newTestDevice(t, 16, 16, 2)
	vb := vertexBuffer(0, 0,
		[3]float32{-1, -1, 0},
		[3]float32{1, -1, 0},
		[3]float32{1, 1, 0},
	)
	ib := []int32{0, 1, 2}

	renderFrame(d, func() { d.Draw(vb, ib, 1) })
	first := d.Stats().Spans
	renderFrame(d, func() { d.Draw(vb, ib, 1) })
	if got := d.Stats().Spans; got != first {
		t.Errorf("second frame Spans = %d, want %d", got, first)
	}
	for _, p := range d.parts {
		for y := 0; y < p.spans.Height(); y++ {
			if len(p.spans.Row(y)) != 0 {
				t.Fatalf("row %d not reset after End", y)
			}
		}
	}
}

func TestDevice_DrawOutsideFrame(t *testing.T) {
	d := newTestDevice(t, 8, 8, 1)
	vb := vertexBuffer(0, 0,
		[3]float32{-1, -1, 0},
		[3]float32{1, -1, 0},
		[3]float32{1, 1, 0},
	)
	d.Clear(0x123456, 1)
	d.Draw(vb, []int32{0, 1, 2}, 1)
	d.End()

	for i, c := range d.Buffer().Color {
		if c != 0x123456 {
			t.Fatalf("Color[%d] = %#06x, want clear color", i, c)
		}
	}
}

func TestParseCullMode(t *testing.T) {
	tests := []struct {
		in      string
		want    CullMode
		wantErr bool
	}{
		{"back", CullBack, false},
		{"", CullBack, false},
		{"front", CullFront, false},
		{"none", CullNone, false},
		{"sideways", CullBack, true},
	}
	for _, tt := range tests {
		got, err := ParseCullMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCullMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCullMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && tt.in != "" && got.String() != tt.in {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tt.in)
		}
	}
}
