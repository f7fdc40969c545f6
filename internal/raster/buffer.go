package raster

import "image"

// FrameBuffer holds the render targets as flat row-major slices, one entry
// per pixel. Color, Specular and Emissive are 0xRRGGBB; Specular carries the
// material glossiness in its top byte. Normal is a 10:10:10 packed unit
// vector (see PackNormal). Depth is in [0, 1], smaller is closer.
type FrameBuffer struct {
	Width    int
	Height   int
	Color    []uint32
	Normal   []uint32
	Specular []uint32
	Emissive []uint32
	Depth    []float64
}

// NewFrameBuffer allocates zeroed targets for a w×h frame.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	return &FrameBuffer{
		Width:    w,
		Height:   h,
		Color:    make([]uint32, n),
		Normal:   make([]uint32, n),
		Specular: make([]uint32, n),
		Emissive: make([]uint32, n),
		Depth:    make([]float64, n),
	}
}

// Row returns the slice bounds of row y.
func (fb *FrameBuffer) Row(y int) (from, to int) {
	from = y * fb.Width
	return from, from + fb.Width
}

// ToNRGBA converts the color target to an opaque image.
func (fb *FrameBuffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, c := range fb.Color {
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0] = uint8(c >> 16)
		p[1] = uint8(c >> 8)
		p[2] = uint8(c)
		p[3] = 0xFF
	}
	return img
}
