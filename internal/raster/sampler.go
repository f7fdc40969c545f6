package raster

import (
	"image"
	"math"
)

// Sampler maps texture coordinates to a 0xRRGGBB color.
// Implementations must be safe for concurrent use.
type Sampler interface {
	Sample(u, v float64) uint32
}

// ColorSampler returns the same color everywhere.
type ColorSampler uint32

func (c ColorSampler) Sample(u, v float64) uint32 { return uint32(c) & 0xFFFFFF }

// CheckerSampler alternates between A and B on a grid of Size cells per unit.
type CheckerSampler struct {
	A, B uint32
	Size float64
}

func (c CheckerSampler) Sample(u, v float64) uint32 {
	size := c.Size
	if size <= 0 {
		size = 8
	}
	x := int(math.Floor(u * size))
	y := int(math.Floor(v * size))
	if (x+y)&1 == 0 {
		return c.A & 0xFFFFFF
	}
	return c.B & 0xFFFFFF
}

// TextureSampler samples an image with bilinear filtering and repeat
// wrapping. A nil texture samples as black.
type TextureSampler struct {
	Texture *image.NRGBA
}

// NewTextureSampler wraps tex. It returns nil when tex is nil or empty.
func NewTextureSampler(tex *image.NRGBA) *TextureSampler {
	if tex == nil || tex.Rect.Dx() == 0 || tex.Rect.Dy() == 0 {
		return nil
	}
	return &TextureSampler{Texture: tex}
}

func (s *TextureSampler) Sample(u, v float64) uint32 {
	if s == nil || s.Texture == nil {
		return 0
	}
	r, g, b, _ := SampleTexture(s.Texture, u, v)
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// SampleTexture performs bilinear filtering with UV wrapping.
// Accesses tex.Pix directly for performance.
func SampleTexture(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	u -= math.Floor(u)
	v -= math.Floor(v)

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := tex.Stride
	pix := tex.Pix

	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	mix := func(c int) uint8 {
		f := float64(pix[i00+c])*w00 + float64(pix[i10+c])*w10 +
			float64(pix[i01+c])*w01 + float64(pix[i11+c])*w11
		return uint8(f + 0.5)
	}
	return mix(0), mix(1), mix(2), mix(3)
}
