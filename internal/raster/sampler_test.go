package raster

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestColorSampler(t *testing.T) {
	s := ColorSampler(0xAB123456)
	if got := s.Sample(0.3, 0.7); got != 0x123456 {
		t.Errorf("Sample() = %#x, want 0x123456", got)
	}
}

func TestCheckerSampler(t *testing.T) {
	s := CheckerSampler{A: 0xFFFFFF, B: 0x000000, Size: 2}
	tests := []struct {
		u, v float64
		want uint32
	}{
		{0.1, 0.1, 0xFFFFFF},
		{0.6, 0.1, 0x000000},
		{0.6, 0.6, 0xFFFFFF},
		{-0.1, 0.1, 0x000000},
	}
	for _, tt := range tests {
		if got := s.Sample(tt.u, tt.v); got != tt.want {
			t.Errorf("Sample(%v, %v) = %#06x, want %#06x", tt.u, tt.v, got, tt.want)
		}
	}
}

func TestTextureSampler(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	s := NewTextureSampler(img)
	tests := []struct {
		u, v float64
		want uint32
	}{
		{0, 0, 0xFF0000},
		{1, 0, 0xFF0000}, // wraps
		{0.999999, 0, 0x00FF00},
		{0, 0.999999, 0x0000FF},
		{-1, -1, 0xFF0000},
	}
	for _, tt := range tests {
		if got := s.Sample(tt.u, tt.v); got != tt.want {
			t.Errorf("Sample(%v, %v) = %#06x, want %#06x", tt.u, tt.v, got, tt.want)
		}
	}

	if NewTextureSampler(nil) != nil {
		t.Error("NewTextureSampler(nil) != nil")
	}
	var empty *TextureSampler
	if got := empty.Sample(0.5, 0.5); got != 0 {
		t.Errorf("nil sampler Sample() = %#x, want 0", got)
	}
}

func TestPackNormal(t *testing.T) {
	if got, want := PackNormal(0, 0, 1), uint32(512<<20|512<<10|1023); got != want {
		t.Errorf("PackNormal(0, 0, 1) = %#x, want %#x", got, want)
	}
	if got, want := PackNormal(0, 0, 0), uint32(512<<20|512<<10|512); got != want {
		t.Errorf("PackNormal(0, 0, 0) = %#x, want %#x", got, want)
	}

	for _, n := range [][3]float64{{1, 0, 0}, {0, -3, 0}, {1, 2, -2}, {-0.2, 0.5, 0.7}} {
		x, y, z := UnpackNormal(PackNormal(n[0], n[1], n[2]))
		l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		if math.Abs(x-n[0]/l) > 0.005 || math.Abs(y-n[1]/l) > 0.005 || math.Abs(z-n[2]/l) > 0.005 {
			t.Errorf("round trip %v = (%v, %v, %v)", n, x, y, z)
		}
	}
}
