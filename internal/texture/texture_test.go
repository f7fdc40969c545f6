package texture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"

	"parallax-renderer/internal/raster"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg":
		err = jpeg.Encode(f, img, nil)
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	case ".gif":
		b := img.Bounds()
		pal := image.NewPaletted(b, color.Palette{color.NRGBA{A: 255}, img.At(b.Min.X, b.Min.Y)})
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				pal.Set(x, y, img.At(x, y))
			}
		}
		err = gif.Encode(f, pal, nil)
	default:
		t.Fatalf("no encoder for %s", path)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	red := color.NRGBA{R: 255, A: 255}

	for _, name := range []string{"a.png", "b.bmp"} {
		path := filepath.Join(dir, name)
		writeImage(t, path, solid(4, 3, red))

		img, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", name, err)
		}
		if img.Rect != image.Rect(0, 0, 4, 3) {
			t.Errorf("%s: bounds = %v, want 4x3", name, img.Rect)
		}
		if got := img.NRGBAAt(2, 1); got != red {
			t.Errorf("%s: pixel = %v, want %v", name, got, red)
		}
	}
}

// uncompressedTGA returns a 24-bit true-color TGA filled with c.
func uncompressedTGA(w, h int, c color.NRGBA) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{
		0, 0, 2, // no id, no color map, true-color
		0, 0, 0, 0, 0, // color map spec
		0, 0, 0, 0, // origin
		byte(w), byte(w >> 8), byte(h), byte(h >> 8),
		24, 0x20, // bits per pixel, top-left origin
	})
	for i := 0; i < w*h; i++ {
		buf.Write([]byte{c.B, c.G, c.R})
	}
	return buf.Bytes()
}

func TestLoad_EveryFormat(t *testing.T) {
	dir := t.TempDir()
	green := color.NRGBA{G: 255, A: 255}

	tgaPath := filepath.Join(dir, "t.tga")
	if err := os.WriteFile(tgaPath, uncompressedTGA(4, 3, green), 0o644); err != nil {
		t.Fatal(err)
	}
	paths := []string{tgaPath}
	for _, name := range []string{"p.png", "b.bmp", "w.webp", "g.gif"} {
		path := filepath.Join(dir, name)
		writeImage(t, path, solid(4, 3, green))
		paths = append(paths, path)
	}

	for _, path := range paths {
		img, err := Load(path)
		if err != nil {
			t.Errorf("Load(%s) error = %v", filepath.Base(path), err)
			continue
		}
		if got := img.NRGBAAt(1, 1); got != green {
			t.Errorf("Load(%s) pixel = %v, want %v", filepath.Base(path), got, green)
		}
	}

	if _, err := Decode(bytes.NewReader(nil), ".xcf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Decode(.xcf) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoad_JPEGIsOpaque(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.jpg")
	writeImage(t, path, solid(8, 8, color.NRGBA{R: 10, G: 200, B: 30, A: 255}))

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if a := img.NRGBAAt(3, 3).A; a != 255 {
		t.Errorf("alpha = %d, want 255", a)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(txt); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.txt) error = %v, want ErrUnsupportedFormat", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load(corrupt) error = nil")
	}
}

func TestBuildIndex(t *testing.T) {
	dir := t.TempDir()
	img := solid(2, 2, color.NRGBA{A: 255})
	writeImage(t, filepath.Join(dir, "Wood.jpg"), img)
	writeImage(t, filepath.Join(dir, "sub", "wood.png"), img)
	writeImage(t, filepath.Join(dir, "sub", "deeper", "Stone.bmp"), img)
	if err := os.WriteFile(filepath.Join(dir, "readme.md"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (%v)", idx.Len(), idx.Names())
	}

	tests := []struct {
		name string
		want string
	}{
		{"wood", filepath.Join(dir, "sub", "wood.png")},
		{"textures\\WOOD.tga", filepath.Join(dir, "sub", "wood.png")},
		{"models/stone.jpg", filepath.Join(dir, "sub", "deeper", "Stone.bmp")},
	}
	for _, tt := range tests {
		got, ok := idx.ResolvePath(tt.name)
		if !ok || got != tt.want {
			t.Errorf("ResolvePath(%q) = %q, %v, want %q", tt.name, got, ok, tt.want)
		}
	}
	if _, ok := idx.ResolvePath("marble"); ok {
		t.Error("ResolvePath(marble) found a file")
	}

	if _, err := BuildIndex(filepath.Join(dir, "nope")); err == nil {
		t.Error("BuildIndex(missing dir) error = nil")
	}
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "green.png"), solid(2, 2, color.NRGBA{G: 255, A: 255}))
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCache(idx)

	first := c.Resolve("green")
	if first == nil {
		t.Fatal("Resolve(green) = nil")
	}
	if second := c.Resolve("GREEN.jpg"); second != first {
		t.Error("Resolve did not return the cached image")
	}
	if c.Resolve("broken") != nil || c.Resolve("unknown") != nil {
		t.Error("Resolve of a broken or unknown texture != nil")
	}

	s := c.Sampler("green", raster.ColorSampler(0xFF00FF))
	if got := s.Sample(0.5, 0.5); got != 0x00FF00 {
		t.Errorf("Sampler(green).Sample() = %#06x, want 0x00ff00", got)
	}
	fallback := c.Sampler("unknown", raster.ColorSampler(0xFF00FF))
	if got := fallback.Sample(0.5, 0.5); got != 0xFF00FF {
		t.Errorf("fallback Sample() = %#06x, want 0xff00ff", got)
	}
}

func TestCache_Preload(t *testing.T) {
	dir := t.TempDir()
	names := []string{"t0", "t1", "t2", "t3", "t4"}
	for _, n := range names {
		writeImage(t, filepath.Join(dir, n+".png"), solid(3, 3, color.NRGBA{B: 255, A: 255}))
	}
	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatal(err)
	}

	c := NewCache(idx)
	if err := c.Preload(context.Background(), idx.Names(), 2); err != nil {
		t.Fatalf("Preload() error = %v", err)
	}
	if c.Len() != len(names) {
		t.Errorf("Len() = %d, want %d", c.Len(), len(names))
	}

	if err := c.Preload(context.Background(), []string{"t0", "missing"}, 0); err == nil {
		t.Error("Preload() with a missing texture error = nil")
	}
}
