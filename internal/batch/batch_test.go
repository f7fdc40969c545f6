package batch

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"

	"parallax-renderer/internal/parallel"
	"parallax-renderer/internal/scene"
)

// solidRenderer renders frame i as a flat gray of value 40*i.
type solidRenderer struct {
	fail int
}

func (r solidRenderer) Render(index, total int) (Frame, error) {
	if index == r.fail {
		return Frame{}, errors.New("boom")
	}
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	v := uint8(40 * index)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 0xFF
	}
	return Frame{Image: img}, nil
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{OutputDir: dir, Frames: 4, Workers: 2, Animate: true}

	results, err := Run(context.Background(), cfg, solidRenderer{fail: -1})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("len(results) = %d, want 4", len(results))
	}
	for i, r := range results {
		if !r.Success || r.Frame != i || r.Image != FrameName(i) {
			t.Errorf("results[%d] = %+v", i, r)
		}
	}

	f, err := os.Open(filepath.Join(dir, FrameName(2)))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := nativewebp.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := color.NRGBAModel.Convert(img.At(3, 3)).(color.NRGBA); got != (color.NRGBA{R: 80, G: 80, B: 80, A: 0xFF}) {
		t.Errorf("frame 2 pixel = %v, want gray 80", got)
	}

	if fi, err := os.Stat(filepath.Join(dir, AnimationFile)); err != nil || fi.Size() == 0 {
		t.Errorf("animation missing: %v", err)
	}
}

func TestRun_FrameError(t *testing.T) {
	dir := t.TempDir()
	results, err := Run(context.Background(), Config{OutputDir: dir, Frames: 3, Workers: 1}, solidRenderer{fail: 1})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[1].Success || results[1].Error != "boom" {
		t.Errorf("results[1] = %+v, want failure", results[1])
	}
	if !results[0].Success || !results[2].Success {
		t.Errorf("neighbours failed: %+v %+v", results[0], results[2])
	}
	if _, err := os.Stat(filepath.Join(dir, FrameName(1))); !os.IsNotExist(err) {
		t.Errorf("failed frame written: %v", err)
	}
}

func TestRun_WriteError(t *testing.T) {
	dir := t.TempDir()
	// A directory in the way makes writing frame 1 fail.
	if err := os.Mkdir(filepath.Join(dir, FrameName(1)), 0o755); err != nil {
		t.Fatal(err)
	}

	results, err := Run(context.Background(), Config{OutputDir: dir, Frames: 2, Workers: 2}, solidRenderer{fail: -1})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[1].Success || results[1].Error == "" {
		t.Errorf("results[1] = %+v, want write failure", results[1])
	}
	if !results[0].Success {
		t.Errorf("results[0] = %+v, want success", results[0])
	}

	if err := WriteManifest(filepath.Join(dir, FrameName(1)), NewManifest(8, 6, results)); err == nil {
		t.Error("WriteManifest() onto a directory should fail")
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Run(ctx, Config{OutputDir: t.TempDir(), Frames: 2, Animate: true}, solidRenderer{fail: -1})
	if err == nil {
		t.Error("Run() with no frames rendered should fail to write the animation")
	}
	for _, r := range results {
		if r.Success {
			t.Errorf("frame %d succeeded after cancel", r.Frame)
		}
	}
}

func TestManifest(t *testing.T) {
	results := []Result{
		{Frame: 0, Image: FrameName(0), Success: true},
		{Frame: 1, Error: "boom"},
	}
	results[0].Stats.Triangles = 12

	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteManifest(path, NewManifest(8, 6, results)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.Width != 8 || len(m.Frames) != 1 || m.Frames[0].Triangles != 12 || m.Frames[0].Image != "frame_0000.webp" {
		t.Errorf("manifest = %+v", m)
	}
}

func TestTurntable(t *testing.T) {
	pool := parallel.NewPool(2)
	defer pool.Close()

	g, err := scene.Build("demo", nil)
	if err != nil {
		t.Fatal(err)
	}
	tt, err := NewTurntable(g, 32, 24, 2, pool)
	if err != nil {
		t.Fatalf("NewTurntable() error = %v", err)
	}
	if tt.Device().Width() != 64 || tt.Device().Height() != 48 {
		t.Errorf("device = %dx%d, want 64x48", tt.Device().Width(), tt.Device().Height())
	}

	f, err := tt.Render(1, 8)
	if err != nil {
		t.Fatal(err)
	}
	if b := f.Image.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("image = %v, want 32x24", b)
	}
	if f.Stats.Rendered == 0 {
		t.Errorf("stats = %v, nothing rendered", f.Stats)
	}

	if _, err := NewTurntable(nil, 8, 8, 1, pool); err == nil {
		t.Error("NewTurntable(nil) should fail")
	}
	if _, err := NewTurntable(g, 0, 8, 1, pool); err == nil {
		t.Error("NewTurntable(0x8) should fail")
	}
}
