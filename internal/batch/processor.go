package batch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"parallax-renderer/internal/logging"
	"parallax-renderer/internal/raster"
)

// AnimationFile is the name of the animated WebP written when Config.Animate
// is set.
const AnimationFile = "turntable.webp"

// Config holds the settings of one batch run.
type Config struct {
	OutputDir  string
	Frames     int
	Workers    int // encoder goroutines
	Animate    bool
	FrameDelay time.Duration

	// Progress is called from the progress reporter every couple of
	// seconds. nil disables reporting.
	Progress func(done, total int, rate float64)
}

// Result holds the outcome of one frame.
type Result struct {
	Frame   int
	Image   string // path relative to OutputDir
	Success bool
	Error   string
	Stats   raster.RenderStats
}

// Run renders cfg.Frames frames with r and encodes them as WebP.
// Frames are rendered one after the other since r owns a single device;
// encoding overlaps with rendering on a pool of cfg.Workers goroutines.
// The returned error covers setup and the animation; per-frame failures are
// reported in the results.
func Run(ctx context.Context, cfg Config, r Renderer) ([]Result, error) {
	total := cfg.Frames
	if total < 1 {
		total = 1
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("batch: create %s: %w", cfg.OutputDir, err)
	}

	results := make([]Result, total)
	var images []image.Image
	if cfg.Animate {
		images = make([]image.Image, total)
	}
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						cfg.Progress(int(p), total, float64(p)/elapsed)
					}
				}
			}
		}()
	}

	// Encoder pool
	frameChan := make(chan Frame, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range frameChan {
				res := &results[f.Index]
				res.Image, res.Error = encodeFrame(cfg.OutputDir, f)
				res.Success = res.Error == ""
				processed.Add(1)
			}
		}()
	}

	// Render
	for i := 0; i < total; i++ {
		results[i].Frame = i
		if err := ctx.Err(); err != nil {
			results[i].Error = err.Error()
			continue
		}

		f, err := r.Render(i, total)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		f.Index = i
		results[i].Stats = f.Stats
		logging.Logger().Debug("batch: frame rendered", "frame", i, "stats", f.Stats.String())

		if images != nil {
			images[i] = f.Image
		}
		frameChan <- f
	}
	close(frameChan)

	wg.Wait()
	close(done)

	if cfg.Animate {
		if err := writeAnimation(filepath.Join(cfg.OutputDir, AnimationFile), images, cfg.FrameDelay); err != nil {
			return results, err
		}
	}
	return results, nil
}

// FrameName returns the file name of frame index.
func FrameName(index int) string {
	return fmt.Sprintf("frame_%04d.webp", index)
}

func encodeFrame(dir string, f Frame) (name, errMsg string) {
	name = FrameName(f.Index)
	if f.Image == nil {
		return name, "no image"
	}

	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, f.Image, nil); err != nil {
		return name, fmt.Sprintf("WebP encode: %v", err)
	}
	// WriteFile includes the Close error.
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644); err != nil {
		return name, err.Error()
	}
	return name, ""
}

// writeAnimation encodes the successfully rendered frames as one looping
// animated WebP.
func writeAnimation(path string, images []image.Image, delay time.Duration) error {
	ms := uint(delay.Milliseconds())
	if ms == 0 {
		ms = 80
	}

	ani := &nativewebp.Animation{}
	for _, img := range images {
		if img == nil {
			continue
		}
		ani.Images = append(ani.Images, img)
		ani.Durations = append(ani.Durations, ms)
		ani.Disposals = append(ani.Disposals, 0)
	}
	if len(ani.Images) == 0 {
		return fmt.Errorf("batch: animation %s: no frames rendered", path)
	}

	var buf bytes.Buffer
	if err := nativewebp.EncodeAll(&buf, ani, nil); err != nil {
		return fmt.Errorf("batch: animation %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("batch: animation %s: %w", path, err)
	}
	return nil
}
