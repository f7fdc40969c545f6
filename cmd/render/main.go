package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"parallax-renderer/internal/batch"
	"parallax-renderer/internal/config"
	"parallax-renderer/internal/logging"
	"parallax-renderer/internal/parallel"
	"parallax-renderer/internal/scene"
	"parallax-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	width := flag.Int("width", 0, "Output width in pixels (default: 640)")
	height := flag.Int("height", 0, "Output height in pixels (default: 480)")
	supersample := flag.Int("ss", 0, "Supersample factor (default: 1)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	frames := flag.Int("frames", 0, "Number of turntable frames (default: 1)")
	animate := flag.Bool("animate", false, "Also write an animated WebP of all frames")
	noClip := flag.Bool("noclip", false, "Disable homogeneous clipping")
	cull := flag.String("cull", "", "Face culling: back, front or none (default: back)")
	sceneName := flag.String("scene", "", "Scene to render: "+strings.Join(scene.Names(), ", "))
	textureDir := flag.String("textures", "", "Directory of scene textures")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		TextureDir:  *textureDir,
		OutputDir:   *outputDir,
		Width:       *width,
		Height:      *height,
		Supersample: *supersample,
		Workers:     *workers,
		Frames:      *frames,
		Animate:     *animate,
		NoClip:      *noClip,
		Cull:        *cull,
		Scene:       *sceneName,
		LogLevel:    *logLevel,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Textures are optional; scenes fall back to procedural materials.
	var source scene.SamplerSource
	if cfg.TextureDir != "" {
		texIndex, err := texture.BuildIndex(cfg.TextureDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: texture index: %v\n", err)
		} else {
			texCache := texture.NewCache(texIndex)
			var names []string
			for _, name := range scene.Textures {
				if _, ok := texIndex.ResolvePath(name); ok {
					names = append(names, name)
				}
			}
			if err := texCache.Preload(ctx, names, cfg.Workers); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: texture preload: %v\n", err)
			}
			fmt.Printf("Textures: %d indexed, %d loaded\n", texIndex.Len(), texCache.Len())
			source = texCache
		}
	}

	graph, err := scene.Build(cfg.Scene, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	pool := parallel.NewPool(cfg.Workers)
	defer pool.Close()

	turntable, err := batch.NewTurntable(graph, cfg.Width, cfg.Height, cfg.Supersample, pool)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	turntable.Device().Clip = cfg.ClipEnabled()
	turntable.Device().CullMode = cfg.CullMode()

	// Print summary
	mode := ""
	if cfg.Animate {
		mode = " (animated)"
	}
	fmt.Printf("Parallax software rasterizer → WebP%s\n", mode)
	fmt.Printf("Scene: %s, Frames: %d, Size: %dx%d (x%d), Workers: %d\n",
		cfg.Scene, cfg.Frames, cfg.Width, cfg.Height, cfg.Supersample, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:  cfg.OutputDir,
		Frames:     cfg.Frames,
		Workers:    cfg.Workers,
		Animate:    cfg.Animate,
		FrameDelay: cfg.FrameDelay(),
		Progress: func(done, total int, rate float64) {
			fmt.Printf("  [%d/%d] %.1f frames/sec\n", done, total, rate)
		},
	}

	results, runErr := batch.Run(ctx, batchCfg, turntable)
	if runErr != nil && results == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	var triangles, rendered int
	for _, r := range results {
		if r.Success {
			success++
			triangles += r.Stats.Triangles
			rendered += r.Stats.Rendered
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d frames, %d/%d triangles drawn\n", success, len(results), rendered, triangles)

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(20, len(errors))
		for _, e := range errors[:limit] {
			fmt.Printf("  frame %d: %s\n", e.Frame, e.Error)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", runErr)
	} else if cfg.Animate {
		fmt.Printf("Animation: %s\n", filepath.Join(cfg.OutputDir, batch.AnimationFile))
	}

	// Write manifest
	manifest := batch.NewManifest(cfg.Width, cfg.Height, results)
	if cfg.Animate && runErr == nil {
		manifest.Animation = batch.AnimationFile
	}
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		logging.Logger().Warn("manifest write failed", "path", manifestPath, "err", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 || runErr != nil {
		os.Exit(1)
	}
}
