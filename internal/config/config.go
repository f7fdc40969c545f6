package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"parallax-renderer/internal/logging"
	"parallax-renderer/internal/raster"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths, relative ones are resolved against BaseDir.
	BaseDir    string `json:"-"`
	TextureDir string `json:"texture_dir"`
	OutputDir  string `json:"output_dir"`

	// Render settings
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Supersample int    `json:"supersample"`
	Workers     int    `json:"workers"`
	Clip        *bool  `json:"clip"`
	Cull        string `json:"cull"`
	Scene       string `json:"scene"`

	// Output settings
	Frames  int  `json:"frames"`
	Animate bool `json:"animate"`
	FrameMS int  `json:"frame_ms"`

	LogLevel string `json:"log_level"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values. BaseDir is set to the
// directory holding the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.BaseDir = filepath.Dir(path)

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values leave the file setting alone.
type Flags struct {
	TextureDir  string
	OutputDir   string
	Width       int
	Height      int
	Supersample int
	Workers     int
	Frames      int
	Animate     bool
	NoClip      bool
	Cull        string
	Scene       string
	LogLevel    string
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Animate {
		c.Animate = true
	}
	if flags.NoClip {
		off := false
		c.Clip = &off
	}
	if flags.Cull != "" {
		c.Cull = flags.Cull
	}
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if c.BaseDir == "" {
		c.BaseDir, _ = os.Getwd()
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	c.OutputDir = c.abs(c.OutputDir)
	if c.TextureDir != "" {
		c.TextureDir = c.abs(c.TextureDir)
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
	if c.FrameMS <= 0 {
		c.FrameMS = 80
	}
	if c.Clip == nil {
		on := true
		c.Clip = &on
	}
	if c.Cull == "" {
		c.Cull = "back"
	}
	if c.Scene == "" {
		c.Scene = "demo"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) abs(path string) string {
	if filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// Validate reports settings that Resolve cannot repair.
func (c *Config) Validate() error {
	var errs []error
	if c.Supersample > 8 {
		errs = append(errs, fmt.Errorf("supersample %d exceeds 8", c.Supersample))
	}
	if _, err := raster.ParseCullMode(c.Cull); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// CullMode returns the parsed cull mode, CullBack for invalid values.
func (c *Config) CullMode() raster.CullMode {
	m, _ := raster.ParseCullMode(c.Cull)
	return m
}

// ClipEnabled reports whether homogeneous clipping is on.
func (c *Config) ClipEnabled() bool {
	return c.Clip == nil || *c.Clip
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	return logging.ParseLevel(c.LogLevel)
}

// FrameDelay returns the display time of one animation frame.
func (c *Config) FrameDelay() time.Duration {
	return time.Duration(c.FrameMS) * time.Millisecond
}
