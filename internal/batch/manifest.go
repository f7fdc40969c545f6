package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Frame     int     `json:"frame"`
	Image     string  `json:"image"`
	Triangles int     `json:"triangles"`
	Rendered  int     `json:"rendered"`
	Clipped   int     `json:"clipped"`
	Culled    int     `json:"culled"`
	Spans     int     `json:"spans"`
	RenderMS  float64 `json:"render_ms"`
}

// Manifest describes the output of one batch run.
type Manifest struct {
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Animation string          `json:"animation,omitempty"`
	Frames    []ManifestEntry `json:"frames"`
}

// NewManifest lists the successful results.
func NewManifest(width, height int, results []Result) Manifest {
	m := Manifest{Width: width, Height: height, Frames: []ManifestEntry{}}
	for _, r := range results {
		if !r.Success {
			continue
		}
		m.Frames = append(m.Frames, ManifestEntry{
			Frame:     r.Frame,
			Image:     r.Image,
			Triangles: r.Stats.Triangles,
			Rendered:  r.Stats.Rendered,
			Clipped:   r.Stats.Clipped,
			Culled:    r.Stats.Culled,
			Spans:     r.Stats.Spans,
			RenderMS:  float64(r.Stats.Nanoseconds()) / 1e6,
		})
	}
	return m
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: manifest %s: %w", path, err)
	}
	return nil
}
