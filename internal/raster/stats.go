package raster

import (
	"fmt"
	"time"
)

// RenderStats counts the work of one frame. Vertices and Triangles are the
// submitted totals; Rendered, Clipped and Culled classify triangles, and
// Spans counts span rows registered in scanline buffers.
type RenderStats struct {
	Vertices  int
	Triangles int
	Rendered  int
	Clipped   int
	Culled    int
	Spans     int

	start time.Time
	stop  time.Time
}

// Start resets the counters and starts the timer.
func (s *RenderStats) Start() {
	*s = RenderStats{start: time.Now()}
}

// Stop stops the timer.
func (s *RenderStats) Stop() {
	s.stop = time.Now()
}

// Elapsed returns the time between Start and Stop.
func (s *RenderStats) Elapsed() time.Duration {
	if s.stop.Before(s.start) {
		return 0
	}
	return s.stop.Sub(s.start)
}

// Nanoseconds returns Elapsed in nanoseconds.
func (s *RenderStats) Nanoseconds() int64 {
	return s.Elapsed().Nanoseconds()
}

func (s *RenderStats) merge(p partitionStats) {
	s.Rendered += p.rendered
	s.Clipped += p.clipped
	s.Culled += p.culled
	s.Spans += p.spans
}

func (s RenderStats) String() string {
	return fmt.Sprintf("vertices=%d triangles=%d rendered=%d clipped=%d culled=%d spans=%d time=%s",
		s.Vertices, s.Triangles, s.Rendered, s.Clipped, s.Culled, s.Spans, s.Elapsed())
}
