package raster

import (
	"parallax-renderer/internal/arena"
)

// ScanlineBuffer collects the spans produced by one draw partition, bucketed
// by row. It is written by exactly one worker during the draw phase and only
// read during the raster phase.
type ScanlineBuffer struct {
	width  int
	height int
	spans  *arena.Pool[Span]
	rows   []arena.Vector[*Span]
	stats  partitionStats
}

// partitionStats are the per-partition render counters, summed by the device
// when the frame ends.
type partitionStats struct {
	rendered int
	clipped  int
	culled   int
	spans    int
}

func (p *partitionStats) add(o partitionStats) {
	p.rendered += o.rendered
	p.clipped += o.clipped
	p.culled += o.culled
	p.spans += o.spans
}

// NewScanlineBuffer creates a buffer for a width×height target.
func NewScanlineBuffer(width, height int) *ScanlineBuffer {
	return &ScanlineBuffer{
		width:  width,
		height: height,
		spans:  arena.NewPool[Span](height * 2),
		rows:   make([]arena.Vector[*Span], height),
	}
}

// Height returns the number of rows.
func (b *ScanlineBuffer) Height() int { return b.height }

// Row returns the spans registered on row y in insertion order.
func (b *ScanlineBuffer) Row(y int) []*Span {
	return b.rows[y].Items()
}

// Add snapshots left and right into a new span and registers it on every row
// of the leader's range where it covers at least one pixel. It returns the
// number of rows the span was registered on.
func (b *ScanlineBuffer) Add(m *Material, g *Gradient, left, right, leader *EdgeWalker) int {
	s := b.spans.Next()
	s.configure(m, g, left, right)

	rows := 0
	end := min(b.height, leader.Y2)
	for y := leader.Y1; y < end; y++ {
		x1, x2 := s.Columns(y, b.width)
		if x1 < b.width && x2 > x1 {
			b.rows[y].Add(s)
			rows++
		}
	}
	b.stats.spans += rows
	return rows
}

// Reset drops all spans and counters, keeping the allocated storage.
func (b *ScanlineBuffer) Reset() {
	b.spans.Reset()
	for y := range b.rows {
		b.rows[y].Reset()
	}
	b.stats = partitionStats{}
}
