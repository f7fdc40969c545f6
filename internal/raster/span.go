package raster

import "parallax-renderer/internal/mathutil"

// Span is the portion of a triangle between a left and a right edge over a
// range of rows. It snapshots both edges at the time it was created so
// evaluating any row is a pure function of the row index, which lets the
// depth and color passes run independently and in any order.
type Span struct {
	Material *Material

	LeftY      int
	LeftX      float64
	LeftXStep  float64
	RightY     int
	RightX     float64
	RightXStep float64

	// Attributes on the left edge at LeftY, their per-row step along it,
	// and their per-pixel step along a row.
	Attr [numAttrs]float64
	Step [numAttrs]float64
	DX   [numAttrs]float64
}

func (s *Span) configure(m *Material, g *Gradient, left, right *EdgeWalker) {
	s.Material = m
	s.LeftY = left.Y1
	s.LeftX = left.X
	s.LeftXStep = left.XStep
	s.RightY = right.Y1
	s.RightX = right.X
	s.RightXStep = right.XStep
	s.Attr = left.Attr
	s.Step = left.Step
	s.DX = g.DX
}

// LeftXAt returns the left edge x on row y.
func (s *Span) LeftXAt(y int) float64 {
	return s.LeftX + float64(s.LeftXStep*float64(y-s.LeftY))
}

// RightXAt returns the right edge x on row y.
func (s *Span) RightXAt(y int) float64 {
	return s.RightX + float64(s.RightXStep*float64(y-s.RightY))
}

// Columns returns the half-open pixel range [x1, x2) covered on row y,
// clamped to [0, width). x1 >= x2 means nothing is covered.
func (s *Span) Columns(y, width int) (x1, x2 int) {
	x1 = max(0, mathutil.CeilInt(s.LeftXAt(y)))
	x2 = min(width, mathutil.CeilInt(s.RightXAt(y)))
	return x1, x2
}

// start returns attribute k at pixel x1 of row y. Both raster passes go
// through here so they compute bit-identical depths.
func (s *Span) start(k, y, x1 int) float64 {
	delta := float64(y - s.LeftY)
	preStep := float64(x1) - s.LeftXAt(y)
	return s.Attr[k] + float64(s.Step[k]*delta) + float64(s.DX[k]*preStep)
}
