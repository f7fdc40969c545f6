package raster

import "parallax-renderer/internal/mathutil"

// EdgeWalker steps one triangle edge a scanline at a time. Y1 is the first
// sampled row (never negative) and Y2 the row after the last. X and Attr hold
// the values on row Y1; XStep and Step are the per-row increments along the
// edge.
type EdgeWalker struct {
	Y1, Y2 int
	X      float64
	XStep  float64
	Attr   [numAttrs]float64
	Step   [numAttrs]float64
}

// Configure prepares the walker for the edge from top to bottom and returns
// the number of rows it covers. Nothing else is valid when it returns <= 0.
func (e *EdgeWalker) Configure(g *Gradient, top, bottom *Vertex) int {
	e.Y1 = max(0, mathutil.CeilInt(top.Y))
	height := mathutil.CeilInt(bottom.Y) - e.Y1
	e.Y2 = e.Y1 + height
	if height <= 0 {
		return height
	}

	// Pre-step to the first row centre, then step the attributes by the
	// resulting sub-pixel x offset so they agree with X exactly.
	yPreStep := float64(e.Y1) - top.Y
	e.XStep = (bottom.X - top.X) / (bottom.Y - top.Y)
	e.X = top.X + yPreStep*e.XStep
	xPreStep := e.X - top.X

	va := top.attrs()
	for k := range numAttrs {
		e.Attr[k] = va[k] + xPreStep*g.DX[k] + yPreStep*g.DY[k]
		e.Step[k] = e.XStep*g.DX[k] + g.DY[k]
	}
	return height
}
