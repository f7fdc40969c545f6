package raster

import "math"

// Gradient holds the screen-space rate of change of every interpolated
// attribute for one triangle plane. Because all attributes are divided by w
// beforehand, stepping them linearly and dividing by the interpolated 1/w
// yields perspective-correct values with one reciprocal per pixel.
type Gradient struct {
	DX [numAttrs]float64
	DY [numAttrs]float64
}

// Configure computes the gradients from three screen-space vertices. It
// returns false, leaving g unspecified, when the triangle has no area.
func (g *Gradient) Configure(a, b, c *Vertex) bool {
	acx := a.X - c.X
	bcx := b.X - c.X
	acy := a.Y - c.Y
	bcy := b.Y - c.Y

	area := bcx*acy - acx*bcy
	if area == 0 {
		return false
	}
	oneOverDX := 1 / area
	if math.IsInf(oneOverDX, 0) || math.IsNaN(oneOverDX) {
		return false
	}

	va, vb, vc := a.attrs(), b.attrs(), c.attrs()
	for k := range numAttrs {
		d0 := va[k] - vc[k]
		d1 := vb[k] - vc[k]
		g.DX[k] = oneOverDX * (d1*acy - d0*bcy)
		g.DY[k] = oneOverDX * (d0*bcx - d1*acx)
	}
	return true
}
