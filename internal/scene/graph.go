package scene

import (
	"parallax-renderer/internal/logging"
	"parallax-renderer/internal/mathutil"
	"parallax-renderer/internal/raster"
)

// Graph owns a node hierarchy.
type Graph struct {
	Root *Node
}

// NewGraph returns a graph with an empty root.
func NewGraph() *Graph {
	return &Graph{Root: NewNode("root", nil, nil)}
}

// Update recomputes world transforms top-down and world bounds bottom-up.
// Call it after changing any Local transform or the hierarchy.
func (g *Graph) Update() {
	g.Root.updateTransform(mathutil.Mat4Identity())
	g.Root.updateBounds()
}

// Report counts what Render did with the nodes that carry a mesh.
type Report struct {
	Drawn   int // drawn without clipping
	Clipped int // crossing the frustum, drawn with clipping
	Skipped int // outside the frustum
}

// Render draws every visible mesh through d. The caller clears d first.
// Subtrees whose bounds are outside the camera frustum are skipped; nodes
// crossing it are drawn with clipping enabled, fully visible ones without.
// When d.Clip is false on entry nothing is clipped. d.Clip is restored on
// return.
func (g *Graph) Render(d *raster.Device, cam *Camera) Report {
	allowClip := d.Clip
	defer func() { d.Clip = allowClip }()

	frustum := cam.Frustum()
	d.View = frustum.View
	d.Projection = frustum.Projection

	var report Report
	d.Begin()
	g.Root.Walk(func(n *Node) bool {
		containment := frustum.Evaluate(n.bounds)
		if containment == mathutil.Outside {
			n.Walk(func(c *Node) bool {
				if c.Mesh != nil {
					report.Skipped++
				}
				return true
			})
			return false
		}
		if n.Mesh == nil {
			return true
		}

		d.Clip = allowClip && containment == mathutil.Partial
		if d.Clip {
			report.Clipped++
		} else {
			report.Drawn++
		}
		d.World = n.world
		d.SetMaterial(n.Material)
		d.DrawMesh(n.Mesh)
		return true
	})
	d.End()

	logging.Logger().Debug("scene: rendered",
		"drawn", report.Drawn, "clipped", report.Clipped, "skipped", report.Skipped)
	return report
}
