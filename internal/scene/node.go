// Package scene organises meshes in a transform hierarchy and draws the
// visible part of it through a raster.Device.
package scene

import (
	"slices"

	"parallax-renderer/internal/mathutil"
	"parallax-renderer/internal/raster"
)

// Node is one element of the hierarchy. A node without a mesh only groups
// and transforms its children.
type Node struct {
	Name     string
	Local    mathutil.Mat4
	Mesh     *raster.Mesh
	Material *raster.Material

	parent   *Node
	children []*Node
	world    mathutil.Mat4
	bounds   mathutil.AABB
}

// NewNode returns a node with an identity local transform. mesh and material
// may be nil.
func NewNode(name string, mesh *raster.Mesh, material *raster.Material) *Node {
	return &Node{
		Name:     name,
		Local:    mathutil.Mat4Identity(),
		Mesh:     mesh,
		Material: material,
		world:    mathutil.Mat4Identity(),
		bounds:   mathutil.EmptyAABB(),
	}
}

// Add attaches children to n, detaching them from any previous parent.
// Adding n to itself or to one of its descendants is ignored.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c.parent == n || c.isAncestorOf(n) {
			continue
		}
		c.Detach()
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Detach removes n from its parent.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

func (n *Node) isAncestorOf(o *Node) bool {
	for p := o; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Parent returns the parent node or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the attached children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// World returns the world transform computed by the last Graph.Update.
func (n *Node) World() mathutil.Mat4 { return n.world }

// WorldBounds returns the world-space box around n and its descendants as
// of the last Graph.Update.
func (n *Node) WorldBounds() mathutil.AABB { return n.bounds }

func (n *Node) updateTransform(parent mathutil.Mat4) {
	n.world = mathutil.Mat4Mul(parent, n.Local)
	for _, c := range n.children {
		c.updateTransform(n.world)
	}
}

func (n *Node) updateBounds() {
	b := mathutil.EmptyAABB()
	if n.Mesh != nil {
		b = n.Mesh.Bounds.Transform(n.world)
	}
	for _, c := range n.children {
		c.updateBounds()
		cb := c.bounds
		if !cb.IsEmpty() {
			b = b.Add(cb.Min).Add(cb.Max)
		}
	}
	n.bounds = b
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}
