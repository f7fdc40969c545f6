package raster

import (
	"errors"
	"fmt"

	"parallax-renderer/internal/mathutil"
)

var (
	// ErrInvalidVertexBuffer is returned when a vertex buffer is empty or
	// not a multiple of VertexStride.
	ErrInvalidVertexBuffer = errors.New("raster: invalid vertex buffer")
	// ErrInvalidIndexBuffer is returned when an index buffer is empty or
	// not a multiple of 3.
	ErrInvalidIndexBuffer = errors.New("raster: invalid index buffer")
	// ErrIndexOutOfRange is returned when an index does not address a vertex.
	ErrIndexOutOfRange = errors.New("raster: index out of range")
)

// Mesh is a validated indexed triangle list. Vertices are interleaved with
// VertexStride floats each; every three indices form one triangle.
type Mesh struct {
	Vertices []float32
	Indices  []int32
	Bounds   mathutil.AABB
}

// NewMesh validates the buffers and computes the local bounding box.
func NewMesh(vertices []float32, indices []int32) (*Mesh, error) {
	if len(vertices) == 0 || len(vertices)%VertexStride != 0 {
		return nil, fmt.Errorf("%w: %d floats", ErrInvalidVertexBuffer, len(vertices))
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrInvalidIndexBuffer, len(indices))
	}
	count := int32(len(vertices) / VertexStride)
	for i, idx := range indices {
		if idx < 0 || idx >= count {
			return nil, fmt.Errorf("%w: index %d at %d, %d vertices", ErrIndexOutOfRange, idx, i, count)
		}
	}

	bounds := mathutil.EmptyAABB()
	for i := 0; i < len(vertices); i += VertexStride {
		bounds = bounds.Add(mathutil.Vec3{float64(vertices[i]), float64(vertices[i+1]), float64(vertices[i+2])})
	}
	return &Mesh{Vertices: vertices, Indices: indices, Bounds: bounds}, nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / VertexStride }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }
