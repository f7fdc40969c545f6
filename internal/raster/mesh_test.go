package raster

import (
	"errors"
	"testing"

	"parallax-renderer/internal/mathutil"
)

func TestNewMesh(t *testing.T) {
	vb := vertexBuffer(0, 0,
		[3]float32{-1, 0, 2},
		[3]float32{1, 3, 0},
		[3]float32{0, -2, 1},
	)

	tests := []struct {
		name    string
		vb      []float32
		ib      []int32
		wantErr error
	}{
		{"valid", vb, []int32{0, 1, 2}, nil},
		{"empty vertices", nil, []int32{0, 1, 2}, ErrInvalidVertexBuffer},
		{"ragged vertices", vb[:len(vb)-1], []int32{0, 1, 2}, ErrInvalidVertexBuffer},
		{"empty indices", vb, nil, ErrInvalidIndexBuffer},
		{"ragged indices", vb, []int32{0, 1}, ErrInvalidIndexBuffer},
		{"index too large", vb, []int32{0, 1, 3}, ErrIndexOutOfRange},
		{"negative index", vb, []int32{0, -1, 2}, ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMesh(tt.vb, tt.ib)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewMesh() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if m.VertexCount() != 3 || m.TriangleCount() != 1 {
				t.Errorf("counts = %d, %d, want 3, 1", m.VertexCount(), m.TriangleCount())
			}
			want := mathutil.AABB{Min: mathutil.Vec3{-1, -2, 0}, Max: mathutil.Vec3{1, 3, 2}}
			if m.Bounds != want {
				t.Errorf("Bounds = %+v, want %+v", m.Bounds, want)
			}
		})
	}
}
