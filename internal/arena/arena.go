// Package arena provides allocation-free-in-steady-state containers for
// per-frame scratch data. Both types grow by doubling and are reset by
// setting a logical length to zero; memory is never released between frames.
package arena

import (
	"parallax-renderer/internal/logging"
)

const minCapacity = 16

// Vector is a growable array with an explicit logical length.
// The zero value is ready to use.
type Vector[T any] struct {
	items []T
	n     int
}

// NewVector returns a vector with the given initial capacity.
func NewVector[T any](capacity int) *Vector[T] {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return &Vector[T]{items: make([]T, capacity)}
}

// Add appends v and returns its index.
func (v *Vector[T]) Add(x T) int {
	if v.n == len(v.items) {
		v.grow()
	}
	v.items[v.n] = x
	v.n++
	return v.n - 1
}

func (v *Vector[T]) grow() {
	size := len(v.items) * 2
	if size < minCapacity {
		size = minCapacity
	}
	logging.Logger().Debug("arena: expanding vector", "from", len(v.items), "to", size)
	items := make([]T, size)
	copy(items, v.items)
	v.items = items
}

// At returns element i. i must be below Len.
func (v *Vector[T]) At(i int) T { return v.items[i] }

// Len returns the logical length.
func (v *Vector[T]) Len() int { return v.n }

// Cap returns the allocated capacity.
func (v *Vector[T]) Cap() int { return len(v.items) }

// Items returns the live elements. The slice aliases internal storage and is
// only valid until the next Add or Reset.
func (v *Vector[T]) Items() []T { return v.items[:v.n] }

// Reset sets the logical length to zero, keeping capacity.
func (v *Vector[T]) Reset() { v.n = 0 }

// Pool hands out pointers to pre-allocated values. Pointers stay valid across
// growth, because growth allocates a fresh block instead of moving old ones.
type Pool[T any] struct {
	items []*T
	n     int
}

// NewPool returns a pool with capacity pre-allocated values.
func NewPool[T any](capacity int) *Pool[T] {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	p := &Pool[T]{}
	p.allocate(capacity)
	return p
}

func (p *Pool[T]) allocate(count int) {
	block := make([]T, count)
	for i := range block {
		p.items = append(p.items, &block[i])
	}
}

// Next returns the next free value. Its contents are whatever the previous
// frame left there; callers overwrite every field they read.
func (p *Pool[T]) Next() *T {
	if p.n == len(p.items) {
		grow := len(p.items)
		if grow < minCapacity {
			grow = minCapacity
		}
		logging.Logger().Debug("arena: pooling new instances", "count", grow)
		p.allocate(grow)
	}
	x := p.items[p.n]
	p.n++
	return x
}

// Len returns the number of values handed out since the last Reset.
func (p *Pool[T]) Len() int { return p.n }

// Cap returns the number of allocated values.
func (p *Pool[T]) Cap() int { return len(p.items) }

// Reset makes every value available again.
func (p *Pool[T]) Reset() { p.n = 0 }
