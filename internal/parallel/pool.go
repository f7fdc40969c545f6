// Package parallel provides the fixed-size worker pool that drives both
// per-frame phases of the renderer. Every operation is synchronous fan-out /
// fan-in: it submits independent units of work and blocks until all of them
// have completed.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"

	"parallax-renderer/internal/logging"
)

// Pool is a fixed set of worker goroutines fed from a shared queue.
//
// Thread safety: Pool is safe for concurrent use. Work must not submit
// nested work to the same pool and wait for it.
type Pool struct {
	workers int
	tasks   chan func()

	// mu guards closed against concurrent submission during Close.
	mu     sync.RWMutex
	closed bool

	wg sync.WaitGroup
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), queueSize),
	}

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}

	logging.Logger().Debug("parallel: pool started", "workers", workers)
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for fn := range p.tasks {
		fn()
	}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// ExecuteAll runs every function and returns once all have finished.
// After Close the work runs on the calling goroutine instead, so a submitted
// frame always completes.
func (p *Pool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed || len(work) == 1 {
		for _, fn := range work {
			fn()
		}
		return
	}

	var done sync.WaitGroup
	done.Add(len(work))
	for _, fn := range work {
		p.tasks <- func() {
			defer done.Done()
			fn()
		}
	}
	done.Wait()
}

// Partition splits [0, total) into min(total, Workers()) contiguous ranges of
// near-equal size and calls fn(index, from, to) for each in parallel. index
// is the unit number in [0, Workers()), stable for a given total.
func (p *Pool) Partition(total int, fn func(index, from, to int)) {
	if total <= 0 {
		return
	}

	units := min(total, p.workers)
	size, rem := total/units, total%units

	work := make([]func(), units)
	from := 0
	for i := range units {
		n := size
		if i < rem {
			n++
		}
		index, lo, hi := i, from, from+n
		work[i] = func() { fn(index, lo, hi) }
		from = hi
	}

	p.ExecuteAll(work)
}

// ForEach calls fn(i) for every i in [0, total). Indices are handed out
// dynamically so uneven rows balance across workers.
func (p *Pool) ForEach(total int, fn func(i int)) {
	if total <= 0 {
		return
	}

	var next atomic.Int64
	units := min(total, p.workers)
	work := make([]func(), units)
	for i := range work {
		work[i] = func() {
			for {
				n := int(next.Add(1) - 1)
				if n >= total {
					return
				}
				fn(n)
			}
		}
	}

	p.ExecuteAll(work)
}

// Close stops the workers after queued work drains. Safe to call more than
// once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	logging.Logger().Debug("parallel: pool closed", "workers", p.workers)
}
