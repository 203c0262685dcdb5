package pool

import (
	"sync/atomic"

	"github.com/ajitpratap0/poolkit/pkg/lockfree"
)

// Pool is a bounded, goroutine-safe object recycler. Objects live in a
// lock-free store of fixed capacity; Get pops from the store and falls
// back to the allocator on a miss, and released objects travel back
// through reset and validation before being pushed. Returns beyond
// capacity are dropped silently, so the store never holds more than its
// capacity.
type Pool[T any] struct {
	alloc    Allocator[T]
	reset    func(T)
	validate func(T) bool
	storage  *lockfree.Queue[T]
	capacity int
	shared   atomic.Bool
	stats    counters
}

// New creates an empty pool with the given fixed capacity. A capacity of
// zero is legal and degenerates to always allocating fresh objects and
// never retaining them.
func New[T any](capacity int, alloc Allocator[T]) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	p := &Pool[T]{
		alloc:    alloc,
		capacity: capacity,
	}
	p.reset, p.validate = behaviors[T](alloc)
	if capacity > 0 {
		p.storage = lockfree.NewQueue[T](capacity)
	}
	return p
}

// NewPrefilled creates a pool whose store starts full: the allocator is
// invoked exactly capacity times and every object is pushed before the
// pool is returned.
func NewPrefilled[T any](capacity int, alloc Allocator[T]) *Pool[T] {
	p := New(capacity, alloc)
	for i := 0; i < p.capacity; i++ {
		p.stats.allocated.Add(1)
		p.storage.Push(alloc.Allocate())
	}
	return p
}

// Get borrows an object from the pool, allocating a fresh one when the
// store is empty. It never blocks and never fails. The returned guard
// must be released to put the object back in circulation:
//
//	g := p.Get()
//	defer g.Release()
//
// Get panics on a pool that has been converted with ToShared.
func (p *Pool[T]) Get() *Guard[T] {
	if p.shared.Load() {
		panic("pool: Get on a pool converted with ToShared; use SharedPool.Get")
	}
	return &Guard[T]{obj: p.take(), pool: p}
}

func (p *Pool[T]) take() T {
	p.stats.inUse.Add(1)
	if p.storage != nil {
		if obj, ok := p.storage.Pop(); ok {
			p.stats.hits.Add(1)
			return obj
		}
	}
	p.stats.misses.Add(1)
	p.stats.allocated.Add(1)
	return p.alloc.Allocate()
}

// put runs the return path: reset, then validation, then a push into the
// store. A failed validation or a full store drops the object.
func (p *Pool[T]) put(obj T) {
	p.stats.inUse.Add(-1)
	if p.reset != nil {
		p.reset(obj)
	}
	if p.validate != nil && !p.validate(obj) {
		p.stats.discarded.Add(1)
		return
	}
	if p.storage == nil || !p.storage.Push(obj) {
		p.stats.discarded.Add(1)
		return
	}
	p.stats.returned.Add(1)
}

// Len returns the number of objects currently in the store, ready to be
// recycled. Approximate under concurrent use.
func (p *Pool[T]) Len() int {
	if p.storage == nil {
		return 0
	}
	return p.storage.Len()
}

// Cap returns the maximum number of objects the store retains. It does
// not bound how many objects can be checked out at once.
func (p *Pool[T]) Cap() int {
	return p.capacity
}

// Empty reports whether the store holds no objects.
func (p *Pool[T]) Empty() bool {
	return p.Len() == 0
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool[T]) Stats() Stats {
	return p.stats.snapshot()
}

// Guard holds exclusive ownership of one borrowed object together with
// the pool that issued it. Guards are created only by Pool.Get, must not
// be copied, and are valid only while the issuing pool is.
type Guard[T any] struct {
	obj      T
	pool     *Pool[T]
	released bool
}

// Object returns the wrapped object. The object must not be used after
// Release or Detach.
func (g *Guard[T]) Object() T {
	return g.obj
}

// Release hands the object back through the pool's return path. Only the
// first call has an effect; the usual idiom is to defer it right after
// Get. A guard that is never released leaks its object out of the pool
// permanently.
func (g *Guard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	obj := g.obj
	var zero T
	g.obj = zero
	g.pool.put(obj)
}

// Detach removes the object from pool circulation and disables the
// return path. The caller assumes ownership; the pool never sees the
// object again. Detach panics on a guard that was already released.
func (g *Guard[T]) Detach() T {
	if g.released {
		panic("pool: Detach on a released guard")
	}
	g.released = true
	g.pool.stats.inUse.Add(-1)
	obj := g.obj
	var zero T
	g.obj = zero
	return obj
}
