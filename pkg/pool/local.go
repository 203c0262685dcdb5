package pool

import (
	"github.com/eapache/queue"
)

// LocalPool is a single-goroutine object recycler backed by a growable
// FIFO store. It trades the lock-free store's synchronization for plain
// field access and therefore must only ever be touched from the goroutine
// that created it. Go cannot express that restriction in the type system;
// it is a documented contract, not a runtime check, and sharing a
// LocalPool across goroutines is unsupported.
//
// The capacity passed at construction is a retention hint rather than a
// hard bound: the store grows freely while objects are checked out, and
// the hint only caps how many returned objects are kept for reuse.
type LocalPool[T any] struct {
	alloc    Allocator[T]
	reset    func(T)
	validate func(T) bool
	storage  *queue.Queue
	capacity int
	shared   bool
	stats    counters
}

// NewLocal creates an empty local pool. A capacity hint of zero retains
// nothing: every release discards and every Get allocates.
func NewLocal[T any](capacity int, alloc Allocator[T]) *LocalPool[T] {
	if capacity < 0 {
		capacity = 0
	}
	l := &LocalPool[T]{
		alloc:    alloc,
		storage:  queue.New(),
		capacity: capacity,
	}
	l.reset, l.validate = behaviors[T](alloc)
	return l
}

// NewLocalPrefilled creates a local pool whose store starts at its
// retention hint: the allocator is invoked exactly capacity times.
func NewLocalPrefilled[T any](capacity int, alloc Allocator[T]) *LocalPool[T] {
	l := NewLocal(capacity, alloc)
	for i := 0; i < l.capacity; i++ {
		l.stats.allocated.Add(1)
		l.storage.Add(alloc.Allocate())
	}
	return l
}

// Get borrows an object from the pool, allocating a fresh one when the
// store is empty. Get panics on a pool that has been converted with
// ToShared.
func (l *LocalPool[T]) Get() *LocalGuard[T] {
	if l.shared {
		panic("pool: Get on a local pool converted with ToShared; use SharedLocalPool.Get")
	}
	return &LocalGuard[T]{obj: l.take(), pool: l}
}

// TryGet borrows an object only if the store has one; it never allocates.
// The second return is false when the store is empty.
func (l *LocalPool[T]) TryGet() (*LocalGuard[T], bool) {
	if l.shared {
		panic("pool: TryGet on a local pool converted with ToShared; use SharedLocalPool.TryGet")
	}
	obj, ok := l.tryTake()
	if !ok {
		return nil, false
	}
	return &LocalGuard[T]{obj: obj, pool: l}, true
}

func (l *LocalPool[T]) take() T {
	if obj, ok := l.tryTake(); ok {
		return obj
	}
	l.stats.inUse.Add(1)
	l.stats.misses.Add(1)
	l.stats.allocated.Add(1)
	return l.alloc.Allocate()
}

func (l *LocalPool[T]) tryTake() (T, bool) {
	if l.storage.Length() == 0 {
		var zero T
		return zero, false
	}
	obj := l.storage.Remove().(T)
	l.stats.inUse.Add(1)
	l.stats.hits.Add(1)
	return obj, true
}

// put runs the return path. The store itself can always grow, so the
// only drops here are failed validation and returns beyond the retention
// hint.
func (l *LocalPool[T]) put(obj T) {
	l.stats.inUse.Add(-1)
	if l.reset != nil {
		l.reset(obj)
	}
	if l.validate != nil && !l.validate(obj) {
		l.stats.discarded.Add(1)
		return
	}
	if l.storage.Length() >= l.capacity {
		l.stats.discarded.Add(1)
		return
	}
	l.storage.Add(obj)
	l.stats.returned.Add(1)
}

// Len returns the number of objects currently in the store.
func (l *LocalPool[T]) Len() int {
	return l.storage.Length()
}

// Cap returns the retention hint the pool was created with.
func (l *LocalPool[T]) Cap() int {
	return l.capacity
}

// Empty reports whether the store holds no objects.
func (l *LocalPool[T]) Empty() bool {
	return l.storage.Length() == 0
}

// Stats returns a snapshot of the pool's counters.
func (l *LocalPool[T]) Stats() Stats {
	return l.stats.snapshot()
}

// SharedLocalPool is the shared-handle form of a LocalPool. Its guards
// carry the handle itself, letting the borrowed object leave the scope
// that created the pool while still finding its way back to the same
// store. The pool remains confined to its creating goroutine; only the
// object moves.
type SharedLocalPool[T any] struct {
	pool *LocalPool[T]
}

// ToShared converts the local pool into its shared-handle form. Like
// Pool.ToShared this is one-way and consuming: the plain Get and TryGet
// panic afterwards.
func (l *LocalPool[T]) ToShared() *SharedLocalPool[T] {
	if l.shared {
		panic("pool: ToShared called twice")
	}
	l.shared = true
	return &SharedLocalPool[T]{pool: l}
}

// Get borrows an object from the pool, allocating a fresh one when the
// store is empty.
func (s *SharedLocalPool[T]) Get() *LocalSharedGuard[T] {
	return &LocalSharedGuard[T]{obj: s.pool.take(), pool: s}
}

// TryGet borrows an object only if the store has one; it never
// allocates.
func (s *SharedLocalPool[T]) TryGet() (*LocalSharedGuard[T], bool) {
	obj, ok := s.pool.tryTake()
	if !ok {
		return nil, false
	}
	return &LocalSharedGuard[T]{obj: obj, pool: s}, true
}

// Len returns the number of objects currently in the store.
func (s *SharedLocalPool[T]) Len() int {
	return s.pool.Len()
}

// Cap returns the retention hint the pool was created with.
func (s *SharedLocalPool[T]) Cap() int {
	return s.pool.Cap()
}

// Empty reports whether the store holds no objects.
func (s *SharedLocalPool[T]) Empty() bool {
	return s.pool.Empty()
}

// Stats returns a snapshot of the pool's counters.
func (s *SharedLocalPool[T]) Stats() Stats {
	return s.pool.Stats()
}

// LocalGuard holds exclusive ownership of one object borrowed from a
// LocalPool. It is subject to the pool's confinement contract and must
// not be copied.
type LocalGuard[T any] struct {
	obj      T
	pool     *LocalPool[T]
	released bool
}

// Object returns the wrapped object. The object must not be used after
// Release or Detach.
func (g *LocalGuard[T]) Object() T {
	return g.obj
}

// Release hands the object back through the pool's return path. Only the
// first call has an effect.
func (g *LocalGuard[T]) Release() {
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
// return path. Panics on a guard that was already released.
func (g *LocalGuard[T]) Detach() T {
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

// LocalSharedGuard holds exclusive ownership of one object borrowed from
// a SharedLocalPool. The object may be moved out of the creating scope,
// but release must still happen on the pool's goroutine. It must not be
// copied.
type LocalSharedGuard[T any] struct {
	obj      T
	pool     *SharedLocalPool[T]
	released bool
}

// Object returns the wrapped object. The object must not be used after
// Release or Detach.
func (g *LocalSharedGuard[T]) Object() T {
	return g.obj
}

// Release hands the object back through the pool's return path. Only the
// first call has an effect.
func (g *LocalSharedGuard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	obj := g.obj
	var zero T
	g.obj = zero
	g.pool.pool.put(obj)
}

// Detach removes the object from pool circulation and disables the
// return path. Panics on a guard that was already released.
func (g *LocalSharedGuard[T]) Detach() T {
	if g.released {
		panic("pool: Detach on a released guard")
	}
	g.released = true
	g.pool.pool.stats.inUse.Add(-1)
	obj := g.obj
	var zero T
	g.obj = zero
	return obj
}
