package pool

// SharedPool is the shared-handle form of a Pool. Guards issued by it
// carry the handle itself instead of borrowing the pool, so they can be
// moved freely between goroutines and released long after the scope that
// created the pool has gone.
type SharedPool[T any] struct {
	pool *Pool[T]
}

// ToShared converts the pool into its shared-handle form. The conversion
// is one-way and consuming: afterwards the plain Get panics, keeping the
// borrowed and shared acquisition APIs mutually exclusive per instance.
// ToShared itself panics when called twice.
func (p *Pool[T]) ToShared() *SharedPool[T] {
	if !p.shared.CompareAndSwap(false, true) {
		panic("pool: ToShared called twice")
	}
	return &SharedPool[T]{pool: p}
}

// Get borrows an object from the pool, allocating a fresh one when the
// store is empty. The returned guard holds the shared handle and may be
// handed to another goroutine before being released.
func (s *SharedPool[T]) Get() *SharedGuard[T] {
	return &SharedGuard[T]{obj: s.pool.take(), pool: s}
}

// Len returns the number of objects currently in the store.
func (s *SharedPool[T]) Len() int {
	return s.pool.Len()
}

// Cap returns the maximum number of objects the store retains.
func (s *SharedPool[T]) Cap() int {
	return s.pool.Cap()
}

// Empty reports whether the store holds no objects.
func (s *SharedPool[T]) Empty() bool {
	return s.pool.Empty()
}

// Stats returns a snapshot of the pool's counters.
func (s *SharedPool[T]) Stats() Stats {
	return s.pool.Stats()
}

// SharedGuard holds exclusive ownership of one borrowed object together
// with a shared handle to the issuing pool. Unlike Guard it is not tied
// to the pool's lexical scope and may cross goroutine boundaries before
// release. It must not be copied.
type SharedGuard[T any] struct {
	obj      T
	pool     *SharedPool[T]
	released bool
}

// Object returns the wrapped object. The object must not be used after
// Release or Detach.
func (g *SharedGuard[T]) Object() T {
	return g.obj
}

// Release hands the object back through the pool's return path. Only the
// first call has an effect.
func (g *SharedGuard[T]) Release() {
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
func (g *SharedGuard[T]) Detach() T {
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
