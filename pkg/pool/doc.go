// Package pool provides bounded object recycling for hot-path workloads.
// Callers borrow pre-allocated objects, use them, and hand them back
// through guards that run the return path exactly once, eliminating
// repeated allocation and the garbage collection pressure it causes.
//
// The package provides:
//   - Pool[T]: a goroutine-safe recycler over a lock-free bounded store
//   - LocalPool[T]: a single-goroutine recycler over a growable store
//   - Guards binding each borrowed object to automatic return-or-discard
//   - An Allocator capability the caller implements for its own types
//   - Prefab allocators and global pools for buffers and maps
//
// Every object a pool has manufactured is, at any instant, in exactly one
// of three states: in the store, checked out behind exactly one live
// guard, or discarded. Returns beyond the store's capacity and objects
// that fail validation are dropped silently; that is the steady-state
// shrink mechanism, not an error.
//
// Example usage:
//
//	type bufAllocator struct{}
//
//	func (bufAllocator) Allocate() *bytes.Buffer { return &bytes.Buffer{} }
//	func (bufAllocator) Reset(b *bytes.Buffer)   { b.Reset() }
//
//	p := pool.NewPrefilled[*bytes.Buffer](64, bufAllocator{})
//	g := p.Get()
//	defer g.Release()
//
//	g.Object().WriteString("hello")
//
// Acquisition never blocks: a Get against an empty store allocates a
// fresh object instead of waiting. The allocator's Allocate, Reset and
// Validate are called without any additional serialization; an allocator
// holding shared mutable state is responsible for its own safety when
// used with Pool.
package pool
