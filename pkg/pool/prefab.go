package pool

import "bytes"

// Prefab allocators for the types that dominate hot paths: scratch
// buffers, lookup maps, and reusable slices. Each pairs an Allocate with
// the matching Reset so pooled instances come back clean.

// BufferAllocator manufactures bytes.Buffers with a fixed initial
// capacity and empties them on return.
type BufferAllocator struct {
	// Size is the initial capacity of manufactured buffers in bytes.
	Size int
}

// Allocate returns an empty buffer with the configured capacity.
func (a BufferAllocator) Allocate() *bytes.Buffer {
	return bytes.NewBuffer(make([]byte, 0, a.Size))
}

// Reset empties the buffer, keeping its grown capacity.
func (a BufferAllocator) Reset(b *bytes.Buffer) {
	b.Reset()
}

// MapAllocator manufactures maps with a capacity hint and clears them on
// return.
type MapAllocator[K comparable, V any] struct {
	// Cap is the initial capacity hint for manufactured maps.
	Cap int
}

// Allocate returns an empty map with the configured capacity hint.
func (a MapAllocator[K, V]) Allocate() map[K]V {
	return make(map[K]V, a.Cap)
}

// Reset removes every entry, keeping the map's allocated buckets.
func (a MapAllocator[K, V]) Reset(m map[K]V) {
	clear(m)
}

// SliceAllocator manufactures slices with a capacity hint. Reset zeroes
// every element before truncating so a pooled slice never pins objects
// the caller appended, then resets the length to zero.
type SliceAllocator[T any] struct {
	// Cap is the initial capacity of manufactured slices.
	Cap int
}

// Allocate returns a pointer to an empty slice with the configured
// capacity.
func (a SliceAllocator[T]) Allocate() *[]T {
	s := make([]T, 0, a.Cap)
	return &s
}

// Reset zeroes the slice's backing array and truncates it to length
// zero.
func (a SliceAllocator[T]) Reset(s *[]T) {
	clear((*s)[:cap(*s)])
	*s = (*s)[:0]
}

// Global pools for common scratch types. Both start empty and grow to
// their working set on first use.
var (
	// Buffers recycles 4KB scratch buffers.
	Buffers = New[*bytes.Buffer](1024, BufferAllocator{Size: 4096})

	// Maps recycles string-keyed maps pre-sized for 16 entries.
	Maps = New[map[string]any](1024, MapAllocator[string, any]{Cap: 16})
)

// GetBuffer borrows a scratch buffer from the global buffer pool.
//
//	g := pool.GetBuffer()
//	defer g.Release()
//	g.Object().WriteString("...")
func GetBuffer() *Guard[*bytes.Buffer] {
	return Buffers.Get()
}

// GetMap borrows a map from the global map pool.
func GetMap() *Guard[map[string]any] {
	return Maps.Get()
}
