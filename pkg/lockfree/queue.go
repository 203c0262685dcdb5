// Package lockfree provides the bounded concurrent store backing the
// shared object pools. The queue is a multi-producer multi-consumer
// design using per-slot sequence numbers and cache-line padding to avoid
// false sharing; no operation takes a lock or blocks.
package lockfree

import (
	"runtime"
	"sync/atomic"
)

// Queue is a fixed-capacity lock-free MPMC queue. Push fails when the
// queue holds its capacity, Pop fails when it is empty; neither blocks.
// The ring is sized to the next power of two above the requested capacity
// for cheap index masking, but Push enforces the requested capacity
// exactly.
type Queue[T any] struct {
	buffer []slot[T]
	mask   uint64
	limit  uint64

	// Enqueue and dequeue positions live on separate cache lines
	enqueuePos atomic.Uint64
	_padding1  [7]uint64 //nolint:unused // 56 bytes padding

	dequeuePos atomic.Uint64
	_padding2  [7]uint64 //nolint:unused
}

// slot pairs an element with a sequence number that tracks whose turn the
// slot is: a producer's when sequence == position, a consumer's when
// sequence == position+1.
type slot[T any] struct {
	sequence atomic.Uint64
	data     T
}

// NewQueue creates a queue holding at most capacity elements. A capacity
// below one is raised to one.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}

	// Round the ring up to the next power of 2
	size := uint64(1)
	for size < uint64(capacity) {
		size <<= 1
	}

	q := &Queue[T]{
		buffer: make([]slot[T], size),
		mask:   size - 1,
		limit:  uint64(capacity),
	}
	for i := uint64(0); i < size; i++ {
		q.buffer[i].sequence.Store(i)
	}
	return q
}

// Push adds an item to the queue. Returns false when the queue already
// holds its capacity. Safe for multiple concurrent producers.
func (q *Queue[T]) Push(item T) bool {
	for {
		pos := q.enqueuePos.Load()

		// The dequeue position only grows, so a stale read can only make
		// the queue look fuller than it is; the limit is never exceeded.
		if pos-q.dequeuePos.Load() >= q.limit {
			return false
		}

		s := &q.buffer[pos&q.mask]
		seq := s.sequence.Load()
		diff := int64(seq) - int64(pos)

		if diff == 0 {
			// Slot is ready for enqueue
			if q.enqueuePos.CompareAndSwap(pos, pos+1) {
				s.data = item
				// The sequence store publishes the write to consumers
				s.sequence.Store(pos + 1)
				return true
			}
		} else if diff < 0 {
			// Queue is full
			return false
		}

		// Slot not ready yet, retry
		runtime.Gosched()
	}
}

// Pop removes and returns an item from the queue. Returns the zero value
// and false when the queue is empty. Safe for multiple concurrent
// consumers.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	for {
		pos := q.dequeuePos.Load()
		s := &q.buffer[pos&q.mask]
		seq := s.sequence.Load()
		diff := int64(seq) - int64(pos+1)

		if diff == 0 {
			// Slot is ready for dequeue
			if q.dequeuePos.CompareAndSwap(pos, pos+1) {
				item := s.data
				// Clear the slot so the queue never pins dead objects
				s.data = zero
				s.sequence.Store(pos + uint64(len(q.buffer)))
				return item, true
			}
		} else if diff < 0 {
			// Queue is empty
			return zero, false
		}

		// Slot not ready yet, retry
		runtime.Gosched()
	}
}

// Len returns the number of queued items. This is an approximation in
// concurrent scenarios.
func (q *Queue[T]) Len() int {
	head := q.dequeuePos.Load()
	tail := q.enqueuePos.Load()
	if tail <= head {
		return 0
	}
	n := tail - head
	if n > q.limit {
		n = q.limit
	}
	return int(n)
}

// Cap returns the maximum number of items the queue can hold.
func (q *Queue[T]) Cap() int {
	return int(q.limit)
}
