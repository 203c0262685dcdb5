package lockfree

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePushPop(t *testing.T) {
	q := NewQueue[int](4)

	require.True(t, q.Push(1))
	require.True(t, q.Push(2))
	require.True(t, q.Push(3))
	assert.Equal(t, 3, q.Len())

	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	assert.Equal(t, 0, q.Len())
}

func TestQueuePopEmpty(t *testing.T) {
	q := NewQueue[string](2)

	v, ok := q.Pop()
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestQueueCapacityExact(t *testing.T) {
	// 5 is not a power of two; the ring rounds up to 8 internally but
	// the queue must still refuse a sixth element.
	q := NewQueue[int](5)
	require.Equal(t, 5, q.Cap())

	for i := 0; i < 5; i++ {
		require.True(t, q.Push(i), "push %d", i)
	}
	assert.False(t, q.Push(99))
	assert.Equal(t, 5, q.Len())
}

func TestQueueWraparound(t *testing.T) {
	q := NewQueue[int](3)

	for round := 0; round < 10; round++ {
		for i := 0; i < 3; i++ {
			require.True(t, q.Push(round*10+i))
		}
		require.False(t, q.Push(-1))
		for i := 0; i < 3; i++ {
			v, ok := q.Pop()
			require.True(t, ok)
			assert.Equal(t, round*10+i, v)
		}
	}
}

func TestQueueMinimumCapacity(t *testing.T) {
	q := NewQueue[int](0)
	assert.Equal(t, 1, q.Cap())

	require.True(t, q.Push(7))
	assert.False(t, q.Push(8))
}

func TestQueueConcurrent(t *testing.T) {
	const (
		producers = 4
		consumers = 4
		perWorker = 5000
	)

	q := NewQueue[int](64)
	var pushed, popped atomic.Int64
	var producerWG, consumerWG sync.WaitGroup
	done := make(chan struct{})

	for i := 0; i < producers; i++ {
		producerWG.Add(1)
		go func() {
			defer producerWG.Done()
			for j := 0; j < perWorker; j++ {
				if q.Push(j) {
					pushed.Add(1)
				}
			}
		}()
	}

	for i := 0; i < consumers; i++ {
		consumerWG.Add(1)
		go func() {
			defer consumerWG.Done()
			for {
				if _, ok := q.Pop(); ok {
					popped.Add(1)
					continue
				}
				select {
				case <-done:
					// Drain whatever the producers left behind
					for {
						if _, ok := q.Pop(); !ok {
							return
						}
						popped.Add(1)
					}
				default:
				}
			}
		}()
	}

	producerWG.Wait()
	close(done)
	consumerWG.Wait()

	assert.Equal(t, pushed.Load(), popped.Load())
	assert.Equal(t, 0, q.Len())
}
