package pool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// payload is the object under test. broken marks instances the test
// allocator's validator should reject.
type payload struct {
	value  int
	dirty  bool
	broken bool
}

// countingAllocator tracks every capability invocation.
type countingAllocator struct {
	allocs    atomic.Int64
	resets    atomic.Int64
	validates atomic.Int64
}

func (a *countingAllocator) Allocate() *payload {
	a.allocs.Add(1)
	return &payload{value: 10}
}

func (a *countingAllocator) Reset(p *payload) {
	a.resets.Add(1)
	p.dirty = false
}

func (a *countingAllocator) Validate(p *payload) bool {
	a.validates.Add(1)
	return !p.broken
}

// bareAllocator has no optional capabilities.
type bareAllocator struct {
	allocs atomic.Int64
}

func (a *bareAllocator) Allocate() *payload {
	a.allocs.Add(1)
	return &payload{value: 10}
}

func TestNew(t *testing.T) {
	alloc := &countingAllocator{}
	p := New[*payload](10, alloc)

	require.Equal(t, 0, p.Len())
	require.Equal(t, 10, p.Cap())
	assert.True(t, p.Empty())

	g := p.Get()
	defer g.Release()
	assert.Equal(t, 10, g.Object().value)
	assert.Equal(t, int64(1), alloc.allocs.Load())
}

func TestNewPrefilled(t *testing.T) {
	alloc := &countingAllocator{}
	p := NewPrefilled[*payload](10, alloc)

	require.Equal(t, 10, p.Len())
	require.Equal(t, int64(10), alloc.allocs.Load())

	// All capacity gets must be satisfied from the store without another
	// allocation.
	guards := make([]*Guard[*payload], 0, 10)
	for i := 0; i < 10; i++ {
		guards = append(guards, p.Get())
	}
	assert.Equal(t, int64(10), alloc.allocs.Load())
	assert.Equal(t, 0, p.Len())

	for _, g := range guards {
		g.Release()
	}
	assert.Equal(t, 10, p.Len())
}

func TestGetReusesStoredInstance(t *testing.T) {
	alloc := &countingAllocator{}
	p := New[*payload](4, alloc)

	g := p.Get()
	first := g.Object()
	first.dirty = true
	g.Release()

	g2 := p.Get()
	defer g2.Release()
	assert.Same(t, first, g2.Object())
	assert.False(t, g2.Object().dirty, "reused object must reflect the post-reset state")
}

func TestCapacityInvariant(t *testing.T) {
	alloc := &countingAllocator{}
	p := New[*payload](2, alloc)

	guards := make([]*Guard[*payload], 0, 5)
	for i := 0; i < 5; i++ {
		guards = append(guards, p.Get())
	}
	for _, g := range guards {
		g.Release()
	}

	assert.Equal(t, 2, p.Len())
	stats := p.Stats()
	assert.Equal(t, int64(2), stats.Returned)
	assert.Equal(t, int64(3), stats.Discarded)
}

// The acceptance scenario from the recycling protocol: capacity 2, no
// reset or validation.
func TestGetReleaseScenario(t *testing.T) {
	alloc := &bareAllocator{}
	p := New[*payload](2, alloc)

	g1 := p.Get()
	g2 := p.Get()
	g3 := p.Get() // store empty, must allocate
	require.Equal(t, int64(3), alloc.allocs.Load())

	g1.Release()
	g2.Release()
	require.Equal(t, 2, p.Len())

	g4 := p.Get() // must not allocate, store had 2
	assert.Equal(t, int64(3), alloc.allocs.Load())

	g3.Release()
	g4.Release()
	assert.Equal(t, 2, p.Len(), "third return is dropped at capacity")
}

func TestValidationGate(t *testing.T) {
	alloc := &countingAllocator{}
	p := NewPrefilled[*payload](1, alloc)

	g := p.Get()
	rejected := g.Object()
	rejected.broken = true
	g.Release()

	require.Equal(t, 0, p.Len())
	assert.Equal(t, int64(1), p.Stats().Discarded)

	g2 := p.Get()
	defer g2.Release()
	assert.NotSame(t, rejected, g2.Object())
}

func TestResetRunsBeforeValidation(t *testing.T) {
	resetSeen := false
	alloc := AllocatorFuncs[*payload]{
		New:   func() *payload { return &payload{} },
		Reset: func(p *payload) { p.dirty = false },
		Validate: func(p *payload) bool {
			resetSeen = !p.dirty
			return true
		},
	}
	p := New[*payload](1, alloc)

	g := p.Get()
	g.Object().dirty = true
	g.Release()

	assert.True(t, resetSeen, "validation must observe the post-reset object")
}

func TestZeroCapacity(t *testing.T) {
	alloc := &countingAllocator{}
	p := New[*payload](0, alloc)

	require.Equal(t, 0, p.Cap())
	g := p.Get()
	g.Release()

	assert.Equal(t, 0, p.Len())
	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Discarded)
	assert.Equal(t, int64(1), stats.Allocated)

	g2 := p.Get()
	defer g2.Release()
	assert.Equal(t, int64(2), alloc.allocs.Load(), "zero capacity always allocates fresh")
}

func TestGuardReleaseIdempotent(t *testing.T) {
	alloc := &countingAllocator{}
	p := New[*payload](2, alloc)

	g := p.Get()
	g.Release()
	g.Release()

	assert.Equal(t, 1, p.Len())
	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Returned)
	assert.Equal(t, int64(0), stats.InUse)
}

func TestGuardDetach(t *testing.T) {
	alloc := &countingAllocator{}
	p := NewPrefilled[*payload](1, alloc)

	g := p.Get()
	obj := g.Detach()
	require.NotNil(t, obj)

	// The detached object never travels back.
	g.Release()
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, int64(0), p.Stats().InUse)

	assert.Panics(t, func() { g.Detach() })
}

func TestToSharedIsOneWay(t *testing.T) {
	alloc := &countingAllocator{}
	p := NewPrefilled[*payload](2, alloc)

	s := p.ToShared()
	require.NotNil(t, s)

	assert.Panics(t, func() { p.Get() }, "plain Get after ToShared")
	assert.Panics(t, func() { p.ToShared() }, "second conversion")

	g := s.Get()
	assert.Equal(t, 10, g.Object().value)
	g.Release()
	assert.Equal(t, 2, s.Len())
}

func TestSharedGuardCrossesGoroutines(t *testing.T) {
	alloc := &countingAllocator{}
	s := NewPrefilled[*payload](4, alloc).ToShared()

	guards := make(chan *SharedGuard[*payload], 4)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for g := range guards {
			g.Object().dirty = true
			g.Release()
		}
	}()

	for i := 0; i < 4; i++ {
		guards <- s.Get()
	}
	close(guards)
	wg.Wait()

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, int64(0), s.Stats().InUse)
}

func TestSharedDetach(t *testing.T) {
	alloc := &countingAllocator{}
	s := NewPrefilled[*payload](1, alloc).ToShared()

	g := s.Get()
	obj := g.Detach()
	require.NotNil(t, obj)
	assert.Equal(t, 0, s.Len())
	assert.Panics(t, func() { g.Detach() })
}

func TestConcurrentGetRelease(t *testing.T) {
	const (
		workers = 8
		cycles  = 2000
	)

	alloc := &countingAllocator{}
	p := NewPrefilled[*payload](4, alloc)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < cycles; j++ {
				g := p.Get()
				g.Object().dirty = true
				g.Release()
			}
		}()
	}
	wg.Wait()

	stats := p.Stats()
	assert.LessOrEqual(t, p.Len(), 4)
	assert.Equal(t, int64(0), stats.InUse)
	assert.Equal(t, int64(workers*cycles), stats.Hits+stats.Misses)
	assert.Equal(t, int64(workers*cycles), stats.Returned+stats.Discarded)
}

func TestStats(t *testing.T) {
	alloc := &countingAllocator{}
	p := NewPrefilled[*payload](2, alloc)

	g1 := p.Get()
	g2 := p.Get()
	g3 := p.Get()

	stats := p.Stats()
	assert.Equal(t, int64(3), stats.Allocated)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(3), stats.InUse)

	g1.Release()
	g2.Release()
	g3.Release()

	stats = p.Stats()
	assert.Equal(t, int64(2), stats.Returned)
	assert.Equal(t, int64(1), stats.Discarded)
	assert.Equal(t, int64(0), stats.InUse)
}
