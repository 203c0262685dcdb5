package pool

// Allocator manufactures objects for a pool. Implementations may
// additionally satisfy Resetter and Validator; both are detected once at
// pool construction so the hot path pays no type assertions.
//
// When used with Pool, Allocate may be called from multiple goroutines
// without external synchronization. LocalPool calls it from one goroutine
// only.
type Allocator[T any] interface {
	// Allocate produces a fresh, fully initialized object. It must not
	// fail: pools have no recovery path, so an allocator that cannot
	// produce an object should panic.
	Allocate() T
}

// Resetter is an optional extension of Allocator. Reset restores an
// object to its reusable baseline state and runs on every object
// travelling back toward the store. It must not panic.
type Resetter[T any] interface {
	Reset(obj T)
}

// Validator is an optional extension of Allocator. Validate decides
// whether a returned object is fit for reuse; rejected objects are
// silently dropped and the next Get manufactures a fresh one. It must not
// panic - returning false is the only way an allocator signals a problem
// with an object.
type Validator[T any] interface {
	Validate(obj T) bool
}

// AllocatorFuncs adapts plain functions to the allocator capability for
// callers that prefer not to define a type. New is required; Reset and
// Validate are independently optional, defaulting to no-op and
// always-valid respectively.
type AllocatorFuncs[T any] struct {
	New      func() T
	Reset    func(T)
	Validate func(T) bool
}

// Allocate calls the New function.
func (a AllocatorFuncs[T]) Allocate() T {
	return a.New()
}

// behaviors resolves the optional reset and validate capabilities of an
// allocator. Either result may be nil, meaning the behavior is absent.
func behaviors[T any](alloc Allocator[T]) (reset func(T), validate func(T) bool) {
	if fns, ok := alloc.(AllocatorFuncs[T]); ok {
		return fns.Reset, fns.Validate
	}
	if r, ok := alloc.(Resetter[T]); ok {
		reset = r.Reset
	}
	if v, ok := alloc.(Validator[T]); ok {
		validate = v.Validate
	}
	return reset, validate
}
