package core

import "sync"

// Handle is a shared reference to a long-lived engine subsystem guarded by
// its own mutex. The engine constructs the subsystem once; every holder of a
// Handle (the engine loop, a script bridge, an SSH session renderer) clones
// the reference and takes the lock only for the duration of one operation.
//
// The zero Handle is not usable; build one with NewHandle.
type Handle[T any] struct {
	mu *sync.Mutex
	v  T
}

// NewHandle wraps v in a new Handle with a fresh lock.
func NewHandle[T any](v T) Handle[T] {
	return Handle[T]{mu: &sync.Mutex{}, v: v}
}

// With runs fn with exclusive access to the wrapped value.
// fn must not retain the value or acquire another Handle.
func (h Handle[T]) With(fn func(T)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.v)
}

// Clone returns another reference to the same value and the same lock.
func (h Handle[T]) Clone() Handle[T] {
	return Handle[T]{mu: h.mu, v: h.v}
}

// Valid reports whether the handle was built with NewHandle.
func (h Handle[T]) Valid() bool {
	return h.mu != nil
}

// Rebind returns a Handle of another static type that shares h's value and
// lock. It lets the engine keep a concrete *Surface handle while handing the
// bridge an interface-typed view of the same resource.
func Rebind[U, T any](h Handle[T], view func(T) U) Handle[U] {
	return Handle[U]{mu: h.mu, v: view(h.v)}
}

// TryLock attempts to take the handle's lock without blocking. It exists for
// lock-discipline checks in tests; production code uses With.
func (h Handle[T]) TryLock() bool {
	return h.mu.TryLock()
}

// Unlock releases a lock taken with TryLock.
func (h Handle[T]) Unlock() {
	h.mu.Unlock()
}
