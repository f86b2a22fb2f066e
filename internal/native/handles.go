package native

import (
	"sync"
	"unsafe"
)

// evalFunc computes one derivative component from C-side pointers.
type evalFunc func(t, y unsafe.Pointer, n uintptr, out unsafe.Pointer)

// registry maps the ctx word handed to native code back to a Go
// derivative. purego callbacks are never freed, so every closure shares
// the one trampoline and differs only by handle.
type registry struct {
	mu      sync.RWMutex
	next    uintptr
	entries map[uintptr]evalFunc
}

var handles = &registry{entries: make(map[uintptr]evalFunc)}

func (r *registry) register(fn evalFunc) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.entries[r.next] = fn
	return r.next
}

func (r *registry) release(h uintptr) {
	r.mu.Lock()
	delete(r.entries, h)
	r.mu.Unlock()
}

func (r *registry) lookup(h uintptr) (evalFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.entries[h]
	return fn, ok
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// dispatch is the body of the trampoline. A stale handle leaves out
// untouched.
func dispatch(ctx uintptr, t, y unsafe.Pointer, n uintptr, out unsafe.Pointer) {
	if fn, ok := handles.lookup(ctx); ok {
		fn(t, y, n, out)
	}
}

var trampoline = sync.OnceValue(func() uintptr {
	return newCallback(dispatch)
})
