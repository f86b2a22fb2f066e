package native

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/san-kum/cauchy/internal/dynamo"
)

// binding is the pair of routines resolved from a module for one suffix.
type binding struct {
	prepare  func(view unsafe.Pointer)
	evalNext func(view, outTime unsafe.Pointer) unsafe.Pointer
}

func bind(m *Module, suffix string) (*binding, error) {
	prep, err := m.Lookup(prepareSymbol + suffix)
	if err != nil {
		return nil, err
	}
	next, err := m.Lookup(evalNextSymbol + suffix)
	if err != nil {
		return nil, err
	}

	b := &binding{}
	registerFunc(&b.prepare, prep)
	registerFunc(&b.evalNext, next)
	return b, nil
}

// ExternalSolver steps a task with routines exported by a native module.
//
// The solver owns the module. The bound routines are only reachable
// through call, which refuses to run once Close has started and keeps
// Close waiting while a routine is executing.
type ExternalSolver[T dynamo.Real, N any] struct {
	mu      sync.RWMutex
	module  *Module
	binding *binding

	frame *frame[T, N]
	state []N
}

// OpenExternal resolves name inside dir, loads it and binds the routines
// for (T, N). A failed bind unloads the module again.
func OpenExternal[T dynamo.Real, N any](dir, name string) (*ExternalSolver[T, N], error) {
	suffix, err := Suffix[T, N]()
	if err != nil {
		return nil, err
	}
	path, err := LibraryPath(dir, name)
	if err != nil {
		return nil, err
	}
	m, err := Open(path)
	if err != nil {
		return nil, err
	}
	b, err := bind(m, suffix)
	if err != nil {
		m.Close()
		return nil, err
	}
	return newExternal[T, N](m, b), nil
}

func newExternal[T dynamo.Real, N any](m *Module, b *binding) *ExternalSolver[T, N] {
	return &ExternalSolver[T, N]{module: m, binding: b}
}

// Path is the file the module was loaded from.
func (s *ExternalSolver[T, N]) Path() string {
	if s.module == nil {
		return ""
	}
	return s.module.Path()
}

func (s *ExternalSolver[T, N]) call(fn func(b *binding) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.binding == nil {
		return ErrClosed
	}
	return fn(s.binding)
}

// Prepare hands the task to the module's prepare routine. Preparing again
// discards the previous task.
func (s *ExternalSolver[T, N]) Prepare(task *dynamo.Task[T, N]) error {
	return s.call(func(b *binding) error {
		f := newFrame(task)
		b.prepare(f.viewPtr())
		if s.frame != nil {
			s.frame.release()
		}
		s.frame = f
		s.state = make([]N, task.Size())
		f.rethrow()
		return nil
	})
}

// Next asks the module for the following step. The returned state is
// copied out of module memory and is valid until the next call.
func (s *ExternalSolver[T, N]) Next(task *dynamo.Task[T, N]) (T, []N, error) {
	var t T
	err := s.call(func(b *binding) error {
		f := s.frame
		if f == nil || f.task != task {
			return dynamo.ErrNotPrepared
		}

		p := b.evalNext(f.viewPtr(), f.outTimePtr())
		f.rethrow()
		if p == nil {
			return fmt.Errorf("%w: %s", ErrNullResult, s.Path())
		}
		copy(s.state, unsafe.Slice((*N)(p), len(s.state)))
		t = f.outTime
		return nil
	})
	if err != nil {
		return t, nil, err
	}
	return t, s.state, nil
}

// Close waits for a running routine, releases the prepared task and
// unloads the module. Closing twice is a no-op.
func (s *ExternalSolver[T, N]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.binding == nil {
		return nil
	}
	s.binding = nil
	if s.frame != nil {
		s.frame.release()
		s.frame = nil
	}
	if s.module == nil {
		return nil
	}
	return s.module.Close()
}
