package native

import (
	"runtime"
	"unsafe"

	"github.com/san-kum/cauchy/internal/dynamo"
)

// closure mirrors cauchy_closure in solvers/include/cauchy.h.
type closure struct {
	ctx  uintptr
	call uintptr
}

// taskView mirrors the C task view; field order and widths must match.
type taskView[T, N any] struct {
	size        uintptr
	initialTime T
	derivatives *closure
	initial     *N
}

// frame holds everything native code may point into while a task is
// prepared. It stays pinned until release.
type frame[T dynamo.Real, N any] struct {
	view     taskView[T, N]
	outTime  T
	closures []closure
	initial  []N
	task     *dynamo.Task[T, N]

	// fault is a panic raised by a derivative inside a native call,
	// re-raised once control is back in Go.
	fault any

	pinner runtime.Pinner
}

func newFrame[T dynamo.Real, N any](task *dynamo.Task[T, N]) *frame[T, N] {
	n := task.Size()
	f := &frame[T, N]{
		task:     task,
		closures: make([]closure, n),
		initial:  task.InitialConditions(),
	}

	call := trampoline()
	for i := range f.closures {
		f.closures[i] = closure{ctx: handles.register(f.component(i)), call: call}
	}
	f.view = taskView[T, N]{
		size:        uintptr(n),
		initialTime: task.InitialTime(),
		derivatives: &f.closures[0],
		initial:     &f.initial[0],
	}

	f.pinner.Pin(f)
	f.pinner.Pin(&f.closures[0])
	f.pinner.Pin(&f.initial[0])
	return f
}

func (f *frame[T, N]) component(i int) evalFunc {
	return func(tp, yp unsafe.Pointer, n uintptr, out unsafe.Pointer) {
		if f.fault != nil {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				f.fault = r
			}
		}()
		y := unsafe.Slice((*N)(yp), n)
		*(*N)(out) = f.task.Eval(i, *(*T)(tp), y)
	}
}

func (f *frame[T, N]) viewPtr() unsafe.Pointer    { return unsafe.Pointer(&f.view) }
func (f *frame[T, N]) outTimePtr() unsafe.Pointer { return unsafe.Pointer(&f.outTime) }

// rethrow re-raises a derivative panic captured during the last call.
func (f *frame[T, N]) rethrow() {
	if r := f.fault; r != nil {
		f.fault = nil
		panic(r)
	}
}

func (f *frame[T, N]) release() {
	for _, c := range f.closures {
		handles.release(c.ctx)
	}
	f.pinner.Unpin()
}
