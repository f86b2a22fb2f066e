package integrators

import (
	"fmt"

	"github.com/san-kum/cauchy/internal/dynamo"
)

// Euler is the explicit fixed-step Euler method
//
//	y_{k+1} = y_k + h * f(t_k, y_k),  t_{k+1} = t_k + h
type Euler[T dynamo.Real, N dynamo.Number[T, N]] struct {
	h        T
	t        T
	state    []N
	scratch  []N
	prepared bool
}

func NewEuler[T dynamo.Real, N dynamo.Number[T, N]](step T) *Euler[T, N] {
	return &Euler[T, N]{h: step}
}

func (e *Euler[T, N]) Step() T { return e.h }

func (e *Euler[T, N]) Prepare(task *dynamo.Task[T, N]) error {
	e.t = task.InitialTime()
	e.state = task.InitialConditions()
	e.scratch = make([]N, len(e.state))
	e.prepared = true
	return nil
}

func (e *Euler[T, N]) Next(task *dynamo.Task[T, N]) (T, []N, error) {
	if !e.prepared {
		return e.t, nil, dynamo.ErrNotPrepared
	}
	n := task.Size()
	if n != len(e.state) {
		return e.t, nil, fmt.Errorf("%w: prepared for %d equations, got %d", dynamo.ErrNotPrepared, len(e.state), n)
	}

	for i := 0; i < n; i++ {
		e.scratch[i] = e.state[i].Add(task.Eval(i, e.t, e.state).Scale(e.h))
	}
	e.state, e.scratch = e.scratch, e.state
	e.t += e.h

	return e.t, e.state, nil
}
