package dynamo

import "fmt"

// Task is an initial-value problem y' = f(t, y), y(t0) = y0 of fixed size.
// It is never modified after [NewTask] returns.
type Task[T, N any] struct {
	initialTime T
	initial     []N
	derivatives []Function[T, N]
}

// NewTask builds a task from one derivative per unknown, the initial time
// and the initial conditions. The slices are copied.
func NewTask[T, N any](derivatives []Function[T, N], t0 T, y0 []N) (*Task[T, N], error) {
	if len(derivatives) == 0 {
		return nil, ErrEmptyTask
	}
	if len(derivatives) != len(y0) {
		return nil, fmt.Errorf("%w: %d derivatives, %d initial conditions", ErrDimensionMismatch, len(derivatives), len(y0))
	}
	for i, f := range derivatives {
		if f == nil {
			return nil, fmt.Errorf("dynamo: derivative %d is nil", i)
		}
		if f.Arity() != len(y0) {
			return nil, fmt.Errorf("%w: derivative %d takes %d unknowns, system has %d", ErrDimensionMismatch, i, f.Arity(), len(y0))
		}
	}

	t := &Task[T, N]{
		initialTime: t0,
		initial:     make([]N, len(y0)),
		derivatives: make([]Function[T, N], len(derivatives)),
	}
	copy(t.initial, y0)
	copy(t.derivatives, derivatives)
	return t, nil
}

// Size is the number of equations.
func (t *Task[T, N]) Size() int { return len(t.initial) }

func (t *Task[T, N]) InitialTime() T { return t.initialTime }

// InitialConditions returns a copy of y0.
func (t *Task[T, N]) InitialConditions() []N {
	c := make([]N, len(t.initial))
	copy(c, t.initial)
	return c
}

func (t *Task[T, N]) Derivative(i int) Function[T, N] { return t.derivatives[i] }

// Eval computes y_i' at (time, y).
func (t *Task[T, N]) Eval(i int, time T, y []N) N {
	return t.derivatives[i].Eval(time, y)
}
