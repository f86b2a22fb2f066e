package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/cauchy/internal/dynamo"
)

// Stream prepares solver for task and feeds samples to yield until stop
// rejects one, yield returns false, the solver fails or ctx is done.
//
// The first sample is the task's initial time and conditions. States passed
// to yield are owned by the solver and valid only during the call.
func Stream[T dynamo.Real, N any](ctx context.Context, solver dynamo.Solver[T, N], task *dynamo.Task[T, N], stop StopCondition[T], yield func(t T, y []N) bool) error {
	if err := solver.Prepare(task); err != nil {
		return fmt.Errorf("sim: prepare: %w", err)
	}

	t := task.InitialTime()
	if !stop.Keep(0, t) || !yield(t, task.InitialConditions()) {
		return nil
	}

	for step := 1; ; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		next, y, err := solver.Next(task)
		if err != nil {
			return &StepError{Step: step, Time: float64(t), Wrapped: err}
		}
		if len(y) != task.Size() {
			panic(fmt.Sprintf("sim: solver returned %d components for a task of size %d", len(y), task.Size()))
		}
		t = next

		if !stop.Keep(step, t) || !yield(t, y) {
			return nil
		}
	}
}

// Solve runs solver on task and collects the kept samples.
func Solve[T dynamo.Real, N any](ctx context.Context, solver dynamo.Solver[T, N], task *dynamo.Task[T, N], stop StopCondition[T]) (*Solution[T, N], error) {
	acc := newAccumulator[T, N](task.Size())
	err := Stream(ctx, solver, task, stop, func(t T, y []N) bool {
		acc.add(t, y)
		return true
	})
	if err != nil {
		return nil, err
	}
	return acc.solution(), nil
}
