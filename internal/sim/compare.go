package sim

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/cauchy/internal/dynamo"
)

// Compare solves the same task with each solver concurrently. Every solver
// must be owned by this call; the task is only read. Solutions are returned
// in solver order. The first failure cancels the remaining runs.
func Compare[T dynamo.Real, N any](ctx context.Context, task *dynamo.Task[T, N], stop StopCondition[T], solvers ...dynamo.Solver[T, N]) ([]*Solution[T, N], error) {
	results := make([]*Solution[T, N], len(solvers))

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range solvers {
		g.Go(func() error {
			sol, err := Solve(ctx, s, task, stop)
			if err != nil {
				return fmt.Errorf("sim: solver %d: %w", i, err)
			}
			results[i] = sol
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MaxDeviation is the largest absolute difference between matching
// samples of two scalar solutions of equal shape.
func MaxDeviation[T dynamo.Real, N dynamo.Real](a, b *Solution[T, N]) (float64, error) {
	if a.Len() != b.Len() || a.Size() != b.Size() {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, a.Len(), a.Size(), b.Len(), b.Size())
	}
	var dev float64
	for i := range a.outputs {
		dev = math.Max(dev, math.Abs(float64(a.outputs[i])-float64(b.outputs[i])))
	}
	return dev, nil
}
