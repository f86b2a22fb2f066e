package experiment

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/san-kum/cauchy/internal/config"
	"github.com/san-kum/cauchy/internal/dynamo"
	"github.com/san-kum/cauchy/internal/sim"
)

// Live pulls samples of the configured run one at a time, flattened like
// report rows. It must be closed.
type Live struct {
	Problem string
	Solver  string
	Labels  []string
	TMax    float64

	next   func() (float64, []float64, bool)
	stop   func()
	err    error
	closer io.Closer
}

// Live starts a pull-based run of the configured problem and solver.
func (e *Experiment) Live(ctx context.Context) (*Live, error) {
	g := e.cfg.General
	switch g.Numeric {
	case config.NumericF64:
		return live(ctx, e, F64())
	case config.NumericF32:
		return live(ctx, e, F32())
	case config.NumericF64Interval:
		return live(ctx, e, IntervalF64(g.Radius))
	case config.NumericF32Interval:
		return live(ctx, e, IntervalF32(g.Radius))
	}
	return nil, fmt.Errorf("unknown numeric %q", g.Numeric)
}

func live[T dynamo.Real, N dynamo.Number[T, N]](ctx context.Context, e *Experiment, num Numeric[T, N]) (*Live, error) {
	p, err := e.registry.GetProblem(e.cfg.General.Problem)
	if err != nil {
		return nil, err
	}
	task, err := NewTask(p, num)
	if err != nil {
		return nil, err
	}
	strategy := StrategyFor(e.cfg, e.cfg.General.Solver)
	solver, closer, err := NewSolver[T, N](strategy)
	if err != nil {
		return nil, err
	}

	l := &Live{
		Problem: p.Name,
		Solver:  strategy.Name(),
		Labels:  Labels(task.Size(), num.Columns),
		TMax:    e.cfg.General.TMax,
		closer:  closer,
	}
	stop := sim.Timed[T]{Maximum: T(e.cfg.General.TMax)}
	seq := func(yield func(float64, []float64) bool) {
		row := make([]float64, task.Size()*num.Columns)
		l.err = sim.Stream(ctx, solver, task, stop, func(t T, y []N) bool {
			for i, n := range y {
				num.Flatten(row[i*num.Columns:], n)
			}
			return yield(float64(t), row)
		})
	}
	l.next, l.stop = iter.Pull2(iter.Seq2[float64, []float64](seq))
	return l, nil
}

// Next returns the following sample. The row is reused by the next call.
// ok is false once the run has ended.
func (l *Live) Next() (t float64, row []float64, ok bool) {
	return l.next()
}

// Err reports why the run ended early, if it did.
func (l *Live) Err() error { return l.err }

func (l *Live) Close() error {
	l.stop()
	return l.closer.Close()
}
