package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	kitlog "github.com/go-kit/log"

	"github.com/san-kum/cauchy/internal/config"
	"github.com/san-kum/cauchy/internal/dynamo"
	"github.com/san-kum/cauchy/internal/metrics"
	"github.com/san-kum/cauchy/internal/sim"
)

// StabilityThreshold bounds the magnitude of values in a stable sample.
const StabilityThreshold = 1e6

// Report is a finished run flattened to float64 columns for presentation
// and storage. Interval runs carry two columns per component.
type Report struct {
	Problem string
	Solver  string
	Numeric string
	Step    float64
	TMax    float64

	Labels  []string
	Time    []float64
	Columns [][]float64

	Module  string
	Elapsed time.Duration

	Metrics []metrics.Result
}

// Series returns the column with the given label.
func (r *Report) Series(label string) ([]float64, bool) {
	for i, l := range r.Labels {
		if l == label {
			return r.Columns[i], true
		}
	}
	return nil, false
}

// Metric returns the measured value with the given name.
func (r *Report) Metric(name string) (float64, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   kitlog.Logger
}

// New prepares runs of cfg. A nil logger discards diagnostics.
func New(cfg *config.Config, logger kitlog.Logger) *Experiment {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Experiment{cfg: cfg, registry: NewRegistry(), logger: logger}
}

func (e *Experiment) Registry() *Registry { return e.registry }

// Run solves the configured problem with the configured solver until
// t_max.
func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	return e.RunWith(ctx, e.cfg.General.Solver)
}

// RunWith solves the configured problem with the named solver.
func (e *Experiment) RunWith(ctx context.Context, solver string) (*Report, error) {
	g := e.cfg.General
	switch g.Numeric {
	case config.NumericF64:
		return run(ctx, e, solver, F64())
	case config.NumericF32:
		return run(ctx, e, solver, F32())
	case config.NumericF64Interval:
		return run(ctx, e, solver, IntervalF64(g.Radius))
	case config.NumericF32Interval:
		return run(ctx, e, solver, IntervalF32(g.Radius))
	}
	return nil, fmt.Errorf("unknown numeric %q", g.Numeric)
}

func run[T dynamo.Real, N dynamo.Number[T, N]](ctx context.Context, e *Experiment, solver string, num Numeric[T, N]) (*Report, error) {
	p, err := e.registry.GetProblem(e.cfg.General.Problem)
	if err != nil {
		return nil, err
	}
	task, err := NewTask(p, num)
	if err != nil {
		return nil, err
	}

	strategy := StrategyFor(e.cfg, solver)
	s, closer, err := NewSolver[T, N](strategy)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	module := modulePath(s)
	if module != "" {
		e.logger.Log("level", "info", "subsys", "native", "module", module, "numeric", num.Name)
	}

	start := time.Now()
	sol, err := sim.Solve(ctx, s, task, sim.Timed[T]{Maximum: T(e.cfg.General.TMax)})
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	e.logger.Log("level", "info", "subsys", "sim", "problem", p.Name, "solver", strategy.Name(), "samples", sol.Len(), "elapsed", elapsed)

	r := flatten(sol, num)
	r.Problem = p.Name
	r.Solver = strategy.Name()
	r.Numeric = num.Name
	r.Step = usedStep(r.Time, e.cfg.General.Step)
	r.TMax = e.cfg.General.TMax
	r.Module = module
	r.Elapsed = elapsed
	measure(p, r, num.Columns)
	return r, nil
}

// measure records stability, invariant drift and, for interval runs,
// enclosure width.
func measure(p Problem, r *Report, columns int) {
	ms := []metrics.Metric{metrics.NewStability(StabilityThreshold)}
	if p.Invariant != nil {
		var drift metrics.Metric = metrics.NewDrift(p.InvariantName, p.Invariant)
		if columns == 2 {
			drift = metrics.Midpoints(drift)
		}
		ms = append(ms, drift)
	}
	if columns == 2 {
		ms = append(ms, metrics.NewWidth())
	}
	r.Metrics = metrics.Measure(r.Time, r.Columns, ms...)
}

// usedStep is the step a solver actually took, which for a native module
// may differ from the configured one. Runs shorter than two samples keep
// the configured step.
func usedStep(ts []float64, configured float64) float64 {
	if len(ts) < 2 {
		return configured
	}
	return ts[1] - ts[0]
}

func sameStep(a, b float64) bool {
	return math.Abs(a-b) <= stepTolerance*math.Max(math.Abs(a), math.Abs(b))
}

func modulePath(s any) string {
	if p, ok := s.(interface{ Path() string }); ok {
		return p.Path()
	}
	return ""
}

// Labels names the report columns for size components: x1, x2, ... or
// x1_lo, x1_hi, ... when each component spans two columns.
func Labels(size, columns int) []string {
	labels := make([]string, 0, size*columns)
	for i := 1; i <= size; i++ {
		if columns == 2 {
			labels = append(labels, fmt.Sprintf("x%d_lo", i), fmt.Sprintf("x%d_hi", i))
		} else {
			labels = append(labels, fmt.Sprintf("x%d", i))
		}
	}
	return labels
}

func flatten[T dynamo.Real, N any](sol *sim.Solution[T, N], num Numeric[T, N]) *Report {
	r := &Report{
		Labels:  Labels(sol.Size(), num.Columns),
		Time:    make([]float64, sol.Len()),
		Columns: make([][]float64, sol.Size()*num.Columns),
	}
	for k, t := range sol.Time() {
		r.Time[k] = float64(t)
	}
	for i := range r.Columns {
		r.Columns[i] = make([]float64, sol.Len())
	}

	buf := make([]float64, num.Columns)
	for i := 0; i < sol.Size(); i++ {
		for k, n := range sol.Component(i) {
			num.Flatten(buf, n)
			for c, v := range buf {
				r.Columns[i*num.Columns+c][k] = v
			}
		}
	}
	return r
}

// Comparison holds runs of one problem under several solvers together with
// each run's largest deviation from the first.
type Comparison struct {
	Reports    []*Report
	Deviations []float64
}

var (
	ErrScalarOnly   = errors.New("comparison requires a scalar numeric")
	ErrStepMismatch = errors.New("solvers stepped differently")
)

// stepTolerance absorbs float32 rounding of the first time stamp.
const stepTolerance = 1e-6

// Compare solves the configured problem with every named solver
// concurrently.
func (e *Experiment) Compare(ctx context.Context, solvers []string) (*Comparison, error) {
	if len(solvers) == 0 {
		return nil, errors.New("no solvers to compare")
	}
	switch e.cfg.General.Numeric {
	case config.NumericF64:
		return compare(ctx, e, solvers, F64())
	case config.NumericF32:
		return compare(ctx, e, solvers, F32())
	}
	return nil, fmt.Errorf("%w, got %s", ErrScalarOnly, e.cfg.General.Numeric)
}

func compare[T dynamo.Real, N interface {
	dynamo.Real
	dynamo.Number[T, N]
}](ctx context.Context, e *Experiment, names []string, num Numeric[T, N]) (*Comparison, error) {
	p, err := e.registry.GetProblem(e.cfg.General.Problem)
	if err != nil {
		return nil, err
	}
	task, err := NewTask(p, num)
	if err != nil {
		return nil, err
	}

	solvers := make([]dynamo.Solver[T, N], 0, len(names))
	for _, name := range names {
		s, closer, err := NewSolver[T, N](StrategyFor(e.cfg, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		defer closer.Close()
		solvers = append(solvers, s)
	}

	sols, err := sim.Compare(ctx, task, sim.Timed[T]{Maximum: T(e.cfg.General.TMax)}, solvers...)
	if err != nil {
		return nil, err
	}

	c := &Comparison{}
	for i, sol := range sols {
		r := flatten(sol, num)
		r.Problem = p.Name
		r.Solver = names[i]
		r.Numeric = num.Name
		r.Step = usedStep(r.Time, e.cfg.General.Step)
		r.TMax = e.cfg.General.TMax
		r.Module = modulePath(solvers[i])
		measure(p, r, num.Columns)
		if len(c.Reports) > 0 && !sameStep(c.Reports[0].Step, r.Step) {
			return nil, fmt.Errorf("%w: %s by %g, %s by %g", ErrStepMismatch, names[0], c.Reports[0].Step, names[i], r.Step)
		}
		c.Reports = append(c.Reports, r)

		dev, err := sim.MaxDeviation(sols[0], sol)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", names[i], err)
		}
		c.Deviations = append(c.Deviations, dev)
	}
	return c, nil
}
