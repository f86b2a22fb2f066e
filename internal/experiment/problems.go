package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/cauchy/internal/dynamo"
	"github.com/san-kum/cauchy/internal/metrics"
)

// Problem is a named initial-value problem with float64 parameters. The
// derivatives are instantiated per numeric representation by NewTask.
type Problem struct {
	Name        string
	Description string
	Initial     []float64
	Params      map[string]float64

	// Invariant, when set, is conserved by the exact solution.
	Invariant     metrics.Invariant
	InvariantName string
}

const (
	DecayChain  = "decay_chain"
	Exponential = "exponential"
	Oscillator  = "oscillator"
	Logistic    = "logistic"
)

type Registry struct {
	problems map[string]Problem
}

func NewRegistry() *Registry {
	r := &Registry{problems: make(map[string]Problem)}

	r.problems[DecayChain] = Problem{
		Name:        DecayChain,
		Description: "x1 -> x2 -> x3 first-order decay, k1=0.577 k2=0.422",
		Initial:     []float64{1, 0, 0},
		Params:      map[string]float64{"k1": 0.577, "k2": 0.422},

		Invariant:     metrics.Mass,
		InvariantName: "mass",
	}
	r.problems[Exponential] = Problem{
		Name:        Exponential,
		Description: "y' = -y",
		Initial:     []float64{1},
	}
	r.problems[Oscillator] = Problem{
		Name:        Oscillator,
		Description: "harmonic oscillator x' = v, v' = -x",
		Initial:     []float64{1, 0},

		Invariant:     metrics.Energy,
		InvariantName: "energy",
	}
	r.problems[Logistic] = Problem{
		Name:        Logistic,
		Description: "y' = r*y*(1-y), r=2",
		Initial:     []float64{0.1},
		Params:      map[string]float64{"r": 2},
	}

	return r
}

func (r *Registry) GetProblem(name string) (Problem, error) {
	p, ok := r.problems[name]
	if !ok {
		return Problem{}, fmt.Errorf("unknown problem: %s", name)
	}
	return p, nil
}

func (r *Registry) ListProblems() []Problem {
	list := make([]Problem, 0, len(r.problems))
	for _, p := range r.problems {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Derivatives builds the right-hand side of p over N.
func Derivatives[T dynamo.Real, N dynamo.Number[T, N]](p Problem, constant func(float64) N) ([]dynamo.Function[T, N], error) {
	switch p.Name {
	case DecayChain:
		k1, k2 := T(p.Params["k1"]), T(p.Params["k2"])
		return []dynamo.Function[T, N]{
			dynamo.F(func(_ T, x [3]N) N { return x[0].Scale(-k1) }),
			dynamo.F(func(_ T, x [3]N) N { return x[0].Scale(k1).Sub(x[1].Scale(k2)) }),
			dynamo.F(func(_ T, x [3]N) N { return x[1].Scale(k2) }),
		}, nil

	case Exponential:
		return []dynamo.Function[T, N]{
			dynamo.F(func(_ T, y [1]N) N { return y[0].Neg() }),
		}, nil

	case Oscillator:
		return []dynamo.Function[T, N]{
			dynamo.F(func(_ T, y [2]N) N { return y[1] }),
			dynamo.F(func(_ T, y [2]N) N { return y[0].Neg() }),
		}, nil

	case Logistic:
		r := T(p.Params["r"])
		one := constant(1)
		return []dynamo.Function[T, N]{
			dynamo.F(func(_ T, y [1]N) N { return y[0].Mul(one.Sub(y[0])).Scale(r) }),
		}, nil
	}
	return nil, fmt.Errorf("no derivatives for problem %s", p.Name)
}

// NewTask instantiates p for the numeric representation num, starting at
// t = 0.
func NewTask[T dynamo.Real, N dynamo.Number[T, N]](p Problem, num Numeric[T, N]) (*dynamo.Task[T, N], error) {
	fs, err := Derivatives[T](p, num.Constant)
	if err != nil {
		return nil, err
	}
	y0 := make([]N, len(p.Initial))
	for i, v := range p.Initial {
		y0[i] = num.Initial(v)
	}
	return dynamo.NewTask(fs, 0, y0)
}
