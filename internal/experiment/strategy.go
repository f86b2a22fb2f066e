package experiment

import (
	"fmt"
	"io"

	"github.com/san-kum/cauchy/internal/config"
	"github.com/san-kum/cauchy/internal/dynamo"
	"github.com/san-kum/cauchy/internal/integrators"
	"github.com/san-kum/cauchy/internal/native"
)

// Strategy selects where stepping happens. It is either Builtin or External.
type Strategy interface {
	Name() string
	strategy()
}

// Builtin is the in-process Euler method.
type Builtin struct {
	Step float64
}

// External is the native module named Module inside Dir.
type External struct {
	Dir    string
	Module string
}

func (Builtin) Name() string    { return config.BuiltinSolver }
func (s External) Name() string { return s.Module }
func (Builtin) strategy()       {}
func (External) strategy()      {}

// StrategyFor picks the strategy configured for solver name.
func StrategyFor(cfg *config.Config, solver string) Strategy {
	if solver == config.BuiltinSolver {
		return Builtin{Step: cfg.General.Step}
	}
	return External{Dir: cfg.General.LibDir, Module: solver}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewSolver builds the solver for s. The closer releases an external module
// and must be called once the solver is no longer used.
func NewSolver[T dynamo.Real, N dynamo.Number[T, N]](s Strategy) (dynamo.Solver[T, N], io.Closer, error) {
	switch s := s.(type) {
	case Builtin:
		if !(s.Step > 0) {
			return nil, nil, fmt.Errorf("euler step must be positive, got %g", s.Step)
		}
		return integrators.NewEuler[T, N](T(s.Step)), nopCloser{}, nil
	case External:
		ext, err := native.OpenExternal[T, N](s.Dir, s.Module)
		if err != nil {
			return nil, nil, err
		}
		return ext, ext, nil
	}
	return nil, nil, fmt.Errorf("unknown strategy %T", s)
}
