package sim

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch indicates solutions or states whose dimensions disagree.
var ErrShapeMismatch = errors.New("sim: shape mismatch")

// StepError reports a solver failure during a run.
type StepError struct {
	Step int
	// Time is the time the failing step started from.
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sim: step %d failed at t=%.6g: %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }
