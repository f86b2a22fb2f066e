package sim

import "github.com/san-kum/cauchy/internal/dynamo"

// StopCondition decides which samples of a run are kept. The first sample
// it rejects is discarded and ends the run.
//
// The set of conditions is closed: Timed and Steps.
type StopCondition[T dynamo.Real] interface {
	// Keep reports whether the sample at the given step index (0 for the
	// initial conditions) and time belongs to the run.
	Keep(step int, t T) bool
	stopCondition()
}

// Timed keeps samples while t <= Maximum.
type Timed[T dynamo.Real] struct {
	Maximum T
}

func (c Timed[T]) Keep(_ int, t T) bool { return t <= c.Maximum }
func (Timed[T]) stopCondition()         {}

// Steps keeps the initial sample plus Count steps.
type Steps[T dynamo.Real] struct {
	Count int
}

func (c Steps[T]) Keep(step int, _ T) bool { return step <= c.Count }
func (Steps[T]) stopCondition()            {}
