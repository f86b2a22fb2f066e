package dynamo

import "errors"

// Domain errors for task construction and stepping.
var (
	// ErrDimensionMismatch indicates derivatives, initial conditions and
	// function arities that disagree on the system size.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between derivatives and initial conditions")

	// ErrEmptyTask indicates a task without equations.
	ErrEmptyTask = errors.New("dynamo: task has no equations")

	// ErrNotPrepared indicates Next was called before Prepare for the task.
	ErrNotPrepared = errors.New("dynamo: solver not prepared for task")
)
