package dynamo

// Solver advances a task one internal step at a time.
//
// Prepare resets the solver for a task and must be called exactly once
// before the first Next. Next returns the time and state of the following
// step; the returned slice is owned by the solver, has length
// task.Size() and is only valid until the next call.
type Solver[T, N any] interface {
	Prepare(task *Task[T, N]) error
	Next(task *Task[T, N]) (T, []N, error)
}
