// Package dynamo provides the core primitives for integrating first-order
// ordinary differential equations given in Cauchy form:
//
//	y_i' = f_i(t, y_1, ..., y_n),   y_i(t0) = y0_i
//
// The package defines:
//
//   - [Real] and [Number]: the time domain and the arithmetic a state
//     component must support (plain scalars [F32], [F64] or intervals)
//   - [Function]: a size-erased derivative f_i built with [F] or [Func]
//   - [Task]: the immutable initial-value problem
//   - [Solver]: the stateful stepping protocol shared by the built-in and
//     the native strategies
//
// # Example
//
//	k := dynamo.F64(0.5)
//	task, err := dynamo.NewTask(
//		[]dynamo.Function[float64, dynamo.F64]{
//			dynamo.F(func(t float64, y [1]dynamo.F64) dynamo.F64 { return -k * y[0] }),
//		},
//		0, []dynamo.F64{1},
//	)
//
// # Thread Safety
//
// A [Task] is read-only after construction and may be shared by any number
// of solvers. Solver instances are NOT thread-safe; each driver owns its own.
package dynamo
