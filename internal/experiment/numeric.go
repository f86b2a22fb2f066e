package experiment

import (
	"github.com/san-kum/cauchy/internal/config"
	"github.com/san-kum/cauchy/internal/dynamo"
	"github.com/san-kum/cauchy/internal/interval"
)

// Numeric describes how float64 problem data maps onto a number type N
// and back onto float64 report columns.
type Numeric[T dynamo.Real, N any] struct {
	Name string
	// Constant lifts an exact coefficient.
	Constant func(float64) N
	// Initial lifts an initial condition.
	Initial func(float64) N
	// Columns is the number of report columns per component.
	Columns int
	// Flatten writes the Columns values of n into dst.
	Flatten func(dst []float64, n N)
}

func F64() Numeric[float64, dynamo.F64] {
	lift := func(v float64) dynamo.F64 { return dynamo.F64(v) }
	return Numeric[float64, dynamo.F64]{
		Name:     config.NumericF64,
		Constant: lift,
		Initial:  lift,
		Columns:  1,
		Flatten:  func(dst []float64, n dynamo.F64) { dst[0] = float64(n) },
	}
}

func F32() Numeric[float32, dynamo.F32] {
	lift := func(v float64) dynamo.F32 { return dynamo.F32(v) }
	return Numeric[float32, dynamo.F32]{
		Name:     config.NumericF32,
		Constant: lift,
		Initial:  lift,
		Columns:  1,
		Flatten:  func(dst []float64, n dynamo.F32) { dst[0] = float64(n) },
	}
}

// IntervalF64 widens initial conditions by radius on both sides.
func IntervalF64(radius float64) Numeric[float64, interval.Interval[float64]] {
	return Numeric[float64, interval.Interval[float64]]{
		Name:     config.NumericF64Interval,
		Constant: interval.Point[float64],
		Initial: func(v float64) interval.Interval[float64] {
			return interval.New(v-radius, v+radius)
		},
		Columns: 2,
		Flatten: func(dst []float64, n interval.Interval[float64]) {
			dst[0], dst[1] = n.Lo, n.Hi
		},
	}
}

func IntervalF32(radius float64) Numeric[float32, interval.Interval[float32]] {
	return Numeric[float32, interval.Interval[float32]]{
		Name: config.NumericF32Interval,
		Constant: func(v float64) interval.Interval[float32] {
			return interval.Point(float32(v))
		},
		Initial: func(v float64) interval.Interval[float32] {
			return interval.New(float32(v-radius), float32(v+radius))
		},
		Columns: 2,
		Flatten: func(dst []float64, n interval.Interval[float32]) {
			dst[0], dst[1] = float64(n.Lo), float64(n.Hi)
		},
	}
}
