package native

import (
	"fmt"
	"unsafe"

	"github.com/san-kum/cauchy/internal/dynamo"
	"github.com/san-kum/cauchy/internal/interval"
)

const (
	prepareSymbol  = "solver_prepare_"
	evalNextSymbol = "solver_eval_next_"
)

// Suffix names the exported routines serving time type T and number type N:
//
//	float32, F32                f32_f32
//	float64, F64                f64_f64
//	float64, Interval[float64]  f64_If64
//	float64, Interval[float32]  f64_If32
//	float32, Interval[float64]  f32_If64
//	float32, Interval[float32]  f32_If32
func Suffix[T dynamo.Real, N any]() (string, error) {
	var t T
	timeTag := "f64"
	if unsafe.Sizeof(t) == 4 {
		timeTag = "f32"
	}

	var n N
	var numTag string
	switch any(n).(type) {
	case dynamo.F32, float32:
		numTag = "f32"
	case dynamo.F64, float64:
		numTag = "f64"
	case interval.Interval[float32]:
		numTag = "If32"
	case interval.Interval[float64]:
		numTag = "If64"
	default:
		return "", fmt.Errorf("%w: %T with %T", ErrUnsupportedPair, t, n)
	}

	if (numTag == "f32" || numTag == "f64") && numTag != timeTag {
		return "", fmt.Errorf("%w: %T with %T", ErrUnsupportedPair, t, n)
	}
	return timeTag + "_" + numTag, nil
}
