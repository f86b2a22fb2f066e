package dynamo

import "fmt"

// Function is one size-erased derivative f_i(t, y) -> y_i'.
//
// Eval panics when len(y) differs from Arity: a wrong-sized state is a
// programming error on the caller's (or a native module's) side.
type Function[T, N any] interface {
	Eval(t T, y []N) N
	Arity() int
}

// Array is the set of fixed-size unknown vectors a derivative written
// with [F] may take.
type Array[N any] interface {
	~[1]N | ~[2]N | ~[3]N | ~[4]N | ~[5]N | ~[6]N | ~[7]N | ~[8]N |
		~[9]N | ~[10]N | ~[11]N | ~[12]N | ~[13]N | ~[14]N | ~[15]N | ~[16]N
}

// F wraps a derivative written against exactly len(A) unknowns.
//
//	dynamo.F(func(t float64, y [2]dynamo.F64) dynamo.F64 { return y[1] })
func F[A Array[N], T, N any](fn func(t T, y A) N) Function[T, N] {
	if fn == nil {
		panic("dynamo: nil derivative")
	}
	return arrayFunc[A, T, N]{fn: fn}
}

type arrayFunc[A Array[N], T, N any] struct {
	fn func(T, A) N
}

func (f arrayFunc[A, T, N]) Arity() int {
	var a A
	return len(a)
}

func (f arrayFunc[A, T, N]) Eval(t T, y []N) N {
	var a A
	if len(y) != len(a) {
		panic(fmt.Sprintf("dynamo: derivative expects %d unknowns, got %d", len(a), len(y)))
	}
	return f.fn(t, A(y))
}

// Func wraps a derivative over a state whose size is only known at
// runtime, e.g. a system assembled from configuration.
func Func[T, N any](arity int, fn func(t T, y []N) N) Function[T, N] {
	if arity < 1 {
		panic(fmt.Sprintf("dynamo: arity must be positive, got %d", arity))
	}
	if fn == nil {
		panic("dynamo: nil derivative")
	}
	return sliceFunc[T, N]{arity: arity, fn: fn}
}

type sliceFunc[T, N any] struct {
	arity int
	fn    func(T, []N) N
}

func (f sliceFunc[T, N]) Arity() int { return f.arity }

func (f sliceFunc[T, N]) Eval(t T, y []N) N {
	if len(y) != f.arity {
		panic(fmt.Sprintf("dynamo: derivative expects %d unknowns, got %d", f.arity, len(y)))
	}
	return f.fn(t, y)
}
