package dynamo

import "golang.org/x/exp/constraints"

// Real is the scalar domain used for time and step sizes.
type Real interface {
	constraints.Float
}

// Number is the arithmetic a state component needs for the built-in
// solvers. Scale multiplies by a plain scalar of the time type, which is
// how a step size is applied to a derivative value.
type Number[T Real, N any] interface {
	Add(N) N
	Sub(N) N
	Mul(N) N
	Div(N) N
	Neg() N
	Scale(T) N
}

// F64 is a double precision state component. Its layout is a C double.
type F64 float64

func (a F64) Add(b F64) F64       { return F64(float64(a) + float64(b)) }
func (a F64) Sub(b F64) F64       { return F64(float64(a) - float64(b)) }
func (a F64) Mul(b F64) F64       { return F64(float64(a) * float64(b)) }
func (a F64) Div(b F64) F64       { return F64(float64(a) / float64(b)) }
func (a F64) Neg() F64            { return -a }
func (a F64) Scale(s float64) F64 { return F64(s * float64(a)) }

// F32 is a single precision state component. Its layout is a C float.
type F32 float32

func (a F32) Add(b F32) F32       { return F32(float32(a) + float32(b)) }
func (a F32) Sub(b F32) F32       { return F32(float32(a) - float32(b)) }
func (a F32) Mul(b F32) F32       { return F32(float32(a) * float32(b)) }
func (a F32) Div(b F32) F32       { return F32(float32(a) / float32(b)) }
func (a F32) Neg() F32            { return -a }
func (a F32) Scale(s float32) F32 { return F32(s * float32(a)) }
