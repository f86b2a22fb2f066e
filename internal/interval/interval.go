// Package interval implements closed-interval numbers whose arithmetic
// always encloses the exact result of the same operation applied to any
// members of the operands.
package interval

import (
	"fmt"
	"strconv"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Interval is the closed range [Lo, Hi]. Its memory layout is the C
// struct { E start; E end; } exchanged with native solver modules.
type Interval[E constraints.Float] struct {
	Lo E
	Hi E
}

// New returns [min(a,b), max(a,b)].
func New[E constraints.Float](a, b E) Interval[E] {
	if b < a {
		a, b = b, a
	}
	return Interval[E]{Lo: a, Hi: b}
}

// Point returns the singleton interval [v, v].
func Point[E constraints.Float](v E) Interval[E] {
	return Interval[E]{Lo: v, Hi: v}
}

func (x Interval[E]) Add(y Interval[E]) Interval[E] {
	return Interval[E]{Lo: x.Lo + y.Lo, Hi: x.Hi + y.Hi}
}

func (x Interval[E]) Sub(y Interval[E]) Interval[E] {
	return Interval[E]{Lo: x.Lo - y.Hi, Hi: x.Hi - y.Lo}
}

// Mul bounds the product by the extreme endpoint products; near sign
// changes the product is not monotone in either operand.
func (x Interval[E]) Mul(y Interval[E]) Interval[E] {
	return hull(x.Lo*y.Lo, x.Lo*y.Hi, x.Hi*y.Lo, x.Hi*y.Hi)
}

// Div bounds the quotient by the extreme endpoint quotients. A divisor
// containing zero yields infinite or NaN endpoints.
func (x Interval[E]) Div(y Interval[E]) Interval[E] {
	return hull(x.Lo/y.Lo, x.Lo/y.Hi, x.Hi/y.Lo, x.Hi/y.Hi)
}

func (x Interval[E]) Neg() Interval[E] {
	return Interval[E]{Lo: -x.Hi, Hi: -x.Lo}
}

// Scale multiplies both endpoints by the scalar s.
func (x Interval[E]) Scale(s E) Interval[E] {
	if s < 0 {
		return Interval[E]{Lo: s * x.Hi, Hi: s * x.Lo}
	}
	return Interval[E]{Lo: s * x.Lo, Hi: s * x.Hi}
}

func (x Interval[E]) Contains(v E) bool { return x.Lo <= v && v <= x.Hi }

func (x Interval[E]) Width() E { return x.Hi - x.Lo }

func (x Interval[E]) Mid() E { return x.Lo + (x.Hi-x.Lo)/2 }

func (x Interval[E]) String() string {
	return "[" + formatEndpoint(x.Lo, -1) + ".." + formatEndpoint(x.Hi, -1) + "]"
}

// Format renders [lo..hi] and applies a precision such as %.3v to both
// endpoints.
func (x Interval[E]) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v', 's', 'f', 'g', 'e':
	default:
		fmt.Fprintf(f, "%%!%c(interval=%s)", verb, x.String())
		return
	}
	prec, ok := f.Precision()
	if !ok {
		prec = -1
	}
	fmt.Fprint(f, "["+formatEndpoint(x.Lo, prec)+".."+formatEndpoint(x.Hi, prec)+"]")
}

func formatEndpoint[E constraints.Float](v E, prec int) string {
	bits := 8 * int(unsafe.Sizeof(v))
	if prec < 0 {
		return strconv.FormatFloat(float64(v), 'g', -1, bits)
	}
	return strconv.FormatFloat(float64(v), 'f', prec, bits)
}

func hull[E constraints.Float](vs ...E) Interval[E] {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return Interval[E]{Lo: lo, Hi: hi}
}
