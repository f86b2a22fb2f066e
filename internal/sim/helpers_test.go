package sim

import (
	. "github.com/onsi/gomega"

	"github.com/san-kum/cauchy/internal/dynamo"
	"github.com/san-kum/cauchy/internal/integrators"
)

func decay() *dynamo.Task[float64, dynamo.F64] {
	task, err := dynamo.NewTask([]dynamo.Function[float64, dynamo.F64]{
		dynamo.F(func(_ float64, y [1]dynamo.F64) dynamo.F64 { return y[0].Neg() }),
	}, 0, []dynamo.F64{1})
	Expect(err).NotTo(HaveOccurred())
	return task
}

func chain() *dynamo.Task[float64, dynamo.F64] {
	k1, k2 := 0.577, 0.422
	task, err := dynamo.NewTask([]dynamo.Function[float64, dynamo.F64]{
		dynamo.F(func(_ float64, x [3]dynamo.F64) dynamo.F64 { return x[0].Scale(-k1) }),
		dynamo.F(func(_ float64, x [3]dynamo.F64) dynamo.F64 { return x[0].Scale(k1).Sub(x[1].Scale(k2)) }),
		dynamo.F(func(_ float64, x [3]dynamo.F64) dynamo.F64 { return x[1].Scale(k2) }),
	}, 0, []dynamo.F64{1, 0, 0})
	Expect(err).NotTo(HaveOccurred())
	return task
}

// recorder wraps a solver and remembers what it produced.
type recorder struct {
	dynamo.Solver[float64, dynamo.F64]
	prepares int
	nexts    int
	last     float64
}

func euler(step float64) *recorder {
	return &recorder{Solver: integrators.NewEuler[float64, dynamo.F64](step)}
}

func (r *recorder) Prepare(task *dynamo.Task[float64, dynamo.F64]) error {
	r.prepares++
	return r.Solver.Prepare(task)
}

func (r *recorder) Next(task *dynamo.Task[float64, dynamo.F64]) (float64, []dynamo.F64, error) {
	r.nexts++
	t, y, err := r.Solver.Next(task)
	r.last = t
	return t, y, err
}

// failing fails its Nth call to Next.
type failing struct {
	*recorder
	at  int
	err error
}

func (f *failing) Next(task *dynamo.Task[float64, dynamo.F64]) (float64, []dynamo.F64, error) {
	t, y, err := f.recorder.Next(task)
	if f.nexts == f.at {
		return 0, nil, f.err
	}
	return t, y, err
}
