package native

import (
	"unsafe"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cauchy/internal/dynamo"
)

// fakeModule implements the f64_f64 routines in Go, reading the task view
// the way a native module would.
type fakeModule struct {
	prepares int
	evals    int

	t     float64
	state []dynamo.F64

	// arity overrides the size passed to derivatives when non-zero.
	arity uintptr
	// null makes eval_next return no state.
	null bool
}

func (f *fakeModule) binding() *binding {
	return &binding{
		prepare: func(view unsafe.Pointer) {
			v := (*taskView[float64, dynamo.F64])(view)
			f.prepares++
			f.t = v.initialTime
			f.state = append([]dynamo.F64(nil), unsafe.Slice(v.initial, v.size)...)
		},
		evalNext: func(view, outTime unsafe.Pointer) unsafe.Pointer {
			v := (*taskView[float64, dynamo.F64])(view)
			f.evals++
			if f.null {
				return nil
			}

			n := v.size
			if f.arity != 0 {
				n = f.arity
			}
			next := make([]dynamo.F64, v.size)
			for i, c := range unsafe.Slice(v.derivatives, v.size) {
				var d dynamo.F64
				dispatch(c.ctx, unsafe.Pointer(&f.t), unsafe.Pointer(&f.state[0]), n, unsafe.Pointer(&d))
				next[i] = f.state[i].Add(d.Scale(0.1))
			}
			f.state = next
			f.t += 0.1
			*(*float64)(outTime) = f.t
			return unsafe.Pointer(&f.state[0])
		},
	}
}

func decayTask() *dynamo.Task[float64, dynamo.F64] {
	GinkgoHelper()
	task, err := dynamo.NewTask([]dynamo.Function[float64, dynamo.F64]{
		dynamo.F(func(_ float64, y [1]dynamo.F64) dynamo.F64 { return y[0].Neg() }),
	}, 0, []dynamo.F64{1})
	Expect(err).NotTo(HaveOccurred())
	return task
}

var _ = Describe("ExternalSolver", func() {
	var (
		fake     *fakeModule
		solver   *ExternalSolver[float64, dynamo.F64]
		task     *dynamo.Task[float64, dynamo.F64]
		baseline int
	)

	BeforeEach(func() {
		baseline = handles.len()
		fake = &fakeModule{}
		solver = newExternal[float64, dynamo.F64](nil, fake.binding())
		task = decayTask()
	})

	AfterEach(func() {
		Expect(solver.Close()).To(Succeed())
	})

	It("passes the task through the view and steps it", func() {
		Expect(solver.Prepare(task)).To(Succeed())
		Expect(fake.prepares).To(Equal(1))
		Expect(fake.state).To(Equal([]dynamo.F64{1}))

		t, y, err := solver.Next(task)
		Expect(err).NotTo(HaveOccurred())
		Expect(t).To(Equal(0.1))
		Expect(y).To(Equal([]dynamo.F64{0.9}))
		Expect(fake.evals).To(Equal(1))
	})

	It("copies the state out of module memory", func() {
		Expect(solver.Prepare(task)).To(Succeed())
		_, y, err := solver.Next(task)
		Expect(err).NotTo(HaveOccurred())

		fake.state[0] = 42
		Expect(y[0]).To(Equal(dynamo.F64(0.9)))
	})

	It("registers one handle per derivative while prepared", func() {
		Expect(solver.Prepare(task)).To(Succeed())
		Expect(handles.len()).To(Equal(baseline + 1))

		Expect(solver.Prepare(task)).To(Succeed())
		Expect(handles.len()).To(Equal(baseline + 1))

		Expect(solver.Close()).To(Succeed())
		Expect(handles.len()).To(Equal(baseline))
	})

	It("refuses to step an unprepared task", func() {
		_, _, err := solver.Next(task)
		Expect(err).To(MatchError(dynamo.ErrNotPrepared))
		Expect(fake.evals).To(BeZero())

		Expect(solver.Prepare(task)).To(Succeed())
		_, _, err = solver.Next(decayTask())
		Expect(err).To(MatchError(dynamo.ErrNotPrepared))
	})

	It("reports a null state", func() {
		fake.null = true
		Expect(solver.Prepare(task)).To(Succeed())

		_, y, err := solver.Next(task)
		Expect(err).To(MatchError(ErrNullResult))
		Expect(y).To(BeNil())
	})

	It("re-raises a derivative panic in Go", func() {
		fake.arity = 2
		Expect(solver.Prepare(task)).To(Succeed())

		Expect(func() { solver.Next(task) }).To(PanicWith(ContainSubstring("expects 1 unknowns, got 2")))
	})

	It("refuses calls after Close", func() {
		Expect(solver.Prepare(task)).To(Succeed())
		Expect(solver.Close()).To(Succeed())
		Expect(solver.Close()).To(Succeed())

		_, _, err := solver.Next(task)
		Expect(err).To(MatchError(ErrClosed))
		Expect(solver.Prepare(task)).To(MatchError(ErrClosed))
		Expect(fake.evals).To(BeZero())
	})
})
