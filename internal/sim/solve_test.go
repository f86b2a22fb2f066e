package sim

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cauchy/internal/dynamo"
)

var _ = Describe("Solve", func() {
	ctx := context.Background()

	It("starts from the initial conditions", func() {
		task := chain()
		sol, err := Solve[float64, dynamo.F64](ctx, euler(0.1), task, Timed[float64]{Maximum: 1})
		Expect(err).NotTo(HaveOccurred())

		t0, y0 := sol.At(0)
		Expect(t0).To(Equal(task.InitialTime()))
		Expect(y0).To(Equal(task.InitialConditions()))
	})

	It("retains the sample exactly at the maximum", func() {
		s := euler(0.25)
		sol, err := Solve[float64, dynamo.F64](ctx, s, decay(), Timed[float64]{Maximum: 1})
		Expect(err).NotTo(HaveOccurred())

		Expect(sol.Time()).To(Equal([]float64{0, 0.25, 0.5, 0.75, 1}))
		Expect(s.nexts).To(Equal(5))
		Expect(s.last).To(Equal(1.25))
	})

	It("discards the first sample past the maximum", func() {
		s := euler(0.1)
		sol, err := Solve[float64, dynamo.F64](ctx, s, decay(), Timed[float64]{Maximum: 1})
		Expect(err).NotTo(HaveOccurred())

		times := sol.Time()
		Expect(times[len(times)-1]).To(BeNumerically("<=", 1.0))
		Expect(s.last).To(BeNumerically(">", 1.0))
		Expect(s.nexts).To(Equal(sol.Len()))
		Expect(s.prepares).To(Equal(1))
	})

	It("produces nothing when the start is already past the maximum", func() {
		sol, err := Solve[float64, dynamo.F64](ctx, euler(0.1), decay(), Timed[float64]{Maximum: -1})
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Len()).To(BeZero())
		Expect(sol.Size()).To(Equal(1))
	})

	It("bounds a run by step count", func() {
		s := euler(0.1)
		sol, err := Solve[float64, dynamo.F64](ctx, s, decay(), Steps[float64]{Count: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Len()).To(Equal(4))
		Expect(s.nexts).To(Equal(4))
	})

	It("lays components out per sample", func() {
		task := chain()

		var rows [][]dynamo.F64
		err := Stream[float64, dynamo.F64](ctx, euler(0.1), task, Steps[float64]{Count: 6}, func(_ float64, y []dynamo.F64) bool {
			rows = append(rows, append([]dynamo.F64(nil), y...))
			return true
		})
		Expect(err).NotTo(HaveOccurred())

		sol, err := Solve[float64, dynamo.F64](ctx, euler(0.1), task, Steps[float64]{Count: 6})
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Size()).To(Equal(3))
		for i := 0; i < sol.Size(); i++ {
			col := sol.Component(i)
			Expect(col).To(HaveLen(len(rows)))
			for k := range rows {
				Expect(col[k]).To(Equal(rows[k][i]))
			}
		}
	})

	It("matches the decay chain after one step", func() {
		sol, err := Solve[float64, dynamo.F64](ctx, euler(0.1), chain(), Steps[float64]{Count: 1})
		Expect(err).NotTo(HaveOccurred())

		t, y := sol.At(1)
		Expect(t).To(Equal(0.1))
		Expect(y[0]).To(Equal(dynamo.F64(0.9423)))
		Expect(y[1]).To(Equal(dynamo.F64(0.0577)))
	})

	It("keeps samples with the conserved total of the chain", func() {
		sol, err := Solve[float64, dynamo.F64](ctx, euler(0.01), chain(), Timed[float64]{Maximum: 5})
		Expect(err).NotTo(HaveOccurred())
		for k := 0; k < sol.Len(); k++ {
			_, y := sol.At(k)
			Expect(float64(y[0] + y[1] + y[2])).To(BeNumerically("~", 1, 1e-12))
		}
	})

	It("stops when yield declines", func() {
		s := euler(0.1)
		var seen int
		err := Stream[float64, dynamo.F64](ctx, s, decay(), Timed[float64]{Maximum: math.Inf(1)}, func(float64, []dynamo.F64) bool {
			seen++
			return seen < 3
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal(3))
		Expect(s.nexts).To(Equal(2))
	})

	It("honours cancellation of an unbounded run", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var seen int
		err := Stream[float64, dynamo.F64](ctx, euler(0.1), decay(), Timed[float64]{Maximum: math.Inf(1)}, func(float64, []dynamo.F64) bool {
			seen++
			if seen == 10 {
				cancel()
			}
			return true
		})
		Expect(err).To(MatchError(context.Canceled))
		Expect(seen).To(Equal(10))
	})

	It("wraps a failing step with its index and start time", func() {
		boom := errors.New("boom")
		s := &failing{recorder: euler(0.25), at: 3, err: boom}

		sol, err := Solve[float64, dynamo.F64](ctx, s, decay(), Timed[float64]{Maximum: 10})
		Expect(sol).To(BeNil())
		Expect(err).To(MatchError(boom))

		var stepErr *StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Step).To(Equal(3))
		Expect(stepErr.Time).To(Equal(0.5))
	})

	It("reports a solver that cannot be prepared", func() {
		s := &unpreparable{euler(0.1)}

		_, err := Solve[float64, dynamo.F64](ctx, s, decay(), Steps[float64]{Count: 1})
		Expect(s.nexts).To(BeZero())
		Expect(err).To(MatchError(dynamo.ErrNotPrepared))
	})
})

type unpreparable struct{ *recorder }

func (u *unpreparable) Prepare(*dynamo.Task[float64, dynamo.F64]) error { return dynamo.ErrNotPrepared }
