package sim

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cauchy/internal/dynamo"
)

var _ = Describe("Compare", func() {
	ctx := context.Background()
	stop := Timed[float64]{Maximum: 2}

	It("solves the shared task once per solver, in order", func() {
		task := chain()
		sols, err := Compare[float64, dynamo.F64](ctx, task, stop, euler(0.1), euler(0.05), euler(0.1))
		Expect(err).NotTo(HaveOccurred())
		Expect(sols).To(HaveLen(3))

		Expect(sols[0].Len()).To(Equal(sols[2].Len()))
		Expect(sols[1].Len()).To(BeNumerically(">", sols[0].Len()))

		dev, err := MaxDeviation(sols[0], sols[2])
		Expect(err).NotTo(HaveOccurred())
		Expect(dev).To(BeZero())

		Expect(task.InitialConditions()).To(Equal([]dynamo.F64{1, 0, 0}))
	})

	It("returns the first failure", func() {
		boom := errors.New("boom")
		_, err := Compare[float64, dynamo.F64](ctx, decay(), stop, euler(0.1), &failing{recorder: euler(0.1), at: 2, err: boom})
		Expect(err).To(MatchError(boom))
		Expect(err.Error()).To(ContainSubstring("solver 1"))
	})
})

var _ = Describe("MaxDeviation", func() {
	It("measures the largest pointwise difference", func() {
		a, err := NewSolution([]float64{0, 1}, [][]dynamo.F64{{1, 2}, {3, 4}})
		Expect(err).NotTo(HaveOccurred())
		b, err := NewSolution([]float64{0, 1}, [][]dynamo.F64{{1, 2.5}, {2, 4}})
		Expect(err).NotTo(HaveOccurred())

		Expect(MaxDeviation(a, b)).To(Equal(1.0))
	})

	It("rejects solutions of different shape", func() {
		a, _ := NewSolution([]float64{0, 1}, [][]dynamo.F64{{1, 2}})
		b, _ := NewSolution([]float64{0}, [][]dynamo.F64{{1}})

		_, err := MaxDeviation(a, b)
		Expect(err).To(MatchError(ErrShapeMismatch))
	})
})
