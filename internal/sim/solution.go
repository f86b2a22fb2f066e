package sim

import "fmt"

// Solution is the sampled trajectory of a run, stored column-major: all
// samples of component 0, then all samples of component 1, and so on.
// It is never modified after Solve returns it.
type Solution[T, N any] struct {
	time    []T
	outputs []N
	size    int
}

// NewSolution builds a solution from sample times and per-component
// columns, each as long as time.
func NewSolution[T, N any](time []T, columns [][]N) (*Solution[T, N], error) {
	acc := &accumulator[T, N]{time: time, columns: columns}
	for i, c := range columns {
		if len(c) != len(time) {
			return nil, fmt.Errorf("%w: component %d has %d samples, want %d", ErrShapeMismatch, i, len(c), len(time))
		}
	}
	return acc.solution(), nil
}

func (s *Solution[T, N]) Time() []T { return s.time[:len(s.time):len(s.time)] }

// Component returns the samples of component i in arrival order.
func (s *Solution[T, N]) Component(i int) []N {
	n := len(s.time)
	return s.outputs[n*i : n*(i+1) : n*(i+1)]
}

// Len is the number of samples.
func (s *Solution[T, N]) Len() int { return len(s.time) }

// Size is the number of components per sample.
func (s *Solution[T, N]) Size() int { return s.size }

// At returns a copy of sample k.
func (s *Solution[T, N]) At(k int) (T, []N) {
	n := len(s.time)
	row := make([]N, s.size)
	for i := range row {
		row[i] = s.outputs[i*n+k]
	}
	return s.time[k], row
}

// accumulator grows one column per component and joins them once the
// run is over.
type accumulator[T, N any] struct {
	time    []T
	columns [][]N
}

func newAccumulator[T, N any](size int) *accumulator[T, N] {
	return &accumulator[T, N]{columns: make([][]N, size)}
}

func (a *accumulator[T, N]) add(t T, y []N) {
	a.time = append(a.time, t)
	for i := range a.columns {
		a.columns[i] = append(a.columns[i], y[i])
	}
}

func (a *accumulator[T, N]) solution() *Solution[T, N] {
	outputs := make([]N, 0, len(a.time)*len(a.columns))
	for _, c := range a.columns {
		outputs = append(outputs, c...)
	}
	return &Solution[T, N]{
		time:    append([]T(nil), a.time...),
		outputs: outputs,
		size:    len(a.columns),
	}
}
