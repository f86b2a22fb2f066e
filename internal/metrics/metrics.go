// Package metrics measures runs sample by sample.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Metric accumulates a quantity over the rows of a run.
type Metric interface {
	Name() string
	Observe(t float64, x []float64)
	Value() float64
	Reset()
}

// Result is a measured value.
type Result struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Measure feeds every row of the column-major data to ms.
func Measure(time []float64, columns [][]float64, ms ...Metric) []Result {
	row := make([]float64, len(columns))
	for k, t := range time {
		for i, c := range columns {
			row[i] = c[k]
		}
		for _, m := range ms {
			m.Observe(t, row)
		}
	}

	results := make([]Result, len(ms))
	for i, m := range ms {
		results[i] = Result{Name: m.Name(), Value: m.Value()}
	}
	return results
}

// Invariant is a quantity the exact solution keeps constant.
type Invariant func(x []float64) float64

// Drift tracks how far an invariant strays from its value at the first
// sample, relative to that value unless it is zero.
type Drift struct {
	name      string
	invariant Invariant
	initial   float64
	maxDrift  float64
	samples   int
}

func NewDrift(name string, inv Invariant) *Drift {
	return &Drift{name: name + "_drift", invariant: inv}
}

func (d *Drift) Name() string { return d.name }

func (d *Drift) Observe(_ float64, x []float64) {
	v := d.invariant(x)
	if d.samples == 0 {
		d.initial = v
	}
	d.samples++

	drift := math.Abs(v - d.initial)
	if d.initial != 0 {
		drift /= math.Abs(d.initial)
	}
	d.maxDrift = math.Max(d.maxDrift, drift)
}

func (d *Drift) Value() float64 { return d.maxDrift }

func (d *Drift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}

// Stability is the fraction of samples whose values are all finite and no
// larger than threshold in magnitude.
type Stability struct {
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(_ float64, x []float64) {
	s.samples++
	for _, v := range x {
		if math.IsNaN(v) || math.Abs(v) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Width is the largest interval width seen in rows of lo, hi pairs.
type Width struct {
	max float64
}

func NewWidth() *Width { return &Width{} }

func (w *Width) Name() string { return "max_width" }

func (w *Width) Observe(_ float64, x []float64) {
	for i := 0; i+1 < len(x); i += 2 {
		w.max = math.Max(w.max, x[i+1]-x[i])
	}
}

func (w *Width) Value() float64 { return w.max }

func (w *Width) Reset() { w.max = 0 }

// Midpoints adapts a metric over component values to rows of lo, hi
// pairs by observing each pair's midpoint.
func Midpoints(m Metric) Metric {
	return &midpoints{Metric: m}
}

type midpoints struct {
	Metric
	buf []float64
}

func (m *midpoints) Observe(t float64, x []float64) {
	m.buf = m.buf[:0]
	for i := 0; i+1 < len(x); i += 2 {
		m.buf = append(m.buf, x[i]+(x[i+1]-x[i])/2)
	}
	m.Metric.Observe(t, m.buf)
}

// Mass is the sum of all components.
func Mass(x []float64) float64 {
	return floats.Sum(x)
}

// Energy is half the squared norm of the state.
func Energy(x []float64) float64 {
	return floats.Dot(x, x) / 2
}
