// Package plot renders reports as SVG or PNG line charts.
package plot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gonum "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/cauchy/internal/config"
	"github.com/san-kum/cauchy/internal/experiment"
)

// pixel is one screen pixel at 96 dpi.
const pixel = vg.Inch / 96

type Options struct {
	ViewportX [2]float64
	ViewportY [2]float64
	Width     int
	Height    int
	Format    string
}

func OptionsFrom(cfg *config.Config) Options {
	p := cfg.Plotting
	return Options{
		ViewportX: p.ViewportX,
		ViewportY: p.ViewportY,
		Width:     p.PlotSize[0],
		Height:    p.PlotSize[1],
		Format:    p.Format,
	}
}

// New builds a chart with one line per component. Interval bounds share
// the component's colour; upper bounds are dashed.
func New(r *experiment.Report, opts Options) (*gonum.Plot, error) {
	if len(r.Labels) != len(r.Columns) {
		return nil, fmt.Errorf("plot: %d labels for %d columns", len(r.Labels), len(r.Columns))
	}

	p := gonum.New()
	p.Title.Text = fmt.Sprintf("%s (%s, %s)", r.Problem, r.Solver, r.Numeric)
	p.X.Label.Text = "t"
	p.Y.Label.Text = "x"
	p.X.Min, p.X.Max = opts.ViewportX[0], opts.ViewportX[1]
	p.Y.Min, p.Y.Max = opts.ViewportY[0], opts.ViewportY[1]
	p.Add(plotter.NewGrid())

	colours := map[string]int{}
	for i, label := range r.Labels {
		if len(r.Columns[i]) != len(r.Time) {
			return nil, fmt.Errorf("plot: column %s has %d samples, want %d", label, len(r.Columns[i]), len(r.Time))
		}

		xys := make(plotter.XYs, len(r.Time))
		for k, t := range r.Time {
			xys[k].X = t
			xys[k].Y = r.Columns[i][k]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("plot: %s: %w", label, err)
		}

		component, bound, _ := strings.Cut(label, "_")
		c, ok := colours[component]
		if !ok {
			c = len(colours)
			colours[component] = c
		}
		line.LineStyle.Color = plotutil.Color(c)
		line.LineStyle.Width = vg.Points(1.5)
		if bound == "hi" {
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}

		p.Add(line)
		p.Legend.Add(label, line)
	}
	p.Legend.Top = true
	return p, nil
}

// Write renders r in opts.Format to w.
func Write(w io.Writer, r *experiment.Report, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("plot: invalid size %dx%d", opts.Width, opts.Height)
	}
	p, err := New(r, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Length(opts.Width)*pixel, vg.Length(opts.Height)*pixel, opts.Format)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save writes the chart to dir/plot.<format> and returns the path.
func Save(dir string, r *experiment.Report, opts Options) (string, error) {
	path := filepath.Join(dir, "plot."+opts.Format)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Write(f, r, opts); err != nil {
		return "", err
	}
	return path, f.Close()
}
