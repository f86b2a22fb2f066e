package viz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cauchy/internal/experiment"
)

// Chart draws every column of r against the sample index.
func Chart(r *experiment.Report, width, height int) string {
	if len(r.Time) < 2 || len(r.Columns) == 0 {
		return Subtle.Render("not enough samples to chart")
	}
	colors := make([]asciigraph.AnsiColor, len(r.Columns))
	for i := range colors {
		colors[i] = seriesColors[i%len(seriesColors)]
	}
	return asciigraph.PlotMany(r.Columns,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(r.Labels...),
		asciigraph.Caption(fmt.Sprintf("%s / %s (%s), t in [%g, %g]",
			r.Problem, r.Solver, r.Numeric, r.Time[0], r.Time[len(r.Time)-1])),
	)
}

// Summary lists the run parameters and the last value of every column.
func Summary(r *experiment.Report) string {
	rows := []string{
		Title.Render(r.Problem),
		Row("solver", r.Solver),
		Row("numeric", r.Numeric),
		Row("step", formatFloat(r.Step)),
		Row("t_max", formatFloat(r.TMax)),
		Row("samples", strconv.Itoa(len(r.Time))),
	}
	if r.Module != "" {
		rows = append(rows, Row("module", r.Module))
	}
	if r.Elapsed > 0 {
		rows = append(rows, Row("elapsed", r.Elapsed.String()))
	}
	if len(r.Metrics) > 0 {
		rows = append(rows, "")
		for _, m := range r.Metrics {
			rows = append(rows, Row(m.Name, formatFloat(m.Value)))
		}
	}
	if n := len(r.Time); n > 0 {
		rows = append(rows, "", Subtle.Render(fmt.Sprintf("at t=%s", formatFloat(r.Time[n-1]))))
		for i, l := range r.Labels {
			rows = append(rows, Row(l, formatFloat(r.Columns[i][n-1])))
		}
	}
	return Panel.Render(strings.Join(rows, "\n"))
}

// ComparisonTable lists the final values of every solver side by side
// with the deviation from the first solver.
func ComparisonTable(c *experiment.Comparison) string {
	if len(c.Reports) == 0 {
		return ""
	}
	labels := c.Reports[0].Labels

	header := []string{Label.Render("solver")}
	for _, l := range labels {
		header = append(header, Label.Render(l))
	}
	header = append(header, Label.Render("max dev"))
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for i, r := range c.Reports {
		cells := []string{Label.Render(r.Solver)}
		n := len(r.Time)
		for j := range labels {
			v := "-"
			if j < len(r.Columns) && n > 0 {
				v = formatFloat(r.Columns[j][n-1])
			}
			cells = append(cells, Label.Render(v))
		}
		dev := "n/a"
		if i < len(c.Deviations) {
			dev = formatFloat(c.Deviations[i])
		}
		cells = append(cells, Value.Render(dev))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
