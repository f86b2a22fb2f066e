package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"
)

// Source yields samples of a run one at a time. The row may be reused
// by the following call.
type Source interface {
	Next() (t float64, row []float64, ok bool)
	Err() error
}

const (
	historyCapacity = 240
	maxStepsPerTick = 1024
	frameInterval   = time.Second / 30
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LiveModel steps a Source on every frame and shows its recent history.
type LiveModel struct {
	src    Source
	title  string
	labels []string
	tMax   float64

	t       float64
	samples int
	history [][]float64

	running       bool
	done          bool
	err           error
	stepsPerTick  int
	phasePortrait bool

	width, height int
}

func NewLiveModel(src Source, title string, labels []string, tMax float64) LiveModel {
	return LiveModel{
		src:          src,
		title:        title,
		labels:       labels,
		tMax:         tMax,
		history:      make([][]float64, len(labels)),
		running:      true,
		stepsPerTick: 1,
		width:        60,
		height:       12,
	}
}

func (m LiveModel) Init() tea.Cmd { return tick() }

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			if m.stepsPerTick < maxStepsPerTick {
				m.stepsPerTick *= 2
			}
		case "-", "_":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		case "p":
			m.phasePortrait = !m.phasePortrait
		}
	case tea.WindowSizeMsg:
		m.width = max(20, msg.Width-16)
		m.height = max(4, msg.Height/2-4)
	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.running {
			m.advance()
		}
		if m.done {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) advance() {
	for range m.stepsPerTick {
		t, row, ok := m.src.Next()
		if !ok {
			m.done = true
			m.err = m.src.Err()
			return
		}
		m.t = t
		m.samples++
		for i := range m.history {
			if i >= len(row) {
				break
			}
			h := append(m.history[i], row[i])
			if len(h) > historyCapacity {
				h = h[len(h)-historyCapacity:]
			}
			m.history[i] = h
		}
	}
}

// Done reports whether the source is exhausted.
func (m LiveModel) Done() bool { return m.done }

func (m LiveModel) Err() error { return m.err }

func (m LiveModel) Samples() int { return m.samples }

func (m LiveModel) View() string {
	var b strings.Builder

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = StatusError.Render("FAILED")
	case m.done:
		status = StatusDone.Render("DONE")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	b.WriteString(Title.Render(m.title) + "  " + status + "\n\n")

	fraction := 1.0
	if m.tMax > 0 && !m.done {
		fraction = m.t / m.tMax
	}
	b.WriteString(ProgressBar(fraction, 30) + fmt.Sprintf(" t=%.4g / %g\n", m.t, m.tMax))
	b.WriteString(Row("samples", fmt.Sprint(m.samples)) + "  " + Row("steps/frame", fmt.Sprint(m.stepsPerTick)) + "\n\n")

	if m.samples > 0 {
		for i, l := range m.labels {
			if h := m.history[i]; len(h) > 0 {
				b.WriteString(Row(l, formatFloat(h[len(h)-1])) + "\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(m.plot())
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(StatusError.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + KeyHint.Render("space pause · +/- speed · p phase · q quit"))
	return Panel.Render(b.String())
}

func (m LiveModel) plot() string {
	if m.phasePortrait && len(m.history) >= 2 {
		return m.phase()
	}
	if len(m.history) == 0 || len(m.history[0]) < 2 {
		return ""
	}
	colors := make([]asciigraph.AnsiColor, len(m.history))
	for i := range colors {
		colors[i] = seriesColors[i%len(seriesColors)]
	}
	return asciigraph.PlotMany(m.history,
		asciigraph.Height(m.height),
		asciigraph.Width(m.width),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(m.labels...),
	)
}

// phase draws the first two columns against each other.
func (m LiveModel) phase() string {
	xs, ys := m.history[0], m.history[1]
	if len(xs) == 0 || len(ys) == 0 {
		return ""
	}
	c := NewCanvas(m.width/2, m.height, bounds(xs), bounds(ys))
	for k := 1; k < len(xs) && k < len(ys); k++ {
		c.Line(xs[k-1], ys[k-1], xs[k], ys[k])
	}
	if len(xs) == 1 && len(ys) == 1 {
		c.Point(xs[0], ys[0])
	}
	return Subtle.Render(fmt.Sprintf("%s vs %s", m.labels[1], m.labels[0])) + "\n" + c.String()
}

// bounds spans values with a small margin; a flat series gets a unit range.
func bounds(values []float64) [2]float64 {
	lo, hi := floats.Min(values), floats.Max(values)
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(hi-lo, 0) {
		return [2]float64{-1, 1}
	}
	if hi-lo < 1e-12 {
		return [2]float64{lo - 0.5, hi + 0.5}
	}
	pad := (hi - lo) * 0.05
	return [2]float64{lo - pad, hi + pad}
}

// RunLive shows src until the user quits.
func RunLive(src Source, title string, labels []string, tMax float64) error {
	final, err := tea.NewProgram(NewLiveModel(src, title, labels, tMax), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(LiveModel); ok {
		return m.Err()
	}
	return nil
}
