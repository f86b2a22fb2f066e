package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTMax      = 1.0
	DefaultStep      = 0.1
	DefaultOutputDir = "./out/"
	DefaultLibDir    = "./solvers/"
	DefaultSolver    = "euler"
	DefaultProblem   = "decay_chain"
	DefaultPlotW     = 640
	DefaultPlotH     = 480
)

// Number representations a run can integrate with.
const (
	NumericF64         = "f64"
	NumericF32         = "f32"
	NumericF64Interval = "f64_interval"
	NumericF32Interval = "f32_interval"
)

// Plot image formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// BuiltinSolver selects the in-process Euler method; any other solver name
// refers to a native module in LibDir.
const BuiltinSolver = "euler"

type Config struct {
	General  GeneralConfig  `yaml:"general"`
	Plotting PlottingConfig `yaml:"plotting"`
}

type GeneralConfig struct {
	TMax      float64 `yaml:"t_max" env:"CAUCHY_T_MAX"`
	Step      float64 `yaml:"step" env:"CAUCHY_STEP"`
	OutputDir string  `yaml:"output_dir" env:"CAUCHY_OUTPUT_DIR"`
	LibDir    string  `yaml:"lib_dir" env:"CAUCHY_LIB_DIR"`
	Solver    string  `yaml:"solver" env:"CAUCHY_SOLVER"`
	Numeric   string  `yaml:"numeric" env:"CAUCHY_NUMERIC"`
	Problem   string  `yaml:"problem" env:"CAUCHY_PROBLEM"`
	// Radius widens every initial condition to [y0-r, y0+r] for interval runs.
	Radius float64 `yaml:"radius" env:"CAUCHY_RADIUS"`
}

type PlottingConfig struct {
	ViewportX [2]float64 `yaml:"viewport_x,flow"`
	ViewportY [2]float64 `yaml:"viewport_y,flow"`
	PlotSize  [2]int     `yaml:"plot_size,flow"`
	Format    string     `yaml:"format" env:"CAUCHY_PLOT_FORMAT"`
}

func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			TMax:      DefaultTMax,
			Step:      DefaultStep,
			OutputDir: DefaultOutputDir,
			LibDir:    DefaultLibDir,
			Solver:    DefaultSolver,
			Numeric:   NumericF64,
			Problem:   DefaultProblem,
		},
		Plotting: PlottingConfig{
			ViewportX: [2]float64{-0.1, 1.1},
			ViewportY: [2]float64{-0.1, 1.1},
			PlotSize:  [2]int{DefaultPlotW, DefaultPlotH},
			Format:    FormatSVG,
		},
	}
}

// Load reads path over the defaults and applies CAUCHY_* environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields whose CAUCHY_* variable is set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IsInterval reports whether the configured numeric integrates intervals.
func (c *Config) IsInterval() bool {
	return c.General.Numeric == NumericF64Interval || c.General.Numeric == NumericF32Interval
}

func (c *Config) Validate() error {
	g := c.General
	if !(g.Step > 0) || math.IsInf(g.Step, 0) {
		return fmt.Errorf("step must be positive, got %g", g.Step)
	}
	if math.IsNaN(g.TMax) || math.IsInf(g.TMax, 0) {
		return fmt.Errorf("t_max must be finite, got %g", g.TMax)
	}
	if g.Solver == "" {
		return errors.New("solver must not be empty")
	}
	switch g.Numeric {
	case NumericF64, NumericF32, NumericF64Interval, NumericF32Interval:
	default:
		return fmt.Errorf("unknown numeric %q", g.Numeric)
	}
	if g.Radius < 0 || math.IsNaN(g.Radius) {
		return fmt.Errorf("radius must not be negative, got %g", g.Radius)
	}

	p := c.Plotting
	if !(p.ViewportX[0] < p.ViewportX[1]) || !(p.ViewportY[0] < p.ViewportY[1]) {
		return fmt.Errorf("viewport ranges must be increasing, got %v and %v", p.ViewportX, p.ViewportY)
	}
	if p.PlotSize[0] <= 0 || p.PlotSize[1] <= 0 {
		return fmt.Errorf("plot size must be positive, got %v", p.PlotSize)
	}
	if p.Format != FormatSVG && p.Format != FormatPNG {
		return fmt.Errorf("unknown plot format %q", p.Format)
	}
	return nil
}
