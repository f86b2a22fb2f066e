package config

import "sort"

// Presets are named run profiles layered over the defaults.
var Presets = map[string]func(c *Config){
	"coarse": func(c *Config) {
		c.General.Step = 0.1
	},
	"fine": func(c *Config) {
		c.General.Step = 0.001
	},
	"long": func(c *Config) {
		c.General.TMax = 10
		c.General.Step = 0.01
		c.Plotting.ViewportX = [2]float64{-0.5, 10.5}
	},
	"validated": func(c *Config) {
		c.General.Numeric = NumericF64Interval
		c.General.Radius = 0.01
	},
	"oscillator": func(c *Config) {
		c.General.Problem = "oscillator"
		c.General.TMax = 6.3
		c.General.Step = 0.01
		c.Plotting.ViewportX = [2]float64{-0.1, 6.4}
		c.Plotting.ViewportY = [2]float64{-1.6, 1.6}
	},
}

// GetPreset returns the defaults with the named profile applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ApplyPreset layers the named profile over cfg.
func ApplyPreset(cfg *Config, name string) bool {
	apply, ok := Presets[name]
	if ok {
		apply(cfg)
	}
	return ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
