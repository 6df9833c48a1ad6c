package config

import "sort"

func preset(mod func(c *Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

// Presets are named starting points for the CLI and hosts.
var Presets = map[string]*Config{
	// the desktop window layout: 20 particles hanging at (300, 100)
	"classic": DefaultConfig(),
	"taut": preset(func(c *Config) {
		c.Params.Stiffness = 1500
		c.Params.Damping = 0.9
	}),
	"slack": preset(func(c *Config) {
		c.Params.Stiffness = 120
		c.Params.Damping = 0.98
	}),
	"heavy": preset(func(c *Config) {
		c.Particles = 40
		c.Params.Gravity = 25
	}),
	"whip": preset(func(c *Config) {
		c.Driver.Kind = "orbit"
		c.Driver.Radius = 40
		c.Driver.Speed = 4
		c.Duration = 20
	}),
	"pull": preset(func(c *Config) {
		c.Driver.Kind = "pid"
		c.Params.Damping = 0.97
	}),
	"long": preset(func(c *Config) {
		c.Particles = 100
		c.Spacing = 2
		c.Params.RestLength = 2
		c.View.Scale = 0.5
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

