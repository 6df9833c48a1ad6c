package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ropesim/internal/dynamo"
)

const (
	DefaultOriginX  = 300.0
	DefaultOriginY  = 100.0
	DefaultDuration = 10.0
	DefaultSolver   = "gauss-seidel"
	DefaultDriver   = "none"
	DefaultRadius   = 30.0
	DefaultSpeed    = 2.0
	DefaultKp       = 4.0
	DefaultKi       = 0.0
	DefaultKd       = 0.1
	DefaultScale    = 1.0
)

type Config struct {
	Particles int           `yaml:"particles"`
	Spacing   float64       `yaml:"spacing"`
	Origin    dynamo.Vec2   `yaml:"origin"`
	Duration  float64       `yaml:"duration"`
	Solver    string        `yaml:"solver"`
	Params    dynamo.Params `yaml:"params"`
	Driver    DriverConfig  `yaml:"driver"`
	View      ViewConfig    `yaml:"view"`
}

// DriverConfig selects what holds the free end in batch runs.
type DriverConfig struct {
	Kind    string  `yaml:"kind"`
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	Radius  float64 `yaml:"radius"`
	Speed   float64 `yaml:"speed"`
	TargetX float64 `yaml:"target_x"`
	TargetY float64 `yaml:"target_y"`
	Kp      float64 `yaml:"kp"`
	Ki      float64 `yaml:"ki"`
	Kd      float64 `yaml:"kd"`
}

// ViewConfig maps world units to screen pixels in the hosts.
type ViewConfig struct {
	Scale float64 `yaml:"scale"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles: dynamo.DefaultParticles,
		Spacing:   dynamo.DefaultRestLength,
		Origin:    dynamo.V(DefaultOriginX, DefaultOriginY),
		Duration:  DefaultDuration,
		Solver:    DefaultSolver,
		Params:    dynamo.DefaultParams(),
		Driver: DriverConfig{
			Kind:    DefaultDriver,
			CenterX: DefaultOriginX,
			CenterY: DefaultOriginY + 2*dynamo.DefaultParticles,
			Radius:  DefaultRadius,
			Speed:   DefaultSpeed,
			TargetX: DefaultOriginX + 2*dynamo.DefaultParticles,
			TargetY: DefaultOriginY,
			Kp:      DefaultKp,
			Ki:      DefaultKi,
			Kd:      DefaultKd,
		},
		View: ViewConfig{Scale: DefaultScale},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the chain layout and solver parameters.
func (c *Config) Validate() error {
	if c.Particles < 2 {
		return fmt.Errorf("%w: particles must be >= 2, got %d", dynamo.ErrInvalidConfiguration, c.Particles)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("params: %w", err)
	}
	return nil
}

// Clone returns a deep copy, so presets can be modified safely.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) RunConfig() dynamo.Config {
	rc := dynamo.DefaultConfig()
	rc.Duration = c.Duration
	return rc
}

func (c *Config) GetDriverParams() map[string]float64 {
	return map[string]float64{
		"center_x": c.Driver.CenterX,
		"center_y": c.Driver.CenterY,
		"radius":   c.Driver.Radius,
		"speed":    c.Driver.Speed,
		"target_x": c.Driver.TargetX,
		"target_y": c.Driver.TargetY,
		"kp":       c.Driver.Kp,
		"ki":       c.Driver.Ki,
		"kd":       c.Driver.Kd,
	}
}
