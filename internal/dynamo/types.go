package dynamo

import "math"

const (
	DefaultParticles  = 20
	DefaultRestLength = 1.0
	DefaultStiffness  = 500.0
	DefaultDamping    = 0.95
	DefaultGravity    = 10.0
	DefaultTimeStep   = 1.0 / 60.0
)

// Params are the solver inputs of a single step.
//
// The spring force is stiffness*extension*TimeStep and is applied as a
// velocity change of force*TimeStep, so the effective impulse is quadratic
// in TimeStep. Large steps destabilize the chain; that is part of the model.
type Params struct {
	Stiffness  float64 `json:"stiffness" yaml:"stiffness"`
	RestLength float64 `json:"rest_length" yaml:"rest_length"`
	Damping    float64 `json:"damping" yaml:"damping"`
	Gravity    float64 `json:"gravity" yaml:"gravity"`
	TimeStep   float64 `json:"time_step" yaml:"time_step"`
}

func DefaultParams() Params {
	return Params{
		Stiffness:  DefaultStiffness,
		RestLength: DefaultRestLength,
		Damping:    DefaultDamping,
		Gravity:    DefaultGravity,
		TimeStep:   DefaultTimeStep,
	}
}

// Validate checks every field against its domain. Stiffness 0 disables the
// springs and damping 0 zeroes velocity before gravity; both are accepted.
func (p Params) Validate() error {
	checks := []struct {
		name   string
		value  float64
		ok     bool
		reason string
	}{
		{"stiffness", p.Stiffness, p.Stiffness >= 0, "must be >= 0"},
		{"rest_length", p.RestLength, p.RestLength > 0, "must be > 0"},
		{"damping", p.Damping, p.Damping >= 0 && p.Damping <= 1, "must be in [0, 1]"},
		{"gravity", p.Gravity, p.Gravity >= 0, "must be >= 0"},
		{"time_step", p.TimeStep, p.TimeStep > 0, "must be > 0"},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &ParamError{Name: c.name, Value: c.value, Reason: "must be finite"}
		}
		if !c.ok {
			return &ParamError{Name: c.name, Value: c.value, Reason: c.reason}
		}
	}
	return nil
}

// Get returns a parameter by its config name.
func (p Params) Get(name string) (float64, bool) {
	switch name {
	case "stiffness", "k":
		return p.Stiffness, true
	case "rest_length":
		return p.RestLength, true
	case "damping":
		return p.Damping, true
	case "gravity":
		return p.Gravity, true
	case "time_step", "dt":
		return p.TimeStep, true
	}
	return 0, false
}

// With returns a copy of p with one parameter replaced. Unknown names leave
// p unchanged and report false.
func (p Params) With(name string, value float64) (Params, bool) {
	switch name {
	case "stiffness", "k":
		p.Stiffness = value
	case "rest_length":
		p.RestLength = value
	case "damping":
		p.Damping = value
	case "gravity":
		p.Gravity = value
	case "time_step", "dt":
		p.TimeStep = value
	default:
		return p, false
	}
	return p, true
}

// ParamNames lists the tunable parameters in display order.
func ParamNames() []string {
	return []string{"stiffness", "rest_length", "damping", "gravity", "time_step"}
}

// Driver supplies the controlled particle's target position. A false
// second result means nothing holds the free end this step. Drivers that
// keep state between frames may add a Reset method; the simulator calls it
// on reset and whenever the driver is handed the end.
type Driver interface {
	Target(t float64, end Vec2) (Vec2, bool)
}

// Config controls the length and recording of a simulator run.
type Config struct {
	Duration      float64
	RecordEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Duration:      10.0,
		RecordEvery:   1,
		ValidateState: true,
	}
}

// Result holds the recorded frames of a run.
type Result struct {
	Frames      [][]Vec2
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}
