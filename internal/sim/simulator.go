package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/physics"
)

// Stepper advances a chain by one time step.
type Stepper interface {
	Step(c *physics.Chain, p dynamo.Params) error
}

// MaxFrameStep caps a measured frame time so a stalled host does not hand
// the solver a huge step.
const MaxFrameStep = 1.0 / 20

// FrameStep turns a measured frame time into a solver step. The first
// frame reports zero, so fallback is used for non-positive values.
func FrameStep(measured, fallback float64) float64 {
	if measured <= 0 || math.IsNaN(measured) {
		return fallback
	}
	return math.Min(measured, MaxFrameStep)
}

// resetter is implemented by drivers that carry state between frames.
type resetter interface {
	Reset()
}

type Metric interface {
	Name() string
	Observe(c *physics.Chain, p dynamo.Params, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(c *physics.Chain, t float64)
}

// Simulator owns one chain and drives it with a solver and a driver.
// It is not safe for concurrent use.
type Simulator struct {
	chain     *physics.Chain
	solver    Stepper
	params    dynamo.Params
	driver    dynamo.Driver
	metrics   []Metric
	observers []Observer
	t         float64
}

// New builds a simulator. A nil driver leaves the free end alone.
func New(chain *physics.Chain, solver Stepper, params dynamo.Params, driver dynamo.Driver) *Simulator {
	return &Simulator{
		chain:     chain,
		solver:    solver,
		params:    params,
		driver:    driver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Chain() *physics.Chain     { return s.chain }
func (s *Simulator) Params() dynamo.Params     { return s.params }
func (s *Simulator) SetParams(p dynamo.Params) { s.params = p }
func (s *Simulator) Driver() dynamo.Driver     { return s.driver }
func (s *Simulator) Time() float64             { return s.t }

// SetDriver hands the free end to d. A stateful driver starts over from
// wherever the end is now.
func (s *Simulator) SetDriver(d dynamo.Driver) {
	s.driver = d
	resetDriver(d)
}

func resetDriver(d dynamo.Driver) {
	if r, ok := d.(resetter); ok {
		r.Reset()
	}
}

// Advance runs one frame with a measured time step: the driver places the
// free end, then the solver steps.
func (s *Simulator) Advance(dt float64) error {
	p := s.params
	p.TimeStep = dt
	if err := s.frame(p); err != nil {
		return err
	}
	s.t += dt
	return nil
}

// Reset puts the chain back to its initial layout, rewinds time and clears
// the driver's state.
func (s *Simulator) Reset() {
	s.chain.Reset()
	s.t = 0
	resetDriver(s.driver)
	for _, m := range s.metrics {
		m.Reset()
	}
}

func (s *Simulator) frame(p dynamo.Params) error {
	if s.driver != nil {
		if target, ok := s.driver.Target(s.t, s.chain.End()); ok {
			s.chain.SetControlledPosition(target)
		}
	}

	for _, m := range s.metrics {
		m.Observe(s.chain, p, s.t)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.chain, s.t)
	}

	return s.solver.Step(s.chain, p)
}

// Run steps the chain for cfg.Duration at the configured time step and
// records frames. A diverging chain stops the run early; the error is kept
// in Result.Errors and the partial result is returned.
func (s *Simulator) Run(ctx context.Context, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}

	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}
	steps := int(cfg.Duration/s.params.TimeStep + 1e-9)
	result := &dynamo.Result{
		Frames:  make([][]dynamo.Vec2, 0, steps/every+1),
		Times:   make([]float64, 0, steps/every+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Frames = append(result.Frames, s.chain.Positions())
	result.Times = append(result.Times, s.t)

	initialEnergy := s.chain.Energy(s.params)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := s.frame(s.params); err != nil {
			return result, err
		}

		if cfg.ValidateState && !s.chain.IsValid() {
			result.Errors = append(result.Errors, dynamo.SimError{Time: s.t, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		s.t += s.params.TimeStep
		result.StepsTaken++

		if result.StepsTaken%every == 0 {
			result.Frames = append(result.Frames, s.chain.Positions())
			result.Times = append(result.Times, s.t)
		}
	}

	finalEnergy := s.chain.Energy(s.params)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback streams positions instead of recording them. Returning
// false from fn stops the run.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg dynamo.Config, fn func(positions []dynamo.Vec2, t float64) bool) error {
	if err := s.validate(cfg); err != nil {
		return err
	}

	end := s.t + cfg.Duration
	for s.t < end {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !fn(s.chain.Positions(), s.t) {
			return nil
		}

		if err := s.frame(s.params); err != nil {
			return err
		}
		s.t += s.params.TimeStep

		if cfg.ValidateState && !s.chain.IsValid() {
			return dynamo.SimError{Time: s.t, Message: "invalid state (NaN/Inf)"}
		}
	}

	return nil
}

func (s *Simulator) validate(cfg dynamo.Config) error {
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if s.chain == nil || s.chain.Len() < 2 {
		return fmt.Errorf("%w: simulator has no chain", dynamo.ErrInvalidConfiguration)
	}
	if err := s.params.Validate(); err != nil {
		return fmt.Errorf("solver params: %w", err)
	}
	return nil
}
