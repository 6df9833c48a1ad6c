package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/physics"
	"github.com/san-kum/ropesim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the chain, solver and driver named by the config. Extra
// metrics are added after the registry defaults.
func (e *Experiment) Setup(r *Registry, extra ...sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	chain, err := physics.NewChainAt(e.cfg.Origin, e.cfg.Particles, e.cfg.Spacing)
	if err != nil {
		return err
	}
	return e.SetupChain(r, chain, extra...)
}

// SetupChain is Setup with a caller-built chain, for perturbed or loaded
// layouts. The chain's length overrides cfg.Particles.
func (e *Experiment) SetupChain(r *Registry, chain *physics.Chain, extra ...sim.Metric) error {
	if err := e.cfg.Params.Validate(); err != nil {
		return err
	}
	e.cfg.Particles = chain.Len()

	solver, err := r.GetSolver(e.cfg.Solver)
	if err != nil {
		return err
	}

	driver, err := r.GetDriver(e.cfg.Driver.Kind, e.cfg.GetDriverParams())
	if err != nil {
		return err
	}

	e.simulator = sim.New(chain, solver, e.cfg.Params, driver)
	for _, m := range r.DefaultMetrics(e.stabilityRadius()) {
		e.simulator.AddMetric(m)
	}
	for _, m := range extra {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.RunConfig())
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// stabilityRadius allows three times the expected hanging length plus the
// reach of any driver.
func (e *Experiment) stabilityRadius() float64 {
	reach := 3 * physics.HangingLength(e.cfg.Particles, e.cfg.Params)
	d := e.cfg.Driver
	switch d.Kind {
	case "orbit":
		reach += dynamo.V(d.CenterX, d.CenterY).Sub(e.cfg.Origin).Len() + d.Radius
	case "pid":
		reach += dynamo.V(d.TargetX, d.TargetY).Sub(e.cfg.Origin).Len()
	}
	return reach
}
