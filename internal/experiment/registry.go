package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/ropesim/internal/control"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/metrics"
	"github.com/san-kum/ropesim/internal/physics"
	"github.com/san-kum/ropesim/internal/sim"
)

type Registry struct {
	solvers map[string]func() sim.Stepper
	drivers map[string]func(map[string]float64) dynamo.Driver
}

func NewRegistry() *Registry {
	r := &Registry{
		solvers: make(map[string]func() sim.Stepper),
		drivers: make(map[string]func(map[string]float64) dynamo.Driver),
	}

	r.solvers["gauss-seidel"] = func() sim.Stepper { return physics.NewSpringSolver() }
	r.solvers["jacobi"] = func() sim.Stepper { return physics.NewJacobiSolver() }

	r.drivers["none"] = func(params map[string]float64) dynamo.Driver {
		return control.NewNone()
	}
	r.drivers["manual"] = func(params map[string]float64) dynamo.Driver {
		return control.NewManual()
	}
	r.drivers["orbit"] = func(params map[string]float64) dynamo.Driver {
		center := dynamo.V(params["center_x"], params["center_y"])
		return control.NewOrbit(center, params["radius"], params["speed"])
	}
	r.drivers["pid"] = func(params map[string]float64) dynamo.Driver {
		target := dynamo.V(params["target_x"], params["target_y"])
		return control.NewPID(params["kp"], params["ki"], params["kd"], target)
	}

	return r
}

func (r *Registry) GetSolver(name string) (sim.Stepper, error) {
	fn, ok := r.solvers[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetDriver(name string, params map[string]float64) (dynamo.Driver, error) {
	fn, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("unknown driver: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) ListSolvers() []string {
	return sortedKeys(r.solvers)
}

func (r *Registry) ListDrivers() []string {
	return sortedKeys(r.drivers)
}

// DefaultMetrics returns fresh metric instances; radius bounds the
// stability check around the anchor.
func (r *Registry) DefaultMetrics(radius float64) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewStretch(),
		metrics.NewStability(radius),
		metrics.NewTravel(),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
