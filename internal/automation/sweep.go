package automation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/experiment"
	"github.com/san-kum/ropesim/internal/sim"
)

// ParameterSweep runs the base config across evenly spaced values of one
// parameter. Runs execute concurrently, one chain per run.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Workers   int
}

// SweepResult summarizes one run of a sweep.
type SweepResult struct {
	ParamValue float64
	FinalEnd   dynamo.Vec2
	Metrics    map[string]float64
	Stable     bool
}

// Values lists the parameter values the sweep visits.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.ParamMin}
	}
	step := (s.ParamMax - s.ParamMin) / float64(s.NumSteps-1)
	vals := make([]float64, s.NumSteps)
	for i := range vals {
		vals[i] = s.ParamMin + float64(i)*step
	}
	return vals
}

func workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// RunSweep executes a parameter sweep. Every value is checked before any
// run starts.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}

	values := sweep.Values()
	ens := sim.NewEnsemble(workers(sweep.Workers))
	for _, v := range values {
		cfg := base.Clone()
		p, ok := cfg.Params.With(sweep.ParamName, v)
		if !ok {
			return nil, fmt.Errorf("unknown parameter: %s", sweep.ParamName)
		}
		cfg.Params = p

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
		}
		ens.Add(fmt.Sprintf("%s=%g", sweep.ParamName, v), exp.GetSimulator(), cfg.RunConfig())
	}

	fmt.Printf("Sweeping %s over %d values\n", sweep.ParamName, len(values))
	runs, err := ens.Run(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = summarize(values[i], r)
	}
	return results, nil
}

func summarize(value float64, r *dynamo.Result) SweepResult {
	sr := SweepResult{
		ParamValue: value,
		Metrics:    r.Metrics,
		Stable:     len(r.Errors) == 0,
	}
	if n := len(r.Frames); n > 0 {
		last := r.Frames[n-1]
		sr.FinalEnd = last[len(last)-1]
		sr.Stable = sr.Stable && sr.FinalEnd.IsValid()
	}
	return sr
}
