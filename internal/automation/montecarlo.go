package automation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/experiment"
	"github.com/san-kum/ropesim/internal/physics"
	"github.com/san-kum/ropesim/internal/sim"
)

// MonteCarloConfig jitters the initial layout of every particle but the
// anchor by up to Perturbation in each axis.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	Workers      int
}

type MonteCarloResult struct {
	TrialID  int
	FinalEnd dynamo.Vec2
	Metrics  map[string]float64
	Stable   bool
}

// RunMonteCarlo executes multiple trials with random perturbations
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	base := cfg.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	ens := sim.NewEnsemble(workers(cfg.Workers))
	for trial := 0; trial < cfg.NumTrials; trial++ {
		layout, err := physics.NewChainAt(base.Origin, base.Particles, base.Spacing)
		if err != nil {
			return nil, err
		}
		positions := layout.Positions()
		for i := 1; i < len(positions); i++ {
			positions[i] = positions[i].Add(dynamo.V(
				(rng.Float64()-0.5)*2*cfg.Perturbation,
				(rng.Float64()-0.5)*2*cfg.Perturbation,
			))
		}
		chain, err := physics.FromPositions(positions)
		if err != nil {
			return nil, err
		}

		trialCfg := base.Clone()
		exp := experiment.New(trialCfg)
		if err := exp.SetupChain(registry, chain); err != nil {
			return nil, err
		}
		ens.Add(fmt.Sprintf("trial %d", trial), exp.GetSimulator(), trialCfg.RunConfig())
	}

	runs, err := ens.Run(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		sr := summarize(0, r)
		results[i] = MonteCarloResult{
			TrialID:  i,
			FinalEnd: sr.FinalEnd,
			Metrics:  sr.Metrics,
			Stable:   sr.Stable,
		}
	}
	fmt.Printf("Monte Carlo: %d trials complete\n", len(results))
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
