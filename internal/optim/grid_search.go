package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/experiment"
)

// GridSearch tries every combination of the listed parameter values and
// keeps the one with the lowest value of a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

// Candidate is one evaluated point of the grid.
type Candidate struct {
	Params map[string]float64
	Score  float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d value ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("no values for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of runs Search performs.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs base once per grid point. Points whose params fail validation
// or whose run errors are skipped; a NaN score never wins. It fails only when
// no point produced a score.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, registry *experiment.Registry, metricName string) (Candidate, error) {
	if base == nil {
		base = config.DefaultConfig()
	}
	best := Candidate{Score: math.Inf(1)}

	err := g.searchRecursive(ctx, 0, map[string]float64{}, func(point map[string]float64) error {
		cfg := base.Clone()
		for name, v := range point {
			p, ok := cfg.Params.With(name, v)
			if !ok {
				return fmt.Errorf("unknown parameter: %s", name)
			}
			cfg.Params = p
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return nil
		}
		result, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("unknown metric: %s", metricName)
		}
		if val < best.Score {
			best = Candidate{Params: copyParams(point), Score: val}
		}
		return nil
	})
	if err != nil {
		return Candidate{}, err
	}
	if best.Params == nil {
		return Candidate{}, fmt.Errorf("no grid point produced a valid run")
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, eval func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return eval(current)
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := copyParams(current)
		next[name] = val
		if err := g.searchRecursive(ctx, depth+1, next, eval); err != nil {
			return err
		}
	}
	return nil
}

func copyParams(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
