package optim

import (
	"context"
	"testing"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/experiment"
)

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Particles = 5
	cfg.Duration = 0.5
	return cfg
}

func TestNewGridSearchMismatch(t *testing.T) {
	if _, err := NewGridSearch([]string{"stiffness"}, nil); err == nil {
		t.Error("expected error for missing range")
	}
	if _, err := NewGridSearch([]string{"stiffness"}, [][]float64{{}}); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestGridSearchSize(t *testing.T) {
	g, err := NewGridSearch([]string{"stiffness", "damping"}, [][]float64{{100, 200, 300}, {0.9, 0.99}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 6 {
		t.Errorf("expected 6 grid points, got %d", g.Size())
	}
}

func TestGridSearchPrefersStifferSprings(t *testing.T) {
	g, err := NewGridSearch([]string{"stiffness"}, [][]float64{{50, 500, 2000}})
	if err != nil {
		t.Fatal(err)
	}

	best, err := g.Search(context.Background(), shortConfig(), experiment.NewRegistry(), "max_stretch")
	if err != nil {
		t.Fatal(err)
	}
	if best.Params["stiffness"] != 2000 {
		t.Errorf("expected stiffest springs to stretch least, got %v", best.Params)
	}
}

func TestGridSearchSkipsInvalidPoints(t *testing.T) {
	g, err := NewGridSearch([]string{"damping"}, [][]float64{{-1, 0.9}})
	if err != nil {
		t.Fatal(err)
	}

	best, err := g.Search(context.Background(), shortConfig(), experiment.NewRegistry(), "max_stretch")
	if err != nil {
		t.Fatal(err)
	}
	if best.Params["damping"] != 0.9 {
		t.Errorf("expected only the valid point, got %v", best.Params)
	}
}

func TestGridSearchUnknownNames(t *testing.T) {
	g, _ := NewGridSearch([]string{"mass"}, [][]float64{{1}})
	if _, err := g.Search(context.Background(), shortConfig(), experiment.NewRegistry(), "max_stretch"); err == nil {
		t.Error("expected error for unknown parameter")
	}

	g, _ = NewGridSearch([]string{"stiffness"}, [][]float64{{500}})
	if _, err := g.Search(context.Background(), shortConfig(), experiment.NewRegistry(), "nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, _ := NewGridSearch([]string{"stiffness"}, [][]float64{{500}})
	if _, err := g.Search(ctx, shortConfig(), experiment.NewRegistry(), "max_stretch"); err == nil {
		t.Error("expected error from cancelled context")
	}
}
