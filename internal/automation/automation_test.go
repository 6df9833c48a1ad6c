package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/experiment"
	"github.com/san-kum/ropesim/internal/storage"
)

const scenarioYAML = `name: compare
description: stiff then soft
steps:
  - preset: taut
    duration: 0.5
  - preset: slack
    particles: 8
    solver: jacobi
    duration: 0.5
    params:
      damping: 0.9
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "compare" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}

	cfg, err := sc.Steps[1].Config()
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if cfg.Particles != 8 || cfg.Solver != "jacobi" || cfg.Params.Damping != 0.9 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadScenarioEmpty(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestStepConfigRejectsUnknown(t *testing.T) {
	if _, err := (ScenarioStep{Preset: "bungee"}).Config(); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, err := (ScenarioStep{Params: map[string]float64{"mass": 2}}).Config(); err == nil {
		t.Error("expected unknown parameter error")
	}
	if _, err := (ScenarioStep{Params: map[string]float64{"damping": 2}}).Config(); err == nil {
		t.Error("expected invalid damping error")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	sc.Steps[0].SaveAs = filepath.Join(dir, "taut.json")
	store := storage.New(filepath.Join(dir, "runs"))

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), store)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].Config.Particles != 8 || len(results[1].Result.Frames[0]) != 8 {
		t.Error("second step should run 8 particles")
	}
	if _, err := os.Stat(sc.Steps[0].SaveAs); err != nil {
		t.Errorf("json export missing: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 stored runs, got %d", len(runs))
	}
}

func TestSweepValues(t *testing.T) {
	s := &ParameterSweep{ParamMin: 100, ParamMax: 500, NumSteps: 5}
	vals := s.Values()
	want := []float64{100, 200, 300, 400, 500}
	for i := range want {
		if vals[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, vals)
		}
	}
	if got := (&ParameterSweep{ParamMin: 3, NumSteps: 1}).Values(); len(got) != 1 || got[0] != 3 {
		t.Errorf("single step sweep should visit the minimum, got %v", got)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 0.5

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      base,
		ParamName: "stiffness",
		ParamMin:  100,
		ParamMax:  900,
		NumSteps:  3,
		Workers:   2,
	}, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.ParamValue != 100+float64(i)*400 {
			t.Errorf("result %d out of order: %f", i, r.ParamValue)
		}
		if !r.Stable {
			t.Errorf("stiffness %f diverged", r.ParamValue)
		}
	}
	if base.Params.Stiffness != config.DefaultConfig().Params.Stiffness {
		t.Error("sweep modified the base config")
	}
}

func TestRunSweepRejectsBadValues(t *testing.T) {
	_, err := RunSweep(context.Background(), &ParameterSweep{
		ParamName: "damping",
		ParamMin:  0.5,
		ParamMax:  1.5,
		NumSteps:  3,
	}, experiment.NewRegistry())
	if err == nil {
		t.Error("expected error for damping above 1")
	}

	_, err = RunSweep(context.Background(), &ParameterSweep{ParamName: "mass", NumSteps: 2}, experiment.NewRegistry())
	if err == nil {
		t.Error("expected unknown parameter error")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 0.5

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Base:         base,
		Perturbation: 0.2,
		NumTrials:    4,
		Seed:         42,
	}, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}

	stable, unstable := MonteCarloStats(results)
	if stable+unstable != 4 {
		t.Errorf("expected 4 trials, got %d", stable+unstable)
	}
	if unstable != 0 {
		t.Errorf("small perturbations should not diverge, %d did", unstable)
	}
}
