package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/experiment"
	"github.com/san-kum/ropesim/internal/storage"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Zero fields fall back to the preset.
type ScenarioStep struct {
	Preset    string             `yaml:"preset"`
	Particles int                `yaml:"particles"`
	Solver    string             `yaml:"solver"`
	Driver    string             `yaml:"driver"`
	Duration  float64            `yaml:"duration"`
	Params    map[string]float64 `yaml:"params"`
	SaveAs    string             `yaml:"save_as"`
}

// StepResult pairs a step's resolved config with its run.
type StepResult struct {
	Config *config.Config
	Result *dynamo.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the step against its preset.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "classic"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}

	if s.Particles > 0 {
		cfg.Particles = s.Particles
	}
	if s.Solver != "" {
		cfg.Solver = s.Solver
	}
	if s.Driver != "" {
		cfg.Driver.Kind = s.Driver
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	for k, v := range s.Params {
		p, ok := cfg.Params.With(k, v)
		if !ok {
			return nil, fmt.Errorf("unknown parameter: %s", k)
		}
		cfg.Params = p
	}

	return cfg, cfg.Validate()
}

// RunScenario executes all steps in a scenario. With a store, every run is
// saved; SaveAs additionally writes the run as JSON to that path.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Printf("Running step %d/%d: %d particles, %s, %s\n", i+1, len(scenario.Steps), cfg.Particles, cfg.Solver, cfg.Driver.Kind)

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Config: cfg, Result: result}
		if store != nil {
			if sr.RunID, err = store.Save(cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		if step.SaveAs != "" {
			if err := storage.ExportJSON(step.SaveAs, cfg, result); err != nil {
				return results, fmt.Errorf("step %d export: %w", i+1, err)
			}
		}

		results = append(results, sr)
	}

	return results, nil
}
