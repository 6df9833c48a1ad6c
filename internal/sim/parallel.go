package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/ropesim/internal/dynamo"
)

// Job is one independent run of an ensemble. Every job owns its simulator
// and therefore its chain.
type Job struct {
	Name   string
	Sim    *Simulator
	Config dynamo.Config
}

// Ensemble runs independent simulations concurrently.
type Ensemble struct {
	jobs    []Job
	workers int
}

func NewEnsemble(workers int) *Ensemble {
	if workers < 1 {
		workers = 1
	}
	return &Ensemble{workers: workers}
}

func (e *Ensemble) Add(name string, s *Simulator, cfg dynamo.Config) {
	e.jobs = append(e.jobs, Job{Name: name, Sim: s, Config: cfg})
}

func (e *Ensemble) Len() int { return len(e.jobs) }

// Run returns results in the order jobs were added.
func (e *Ensemble) Run(ctx context.Context) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(e.jobs))
	errs := make([]error, len(e.jobs))
	sem := make(chan struct{}, e.workers)

	var wg sync.WaitGroup
	for i := range e.jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			job := e.jobs[idx]
			results[idx], errs[idx] = job.Sim.Run(ctx, job.Config)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.jobs[i].Name, err)
		}
	}

	return results, nil
}
