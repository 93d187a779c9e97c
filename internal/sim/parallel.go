package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent replicas of a simulation in parallel, one seed
// per run. Each replica gets a fresh Simulation from the factory so no
// particle state is shared; the coefficient cache may be shared freely.
type Ensemble struct {
	setup     func() (*Simulation, error)
	numRuns   int
	seedStart int64
}

func NewEnsemble(setup func() (*Simulation, error), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{setup: setup, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, err := e.setup()
			if err != nil {
				errs[idx] = err
				return
			}

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			results[idx], errs[idx] = s.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
