package driver

import (
	"context"
	"sync"

	"github.com/san-kum/odelab/internal/ode"
	"github.com/san-kum/odelab/internal/tableau"
)

// Ensemble integrates a batch of problems concurrently with one shared,
// read-only tableau. Every run owns its stepping state exclusively, so no
// locking is involved.
type Ensemble struct {
	tab *tableau.Tableau
	cfg Config
}

func NewEnsemble(tab *tableau.Tableau, cfg Config) *Ensemble {
	return &Ensemble{tab: tab, cfg: cfg}
}

func (e *Ensemble) Run(ctx context.Context, probs []*ode.Problem) ([]*Solution, error) {
	sols := make([]*Solution, len(probs))
	errs := make([]error, len(probs))

	var wg sync.WaitGroup
	for i, p := range probs {
		wg.Add(1)
		go func(idx int, p *ode.Problem) {
			defer wg.Done()
			sols[idx], errs[idx] = New(e.tab, e.cfg).Solve(ctx, p)
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return sols, nil
}
