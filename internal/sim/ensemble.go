package sim

import (
	"context"

	"github.com/san-kum/molsim/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// Factory builds an independent simulator and system for one replica.
// seed selects the replica's initial velocities.
type Factory func(seed int64) (*Simulator, *dynamo.System, error)

// Ensemble runs independent replicas concurrently.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per replica, in seed order. The first failing
// replica cancels the others.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		i := i
		g.Go(func() error {
			sim, sys, err := e.factory(e.seedStart + int64(i))
			if err != nil {
				return err
			}
			results[i], err = sim.Run(ctx, sys, cfg)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
