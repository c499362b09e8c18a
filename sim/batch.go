package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// EvaluateBatch runs independent steps across up to workers goroutines.
// Results are returned in input order. The first failing step cancels the
// rest and its error is returned. workers <= 0 means one worker per step.
func EvaluateBatch(ctx context.Context, env *Environment, batch []AgentChoiceVector, workers int) ([]*StepResult, error) {
	results := make([]*StepResult, len(batch))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, choices := range batch {
		i, choices := i, choices
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := env.Step(choices)
			if err != nil {
				return fmt.Errorf("batch entry %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
