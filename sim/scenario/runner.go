package scenario

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/pricing-sim/pricing-sim/sim"
)

// Result is one evaluated scenario.
type Result struct {
	Scenario Scenario `json:"scenario"`
	*sim.StepResult
	// RevenueRange is max-min revenue; zero means the cross-sectional signal is gone.
	RevenueRange float64 `json:"revenue_range"`
}

// Runner evaluates scenarios against an environment. It holds no state
// besides its configuration.
type Runner struct {
	Env     *sim.Environment
	Workers int // 0 = one goroutine per scenario
}

// NewRunner creates a Runner.
func NewRunner(env *sim.Environment, workers int) *Runner {
	return &Runner{Env: env, Workers: workers}
}

// Run evaluates a single scenario.
func (r *Runner) Run(s Scenario) (*Result, error) {
	res, err := r.Env.Step(s.Choices)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return newResult(s, res), nil
}

// RunAll evaluates scenarios concurrently and returns results in input order.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) ([]Result, error) {
	batch := make([]sim.AgentChoiceVector, len(scenarios))
	for i, s := range scenarios {
		batch[i] = s.Choices
	}
	steps, err := sim.EvaluateBatch(ctx, r.Env, batch, r.Workers)
	if err != nil {
		return nil, err
	}
	out := make([]Result, len(scenarios))
	for i, s := range scenarios {
		out[i] = *newResult(s, steps[i])
	}
	return out, nil
}

func newResult(s Scenario, res *sim.StepResult) *Result {
	return &Result{
		Scenario:     s,
		StepResult:   res,
		RevenueRange: floats.Max(res.Revenues) - floats.Min(res.Revenues),
	}
}
