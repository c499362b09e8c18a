package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// StepObserver receives every successful evaluation. Implementations must be
// safe for concurrent use when the environment is driven by EvaluateBatch.
type StepObserver interface {
	ObserveStep(res *StepResult)
}

// ErrorObserver is optionally implemented by observers that count failures.
type ErrorObserver interface {
	ObserveError(err error)
}

// Environment is the contract offered to learners: given a choice vector it
// returns a reward vector aligned with it. It holds no mutable state; any
// number of steps may be evaluated in parallel.
type Environment struct {
	engine     *RevenueEngine
	normalizer RewardNormalizer
	alpha      float64
	beta       float64
	observers  []StepObserver
}

// NewEnvironment binds an engine to fixed elasticity parameters and a normalizer.
func NewEnvironment(engine *RevenueEngine, alpha, beta float64, normalizer RewardNormalizer, observers ...StepObserver) *Environment {
	return &Environment{
		engine:     engine,
		normalizer: normalizer,
		alpha:      alpha,
		beta:       beta,
		observers:  observers,
	}
}

// Engine returns the underlying revenue engine.
func (env *Environment) Engine() *RevenueEngine { return env.engine }

// Lattice returns the lattice choices are resolved against.
func (env *Environment) Lattice() *PriceLattice { return env.engine.Lattice() }

// Normalizer returns the active normalizer.
func (env *Environment) Normalizer() RewardNormalizer { return env.normalizer }

// Alpha returns the demand elasticity.
func (env *Environment) Alpha() float64 { return env.alpha }

// Beta returns the choice sensitivity.
func (env *Environment) Beta() float64 { return env.beta }

// WithNormalizer returns a copy of env using n. Used to advance adaptive normalizers.
func (env *Environment) WithNormalizer(n RewardNormalizer) *Environment {
	cp := *env
	cp.normalizer = n
	return &cp
}

// WithObservers returns a copy of env that also notifies obs.
func (env *Environment) WithObservers(obs ...StepObserver) *Environment {
	cp := *env
	cp.observers = append(append([]StepObserver{}, env.observers...), obs...)
	return &cp
}

// Step evaluates one round: revenues, then normalized rewards.
func (env *Environment) Step(choices AgentChoiceVector) (*StepResult, error) {
	res, err := env.step(choices)
	if err != nil {
		for _, o := range env.observers {
			if eo, ok := o.(ErrorObserver); ok {
				eo.ObserveError(err)
			}
		}
		return nil, err
	}
	for _, o := range env.observers {
		o.ObserveStep(res)
	}
	return res, nil
}

func (env *Environment) step(choices AgentChoiceVector) (*StepResult, error) {
	if env.normalizer == nil {
		return nil, fmt.Errorf("%w: environment has no reward normalizer", ErrConfig)
	}
	res, err := env.engine.Evaluate(choices, env.alpha, env.beta)
	if err != nil {
		return nil, err
	}
	rewards, err := env.normalizer.Normalize(res.Revenues)
	if err != nil {
		return nil, fmt.Errorf("normalizing revenues %v: %w", res.Revenues, err)
	}
	res.Rewards = rewards
	res.Policy = env.normalizer.Name()
	if dr, ok := env.normalizer.(DegeneracyReporter); ok {
		res.Degenerate = dr.Degenerate(res.Revenues)
	}
	logrus.Debugf("step choices=%v avgPrice=%.4f demand=%.4f revenues=%v rewards=%v degenerate=%v",
		res.Choices, res.AveragePrice, res.TotalDemand, res.Revenues, res.Rewards, res.Degenerate)
	return res, nil
}
