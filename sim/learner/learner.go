// Package learner implements a chosen-action weight learner used to test
// whether a reward signal lets independent agents discover high uniform
// prices. Each agent keeps one weight per lattice index, samples an index in
// proportion to its weights, and after the step adds learningRate*reward to
// the weight of the index it played. Actions it did not play never move.
//
// The learner is a consumer of sim.Environment; the core does not depend on it.
package learner

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/pricing-sim/pricing-sim/sim"
	"github.com/pricing-sim/pricing-sim/sim/trace"
)

// minWeight keeps every action reachable.
const minWeight = 1e-9

// Agent holds one agent's action weights and its private RNG stream.
type Agent struct {
	weights      []float64
	learningRate float64
	rng          *rand.Rand
}

// NewAgent creates an agent over numActions actions, all starting at initialWeight.
func NewAgent(numActions int, initialWeight, learningRate float64, rng *rand.Rand) *Agent {
	w := make([]float64, numActions)
	for i := range w {
		w[i] = initialWeight
	}
	return &Agent{weights: w, learningRate: learningRate, rng: rng}
}

// Choose samples an action index by roulette selection over the weights.
func (a *Agent) Choose() int {
	total := floats.Sum(a.weights)
	u := a.rng.Float64() * total
	for i, w := range a.weights {
		u -= w
		if u < 0 {
			return i
		}
	}
	return len(a.weights) - 1
}

// Update reinforces only the action that was played.
func (a *Agent) Update(action int, reward float64) {
	a.weights[action] = math.Max(a.weights[action]+a.learningRate*reward, minWeight)
}

// Weights returns a copy of the raw weights.
func (a *Agent) Weights() []float64 {
	return append([]float64(nil), a.weights...)
}

// Policy returns the current choice probabilities.
func (a *Agent) Policy() []float64 {
	p := a.Weights()
	floats.Scale(1/floats.Sum(p), p)
	return p
}

// Config controls a training run.
type Config struct {
	Agents        int
	Rounds        int
	Seed          int64
	LearningRate  float64
	InitialWeight float64 // 0 means 1
	TraceLevel    trace.TraceLevel
}

func (c Config) validate() error {
	switch {
	case c.Agents < 1:
		return fmt.Errorf("%w: agents must be >= 1, got %d", sim.ErrConfig, c.Agents)
	case c.Rounds < 1:
		return fmt.Errorf("%w: rounds must be >= 1, got %d", sim.ErrConfig, c.Rounds)
	case !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0):
		return fmt.Errorf("%w: learning rate must be positive and finite, got %v", sim.ErrConfig, c.LearningRate)
	case c.InitialWeight < 0 || math.IsNaN(c.InitialWeight) || math.IsInf(c.InitialWeight, 0):
		return fmt.Errorf("%w: initial weight must be non-negative and finite, got %v", sim.ErrConfig, c.InitialWeight)
	case !trace.IsValidTraceLevel(string(c.TraceLevel)):
		return fmt.Errorf("%w: unknown trace level %q", sim.ErrConfig, c.TraceLevel)
	}
	return nil
}

// Result is the outcome of a training run.
type Result struct {
	Policies     [][]float64            `json:"policies"`
	FinalChoices sim.AgentChoiceVector  `json:"final_choices"`
	Trace        *trace.SimulationTrace `json:"-"`
	Summary      *trace.TraceSummary    `json:"summary"`

	// Normalizer is the normalizer after the last round; adaptive policies
	// carry the accumulated baseline.
	Normalizer sim.RewardNormalizer `json:"-"`
}

// Train runs cfg.Rounds sequential rounds against env. Adaptive normalizers
// are advanced after every round. Identical seeds and configuration yield
// identical choice sequences.
func Train(ctx context.Context, env *sim.Environment, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	initial := cfg.InitialWeight
	if initial == 0 {
		initial = 1
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
	agents := make([]*Agent, cfg.Agents)
	for i := range agents {
		agents[i] = NewAgent(env.Lattice().Len(), initial, cfg.LearningRate, rng.ForSubsystem(sim.SubsystemAgent(i)))
	}
	recorder := trace.NewRecorder(trace.TraceConfig{Level: cfg.TraceLevel})

	logrus.Infof("training %d agents for %d rounds (seed=%d, lr=%v, policy=%s)",
		cfg.Agents, cfg.Rounds, cfg.Seed, cfg.LearningRate, env.Normalizer().Name())

	choices := make(sim.AgentChoiceVector, cfg.Agents)
	for round := 0; round < cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i, a := range agents {
			choices[i] = a.Choose()
		}
		res, err := env.Step(choices)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		for i, a := range agents {
			a.Update(choices[i], res.Rewards[i])
		}

		rec := trace.FromStepResult(round, res)
		if cfg.TraceLevel == trace.TraceLevelCounterfactual {
			regrets, err := sim.Regrets(env.Engine(), res.Choices, env.Alpha(), env.Beta())
			if err != nil {
				return nil, fmt.Errorf("round %d regrets: %w", round, err)
			}
			rec.Regrets = regrets
		}
		recorder.Record(rec)

		if an, ok := env.Normalizer().(sim.AdaptiveNormalizer); ok {
			env = env.WithNormalizer(an.Observe(res.Revenues))
		}
		logrus.Debugf("round %d choices=%v rewards=%v", round, res.Choices, res.Rewards)
	}

	result := &Result{
		Policies:     make([][]float64, len(agents)),
		FinalChoices: append(sim.AgentChoiceVector(nil), choices...),
		Trace:        recorder.Trace(),
		Normalizer:   env.Normalizer(),
	}
	for i, a := range agents {
		result.Policies[i] = a.Policy()
	}
	result.Summary = trace.Summarize(result.Trace)
	return result, nil
}

// ModalChoice returns the most probable index of a policy, lowest index on ties.
func ModalChoice(policy []float64) int {
	return floats.MaxIdx(policy)
}
