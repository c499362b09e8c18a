package sim

import (
	"fmt"
	"sort"
)

// CandidateRevenue is the revenue an agent would have earned at one lattice
// price, holding every other agent's choice fixed.
type CandidateRevenue struct {
	Index   int     `json:"index"`
	Price   float64 `json:"price"`
	Revenue float64 `json:"revenue"`
}

// Counterfactual evaluates every unilateral deviation of one agent.
// Candidates are sorted by revenue descending, tie-break by index ascending.
// Regret is best alternative revenue minus the revenue actually earned (>= 0).
func Counterfactual(engine *RevenueEngine, choices AgentChoiceVector, agent int, alpha, beta float64) ([]CandidateRevenue, float64, error) {
	if agent < 0 || agent >= len(choices) {
		return nil, 0, fmt.Errorf("%w: agent %d outside choice vector of length %d", ErrInvalidChoice, agent, len(choices))
	}
	actual, err := engine.Revenues(choices, alpha, beta)
	if err != nil {
		return nil, 0, err
	}

	lattice := engine.Lattice()
	deviation := make(AgentChoiceVector, len(choices))
	copy(deviation, choices)
	candidates := make([]CandidateRevenue, 0, lattice.Len())
	for idx := 0; idx < lattice.Len(); idx++ {
		deviation[agent] = idx
		revs, err := engine.Revenues(deviation, alpha, beta)
		if err != nil {
			return nil, 0, err
		}
		p, _ := lattice.Price(idx)
		candidates = append(candidates, CandidateRevenue{Index: idx, Price: p, Revenue: revs[agent]})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Revenue != candidates[j].Revenue {
			return candidates[i].Revenue > candidates[j].Revenue
		}
		return candidates[i].Index < candidates[j].Index
	})

	regret := max(candidates[0].Revenue-actual[agent], 0)
	return candidates, regret, nil
}

// Regrets returns the unilateral-deviation regret of every agent. A vector
// of zeros means choices is a pure Nash equilibrium of the stage game.
func Regrets(engine *RevenueEngine, choices AgentChoiceVector, alpha, beta float64) ([]float64, error) {
	out := make([]float64, len(choices))
	for i := range choices {
		_, r, err := Counterfactual(engine, choices, i, alpha, beta)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
