package reward

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pricing-sim/pricing-sim/sim"
)

// MinMax rescales revenues to [0,1] against the current step's own extremes:
//
//	reward_i = (r_i - min) / (max - min)
//
// The minimum maps to exactly 0 and the maximum to exactly 1. When every
// revenue is equal the result is DegenerateReward for every agent.
type MinMax struct{}

// Name returns "min-max".
func (MinMax) Name() string { return string(sim.PolicyMinMax) }

// Normalize rescales revenues linearly onto [0,1].
func (MinMax) Normalize(revenues []float64) ([]float64, error) {
	if err := checkRevenues(revenues); err != nil {
		return nil, err
	}
	lo, hi := floats.Min(revenues), floats.Max(revenues)
	if hi == lo {
		// All agents earned the same: no cross-sectional signal exists.
		return constant(len(revenues), DegenerateReward), nil
	}
	span := hi - lo
	out := make([]float64, len(revenues))
	for i, r := range revenues {
		out[i] = (r - lo) / span
	}
	return out, nil
}

// Degenerate reports whether Normalize would take the constant branch.
func (MinMax) Degenerate(revenues []float64) bool {
	return IsDegenerate(revenues)
}
