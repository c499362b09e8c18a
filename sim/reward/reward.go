// Package reward provides the reward normalization policies for the pricing
// simulator. The RewardNormalizer interface is defined in sim/ (parent package).
//
// MinMax reproduces the collapse under study: when every shop earns the same
// revenue the signal is a constant 0.5, so a learner cannot tell a high
// uniform price from a low one. PopulationRelative is the policy that keeps
// the absolute price-level signal.
package reward

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pricing-sim/pricing-sim/sim"
)

// DegenerateReward is the min-max output for every agent when all revenues are equal.
const DegenerateReward = 0.5

// DefaultBaselineDecay is used by New when no decay is configured.
const DefaultBaselineDecay = 0.1

// New creates a normalizer by policy name. Empty name means min-max.
func New(policy sim.NormalizationPolicy, opts sim.NormalizerOptions) (sim.RewardNormalizer, error) {
	switch policy {
	case "", sim.PolicyMinMax:
		return MinMax{}, nil
	case sim.PolicyRaw:
		return Raw{}, nil
	case sim.PolicyPopulationRelative:
		decay := opts.BaselineDecay
		if decay == 0 {
			decay = DefaultBaselineDecay
		}
		p, err := NewPopulationRelative(decay)
		if err != nil {
			return nil, err
		}
		if p, err = p.WithReference(opts.ReferenceRevenue); err != nil {
			return nil, err
		}
		return p, nil
	case sim.PolicyRankBased:
		return RankBased{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown normalization policy %q; valid policies: %v",
			sim.ErrConfig, policy, sim.ValidNormalizationPolicyNames())
	}
}

// checkRevenues enforces the preconditions shared by every policy.
func checkRevenues(revenues []float64) error {
	if len(revenues) == 0 {
		return fmt.Errorf("%w: revenue vector is empty", sim.ErrInvalidInput)
	}
	for i, r := range revenues {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: revenue[%d] is not finite: %v", sim.ErrInvariantViolation, i, r)
		}
		if r < 0 {
			return fmt.Errorf("%w: revenue[%d] is negative: %v", sim.ErrInvariantViolation, i, r)
		}
	}
	return nil
}

// IsDegenerate reports whether every revenue is identical, the case in which
// cross-sectional policies lose all information.
func IsDegenerate(revenues []float64) bool {
	if len(revenues) == 0 {
		return false
	}
	return floats.Min(revenues) == floats.Max(revenues)
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
