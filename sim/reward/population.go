package reward

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pricing-sim/pricing-sim/sim"
)

// PopulationRelative scores each revenue against a moving population baseline:
//
//	reward_i = r_i / (r_i + baseline)
//
// A revenue equal to the baseline scores 0.5; above it, more. The baseline is
// an exponential moving average of the mean revenue of previous steps, so a
// uniform high price scores above a uniform low price once history exists.
// Before the first observation the baseline is the reference market revenue
// split evenly across agents, or the current step's mean without one.
//
// Values are immutable: Observe returns the advanced normalizer.
type PopulationRelative struct {
	decay        float64
	baseline     float64
	observations int
	reference    float64
}

// NewPopulationRelative creates a normalizer with no history.
// decay is the weight of the newest observation, in (0,1].
func NewPopulationRelative(decay float64) (PopulationRelative, error) {
	if !(decay > 0 && decay <= 1) {
		return PopulationRelative{}, fmt.Errorf("%w: baseline decay must be in (0,1], got %v", sim.ErrConfig, decay)
	}
	return PopulationRelative{decay: decay}, nil
}

// WithReference returns a copy anchored to the total market revenue at the
// baseline price. Negative or non-finite references are rejected.
func (p PopulationRelative) WithReference(marketRevenue float64) (PopulationRelative, error) {
	if !(marketRevenue >= 0) || math.IsInf(marketRevenue, 0) {
		return PopulationRelative{}, fmt.Errorf("%w: reference revenue must be finite and >= 0, got %v", sim.ErrConfig, marketRevenue)
	}
	p.reference = marketRevenue
	return p, nil
}

// Name returns "population-relative".
func (p PopulationRelative) Name() string { return string(sim.PolicyPopulationRelative) }

// Baseline returns the current baseline and whether any step has been observed.
func (p PopulationRelative) Baseline() (float64, bool) {
	return p.baseline, p.observations > 0
}

// Observations returns the number of observed steps.
func (p PopulationRelative) Observations() int { return p.observations }

// Normalize scores each revenue against the baseline in effect for this step.
func (p PopulationRelative) Normalize(revenues []float64) ([]float64, error) {
	if err := checkRevenues(revenues); err != nil {
		return nil, err
	}
	base, _ := p.baselineFor(revenues)
	out := make([]float64, len(revenues))
	for i, r := range revenues {
		if r+base == 0 {
			out[i] = DegenerateReward
			continue
		}
		out[i] = r / (r + base)
	}
	return out, nil
}

// Degenerate reports whether equal revenues would score 0.5 regardless of
// their level: the baseline is the step's own mean, or zero.
func (p PopulationRelative) Degenerate(revenues []float64) bool {
	if checkRevenues(revenues) != nil || !IsDegenerate(revenues) {
		return false
	}
	base, selfReferenced := p.baselineFor(revenues)
	return selfReferenced || base == 0
}

// baselineFor returns the baseline for revenues and whether it was derived
// from revenues themselves.
func (p PopulationRelative) baselineFor(revenues []float64) (float64, bool) {
	switch {
	case p.observations > 0:
		return p.baseline, false
	case p.reference > 0:
		return p.reference / float64(len(revenues)), false
	default:
		return stat.Mean(revenues, nil), true
	}
}

// Observe folds a step's mean revenue into the baseline. Invalid revenue
// vectors leave the normalizer unchanged.
func (p PopulationRelative) Observe(revenues []float64) sim.RewardNormalizer {
	if checkRevenues(revenues) != nil {
		return p
	}
	mean := stat.Mean(revenues, nil)
	if p.observations == 0 {
		p.baseline = mean
	} else {
		p.baseline = (1-p.decay)*p.baseline + p.decay*mean
	}
	p.observations++
	return p
}
