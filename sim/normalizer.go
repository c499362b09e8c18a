package sim

import "fmt"

// NormalizationPolicy names a reward normalization strategy.
type NormalizationPolicy string

const (
	// PolicyMinMax rescales revenues by the current cross-sectional min and max.
	// Identical revenues map to 0.5 for every agent.
	PolicyMinMax NormalizationPolicy = "min-max"
	// PolicyRaw passes revenues through unchanged.
	PolicyRaw NormalizationPolicy = "raw"
	// PolicyPopulationRelative compares revenue with a moving population baseline.
	PolicyPopulationRelative NormalizationPolicy = "population-relative"
	// PolicyRankBased maps revenues to fractional rank values in [0,1].
	PolicyRankBased NormalizationPolicy = "rank-based"
)

// validNormalizationPolicies maps accepted policy names. Empty defaults to min-max.
var validNormalizationPolicies = map[NormalizationPolicy]bool{
	PolicyMinMax:             true,
	PolicyRaw:                true,
	PolicyPopulationRelative: true,
	PolicyRankBased:          true,
	"":                       true,
}

// IsValidNormalizationPolicy returns true if name is a recognized policy.
func IsValidNormalizationPolicy(name string) bool {
	return validNormalizationPolicies[NormalizationPolicy(name)]
}

// ValidNormalizationPolicyNames lists the policies in a stable order for help text.
func ValidNormalizationPolicyNames() []string {
	return []string{string(PolicyMinMax), string(PolicyRaw), string(PolicyPopulationRelative), string(PolicyRankBased)}
}

// RewardNormalizer turns a revenue vector into a learning signal aligned with it.
// Implementations must be immutable so a single value can serve concurrent steps.
type RewardNormalizer interface {
	// Normalize returns one reward per revenue entry.
	// Empty input fails with ErrInvalidInput; NaN, Inf or negative entries
	// fail with ErrInvariantViolation.
	Normalize(revenues []float64) ([]float64, error)

	// Name returns the policy name.
	Name() string
}

// AdaptiveNormalizer is a normalizer whose reference point moves with history.
// Observe does not mutate the receiver; it returns the advanced normalizer.
type AdaptiveNormalizer interface {
	RewardNormalizer
	Observe(revenues []float64) RewardNormalizer
}

// DegeneracyReporter is implemented by normalizers that can collapse to a
// constant signal. Degenerate reports whether revenues would trigger it.
type DegeneracyReporter interface {
	Degenerate(revenues []float64) bool
}

// NormalizerOptions carries policy parameters not implied by the policy name.
type NormalizerOptions struct {
	// BaselineDecay is the EMA weight of the newest observation for
	// population-relative normalization, in (0,1].
	BaselineDecay float64

	// ReferenceRevenue is the total market revenue at the baseline price.
	// Population-relative normalization splits it evenly across agents as
	// its baseline until the first step is observed. Zero leaves the first
	// step to be scored against its own mean.
	ReferenceRevenue float64
}

// NewRewardNormalizerFunc is the factory for normalizers, set by sim/reward's
// init(). Production code imports sim/reward (directly or blank) to register it.
var NewRewardNormalizerFunc func(policy NormalizationPolicy, opts NormalizerOptions) (RewardNormalizer, error)

// NewRewardNormalizer creates a normalizer through the registered factory.
func NewRewardNormalizer(policy NormalizationPolicy, opts NormalizerOptions) (RewardNormalizer, error) {
	if !validNormalizationPolicies[policy] {
		return nil, fmt.Errorf("%w: unknown normalization policy %q; valid policies: %v",
			ErrConfig, policy, ValidNormalizationPolicyNames())
	}
	if NewRewardNormalizerFunc == nil {
		panic("sim.NewRewardNormalizerFunc is nil; import github.com/pricing-sim/pricing-sim/sim/reward")
	}
	return NewRewardNormalizerFunc(policy, opts)
}
