package reward

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricing-sim/pricing-sim/sim"
)

func TestNewPopulationRelative_RejectsBadDecay(t *testing.T) {
	for _, d := range []float64{0, -0.1, 1.01} {
		_, err := NewPopulationRelative(d)
		assert.ErrorIs(t, err, sim.ErrConfig, "decay %v", d)
	}
	_, err := NewPopulationRelative(1)
	assert.NoError(t, err)
}

func TestPopulationRelative_NoHistoryUsesCurrentMean(t *testing.T) {
	p, err := NewPopulationRelative(0.1)
	require.NoError(t, err)

	got, err := p.Normalize([]float64{100, 300})
	require.NoError(t, err)
	// baseline = 200
	assert.InDelta(t, 100.0/300, got[0], 1e-12)
	assert.InDelta(t, 300.0/500, got[1], 1e-12)

	_, ok := p.Baseline()
	assert.False(t, ok)
}

func TestPopulationRelative_HighUniformPriceBeatsLowUniformPrice(t *testing.T) {
	// GIVEN a baseline learned from a uniform 3.00 market (1000 per shop)
	p, err := NewPopulationRelative(0.1)
	require.NoError(t, err)
	adv := p.Observe([]float64{1000, 1000, 1000})

	// WHEN two symmetric outcomes are scored against it
	low, err := adv.Normalize([]float64{1000, 1000, 1000})
	require.NoError(t, err)
	high, err := adv.Normalize([]float64{1117.2, 1117.2, 1117.2})
	require.NoError(t, err)

	// THEN the higher uniform price earns the higher reward
	assert.InDelta(t, 0.5, low[0], 1e-12)
	assert.Greater(t, high[0], low[0])
	assert.Equal(t, high[0], high[2])
}

func TestPopulationRelative_ObserveIsImmutable(t *testing.T) {
	p, err := NewPopulationRelative(0.5)
	require.NoError(t, err)

	a := p.Observe([]float64{100})
	b := a.(PopulationRelative).Observe([]float64{300})

	_, ok := p.Baseline()
	assert.False(t, ok, "original must not change")

	baseA, _ := a.(PopulationRelative).Baseline()
	assert.Equal(t, 100.0, baseA)

	baseB, ok := b.(PopulationRelative).Baseline()
	assert.True(t, ok)
	// EMA: 0.5*100 + 0.5*300
	assert.Equal(t, 200.0, baseB)
	assert.Equal(t, 2, b.(PopulationRelative).Observations())
}

func TestPopulationRelative_ObserveIgnoresInvalid(t *testing.T) {
	p, err := NewPopulationRelative(0.5)
	require.NoError(t, err)
	assert.Equal(t, p, p.Observe(nil))
	assert.Equal(t, p, p.Observe([]float64{-1}))
}

func TestPopulationRelative_ZeroRevenueZeroBaseline(t *testing.T) {
	p, err := NewPopulationRelative(0.5)
	require.NoError(t, err)
	got, err := p.Normalize([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, got)
}

func TestPopulationRelative_ImplementsAdaptive(t *testing.T) {
	var n sim.RewardNormalizer = PopulationRelative{decay: 0.1}
	_, ok := n.(sim.AdaptiveNormalizer)
	assert.True(t, ok)
}

func TestPopulationRelative_NoHistoryUsesReferenceRevenue(t *testing.T) {
	// GIVEN a normalizer anchored to a 3000 market revenue at the baseline price
	p, err := NewPopulationRelative(0.1)
	require.NoError(t, err)
	p, err = p.WithReference(3000)
	require.NoError(t, err)

	// WHEN uniform low and high outcomes are scored before any observation
	low, err := p.Normalize([]float64{1000, 1000, 1000})
	require.NoError(t, err)
	high, err := p.Normalize([]float64{1117.2, 1117.2, 1117.2})
	require.NoError(t, err)

	// THEN the per-agent share of 1000 is the baseline and the higher level scores higher
	assert.InDelta(t, 0.5, low[0], 1e-12)
	assert.InDelta(t, 1117.2/2117.2, high[0], 1e-12)
	assert.False(t, p.Degenerate([]float64{1117.2, 1117.2, 1117.2}))

	_, ok := p.Baseline()
	assert.False(t, ok)
}

func TestPopulationRelative_WithReferenceRejectsInvalid(t *testing.T) {
	p, err := NewPopulationRelative(0.1)
	require.NoError(t, err)
	for _, ref := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := p.WithReference(ref)
		assert.ErrorIs(t, err, sim.ErrConfig, "reference %v", ref)
	}
}

func TestPopulationRelative_Degenerate(t *testing.T) {
	p, err := NewPopulationRelative(0.5)
	require.NoError(t, err)

	// Without history or reference, equal revenues are their own baseline.
	assert.True(t, p.Degenerate([]float64{1117.2, 1117.2, 1117.2}))
	assert.False(t, p.Degenerate([]float64{100, 300}))
	assert.False(t, p.Degenerate(nil))

	// With history, equal revenues are scored against the learned level.
	adv := p.Observe([]float64{1000, 1000, 1000}).(PopulationRelative)
	assert.False(t, adv.Degenerate([]float64{1117.2, 1117.2, 1117.2}))

	// A zero baseline maps every positive revenue to 1.
	zero := p.Observe([]float64{0, 0}).(PopulationRelative)
	assert.True(t, zero.Degenerate([]float64{50, 50}))
}

func TestPopulationRelative_ImplementsDegeneracyReporter(t *testing.T) {
	var n sim.RewardNormalizer = PopulationRelative{decay: 0.1}
	_, ok := n.(sim.DegeneracyReporter)
	assert.True(t, ok)
}
