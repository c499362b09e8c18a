package reward

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pricing-sim/pricing-sim/sim"
)

// RankBased maps revenues to fixed rank values k/(N-1), k=0 for the lowest
// revenue. Tied agents share the mean of the rank values they span, so only
// ties collapse; a single agent scores 0.5.
type RankBased struct{}

// Name returns "rank-based".
func (RankBased) Name() string { return string(sim.PolicyRankBased) }

// Normalize maps each revenue to its rank position in [0,1].
func (RankBased) Normalize(revenues []float64) ([]float64, error) {
	if err := checkRevenues(revenues); err != nil {
		return nil, err
	}
	n := len(revenues)
	if n == 1 {
		return []float64{DegenerateReward}, nil
	}
	sorted := make([]float64, n)
	copy(sorted, revenues)
	inds := make([]int, n)
	floats.Argsort(sorted, inds)

	out := make([]float64, n)
	step := 1 / float64(n-1)
	for start := 0; start < n; {
		end := start + 1
		for end < n && sorted[end] == sorted[start] {
			end++
		}
		v := float64(start+end-1) / 2 * step
		for k := start; k < end; k++ {
			out[inds[k]] = v
		}
		start = end
	}
	return out, nil
}

// Degenerate reports whether every agent is tied.
func (RankBased) Degenerate(revenues []float64) bool {
	return IsDegenerate(revenues)
}
