package reward

import "github.com/pricing-sim/pricing-sim/sim"

// Raw passes revenues through unchanged (as a copy).
type Raw struct{}

// Name returns "raw".
func (Raw) Name() string { return string(sim.PolicyRaw) }

// Normalize returns a copy of revenues unchanged.
func (Raw) Normalize(revenues []float64) ([]float64, error) {
	if err := checkRevenues(revenues); err != nil {
		return nil, err
	}
	out := make([]float64, len(revenues))
	copy(out, revenues)
	return out, nil
}
