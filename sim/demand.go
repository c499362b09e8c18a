package sim

import "math"

// DemandModel maps the average market price to total market volume.
type DemandModel interface {
	// TotalDemand returns the market volume at avgPrice for elasticity alpha.
	TotalDemand(avgPrice, alpha float64) float64
}

// ExponentialDemand implements
//
//	demand = BaselineDemand * exp(-alpha * (avgPrice - BaselinePrice))
//
// alpha=0 gives constant demand. Very large price gaps underflow toward 0,
// which is a valid (near-empty market) outcome.
type ExponentialDemand struct {
	BaselinePrice  float64
	BaselineDemand float64
}

// NewExponentialDemand anchors the demand curve at the lattice baseline.
func NewExponentialDemand(lattice *PriceLattice) ExponentialDemand {
	return ExponentialDemand{BaselinePrice: lattice.BaselinePrice(), BaselineDemand: lattice.BaselineDemand()}
}

// TotalDemand returns baseline demand scaled by exp(-alpha*(avgPrice-baselinePrice)).
func (d ExponentialDemand) TotalDemand(avgPrice, alpha float64) float64 {
	if alpha == 0 {
		return d.BaselineDemand
	}
	return d.BaselineDemand * math.Exp(-alpha*(avgPrice-d.BaselinePrice))
}
