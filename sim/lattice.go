package sim

import (
	"fmt"
	"math"
)

// AgentChoiceVector holds one price-point index per agent, in agent order.
type AgentChoiceVector []int

// PriceLattice is the fixed, ordered menu of admissible prices together with
// the reference point of the demand curve. It is read-only after construction
// and safe to share between goroutines.
type PriceLattice struct {
	prices         []float64
	baselinePrice  float64
	baselineDemand float64
}

// NewPriceLattice validates and builds a lattice.
// Prices must be non-empty, finite, non-negative and strictly increasing.
// The baseline price must be finite; the baseline demand finite and non-negative.
func NewPriceLattice(prices []float64, baselinePrice, baselineDemand float64) (*PriceLattice, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: price lattice is empty", ErrConfig)
	}
	for i, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: price[%d] is not finite: %v", ErrConfig, i, p)
		}
		if p < 0 {
			return nil, fmt.Errorf("%w: price[%d] is negative: %v", ErrConfig, i, p)
		}
		if i > 0 && p <= prices[i-1] {
			return nil, fmt.Errorf("%w: prices must be strictly increasing, price[%d]=%v <= price[%d]=%v",
				ErrConfig, i, p, i-1, prices[i-1])
		}
	}
	if math.IsNaN(baselinePrice) || math.IsInf(baselinePrice, 0) {
		return nil, fmt.Errorf("%w: baseline price is not finite: %v", ErrConfig, baselinePrice)
	}
	if math.IsNaN(baselineDemand) || math.IsInf(baselineDemand, 0) || baselineDemand < 0 {
		return nil, fmt.Errorf("%w: baseline demand must be finite and non-negative, got %v", ErrConfig, baselineDemand)
	}
	cp := make([]float64, len(prices))
	copy(cp, prices)
	return &PriceLattice{prices: cp, baselinePrice: baselinePrice, baselineDemand: baselineDemand}, nil
}

// Prices returns a copy of the lattice prices in index order.
func (l *PriceLattice) Prices() []float64 {
	out := make([]float64, len(l.prices))
	copy(out, l.prices)
	return out
}

// BaselinePrice is the price at which total demand equals BaselineDemand.
func (l *PriceLattice) BaselinePrice() float64 { return l.baselinePrice }

// BaselineDemand is the market volume at the baseline price.
func (l *PriceLattice) BaselineDemand() float64 { return l.baselineDemand }

// Len returns the number of price points.
func (l *PriceLattice) Len() int { return len(l.prices) }

// MaxIndex returns the index of the highest price.
func (l *PriceLattice) MaxIndex() int { return len(l.prices) - 1 }

// Price resolves a single index.
func (l *PriceLattice) Price(idx int) (float64, error) {
	if idx < 0 || idx >= len(l.prices) {
		return 0, fmt.Errorf("%w: index %d outside lattice [0,%d]", ErrInvalidChoice, idx, len(l.prices)-1)
	}
	return l.prices[idx], nil
}

// PricesOf resolves every index of a choice vector, positionally aligned.
func (l *PriceLattice) PricesOf(choices AgentChoiceVector) ([]float64, error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("%w: choice vector is empty", ErrInvalidChoice)
	}
	out := make([]float64, len(choices))
	for i, idx := range choices {
		p, err := l.Price(idx)
		if err != nil {
			return nil, fmt.Errorf("agent %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// IndexOf returns the index holding exactly the given price.
func (l *PriceLattice) IndexOf(price float64) (int, bool) {
	for i, p := range l.prices {
		if p == price {
			return i, true
		}
	}
	return -1, false
}
