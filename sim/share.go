package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ShareAllocator splits the market among agents given their price choices.
type ShareAllocator interface {
	// MarketShares returns one share per agent, positionally aligned with
	// choices, summing to 1.
	MarketShares(choices AgentChoiceVector, beta float64) ([]float64, error)
}

// LogitAllocator is the multinomial-logit (softmax over negative price) rule:
//
//	share_i = exp(-beta*p_i) / sum_j exp(-beta*p_j)
//
// The largest exponent argument is subtracted before exponentiating, so wide
// price ranges or large beta cannot overflow.
//
// Limits are handled exactly rather than numerically:
//   - beta == 0: every agent receives 1/N.
//   - beta == +Inf: agents at the minimum price split the market equally and
//     every other agent receives 0.
type LogitAllocator struct {
	Lattice *PriceLattice
}

// NewLogitAllocator binds the allocator to a lattice.
func NewLogitAllocator(lattice *PriceLattice) LogitAllocator {
	return LogitAllocator{Lattice: lattice}
}

// MarketShares returns each agent's logit share of demand at the chosen prices.
func (a LogitAllocator) MarketShares(choices AgentChoiceVector, beta float64) ([]float64, error) {
	prices, err := a.Lattice.PricesOf(choices)
	if err != nil {
		return nil, err
	}
	return LogitShares(prices, beta)
}

// LogitShares applies the logit rule to already-resolved prices.
func LogitShares(prices []float64, beta float64) ([]float64, error) {
	n := len(prices)
	if n == 0 {
		return nil, fmt.Errorf("%w: no prices to allocate", ErrInvalidChoice)
	}
	if math.IsNaN(beta) || math.IsInf(beta, -1) {
		return nil, fmt.Errorf("%w: beta must be a number greater than -Inf, got %v", ErrInvalidInput, beta)
	}

	shares := make([]float64, n)
	switch {
	case beta == 0:
		for i := range shares {
			shares[i] = 1 / float64(n)
		}
	case math.IsInf(beta, 1):
		cheapest := floats.Min(prices)
		ties := floats.Count(func(p float64) bool { return p == cheapest }, prices)
		for i, p := range prices {
			if p == cheapest {
				shares[i] = 1 / float64(ties)
			}
		}
	default:
		args := make([]float64, n)
		for i, p := range prices {
			args[i] = -beta * p
		}
		lse := floats.LogSumExp(args)
		for i, x := range args {
			shares[i] = math.Exp(x - lse)
		}
	}
	return shares, nil
}
