package sim

import (
	"gonum.org/v1/gonum/stat"
)

// StepResult captures every intermediate vector of one market evaluation.
// All slices are positionally aligned with Choices. Rewards is nil until a
// normalizer has been applied (see Environment.Step).
type StepResult struct {
	Choices      AgentChoiceVector `json:"choices"`
	Prices       []float64         `json:"prices"`
	Shares       []float64         `json:"shares"`
	AveragePrice float64           `json:"average_price"`
	TotalDemand  float64           `json:"total_demand"`
	Revenues     []float64         `json:"revenues"`
	Rewards      []float64         `json:"rewards,omitempty"`
	Policy       string            `json:"policy,omitempty"`
	// Degenerate is true when the normalizer saw identical revenues for all
	// agents, i.e. the reward carries no information about the price level.
	Degenerate bool `json:"degenerate"`
}

// RevenueEngine composes a DemandModel and a ShareAllocator into per-agent revenue.
//
// Total volume depends on the average price of all agents, so a collective price
// rise changes everyone's revenue even when relative shares stay fixed.
type RevenueEngine struct {
	lattice *PriceLattice
	demand  DemandModel
	shares  ShareAllocator
}

// NewRevenueEngine wires the engine. Nil models fall back to ExponentialDemand
// and LogitAllocator over the lattice.
func NewRevenueEngine(lattice *PriceLattice, demand DemandModel, shares ShareAllocator) *RevenueEngine {
	if demand == nil {
		demand = NewExponentialDemand(lattice)
	}
	if shares == nil {
		shares = NewLogitAllocator(lattice)
	}
	return &RevenueEngine{lattice: lattice, demand: demand, shares: shares}
}

// Lattice returns the lattice the engine resolves choices against.
func (e *RevenueEngine) Lattice() *PriceLattice { return e.lattice }

// Evaluate computes shares, aggregate price, total demand and revenues.
// revenue_i = price_i * share_i * totalDemand.
func (e *RevenueEngine) Evaluate(choices AgentChoiceVector, alpha, beta float64) (*StepResult, error) {
	prices, err := e.lattice.PricesOf(choices)
	if err != nil {
		return nil, err
	}
	shares, err := e.shares.MarketShares(choices, beta)
	if err != nil {
		return nil, err
	}
	avg := stat.Mean(prices, nil)
	total := e.demand.TotalDemand(avg, alpha)

	revenues := make([]float64, len(prices))
	for i, p := range prices {
		revenues[i] = p * shares[i] * total
	}

	cp := make(AgentChoiceVector, len(choices))
	copy(cp, choices)
	return &StepResult{
		Choices:      cp,
		Prices:       prices,
		Shares:       shares,
		AveragePrice: avg,
		TotalDemand:  total,
		Revenues:     revenues,
	}, nil
}

// Revenues is Evaluate without the intermediate vectors.
func (e *RevenueEngine) Revenues(choices AgentChoiceVector, alpha, beta float64) ([]float64, error) {
	res, err := e.Evaluate(choices, alpha, beta)
	if err != nil {
		return nil, err
	}
	return res.Revenues, nil
}
