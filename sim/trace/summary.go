package trace

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalSteps        int            `json:"total_steps"`
	DegenerateSteps   int            `json:"degenerate_steps"`
	DegenerateShare   float64        `json:"degenerate_share"`
	MeanAveragePrice  float64        `json:"mean_average_price"`
	MeanRevenue       float64        `json:"mean_revenue"`
	MeanReward        float64        `json:"mean_reward"`
	MeanRegret        float64        `json:"mean_regret"`
	MaxRegret         float64        `json:"max_regret"`
	ModalPrice        float64        `json:"modal_price"`
	PriceDistribution map[string]int `json:"price_distribution"` // "%.2f" price → number of agent choices
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		PriceDistribution: make(map[string]int),
	}
	if st == nil || len(st.Steps) == 0 {
		return summary
	}

	summary.TotalSteps = len(st.Steps)
	avgPrices := make([]float64, 0, len(st.Steps))
	var revenues, rewards, regrets []float64
	for _, s := range st.Steps {
		if s.Degenerate {
			summary.DegenerateSteps++
		}
		avgPrices = append(avgPrices, s.AveragePrice)
		revenues = append(revenues, s.Revenues...)
		rewards = append(rewards, s.Rewards...)
		regrets = append(regrets, s.Regrets...)
		for _, p := range s.Prices {
			summary.PriceDistribution[priceKey(p)]++
		}
	}
	summary.DegenerateShare = float64(summary.DegenerateSteps) / float64(summary.TotalSteps)
	summary.MeanAveragePrice = stat.Mean(avgPrices, nil)
	if len(revenues) > 0 {
		summary.MeanRevenue = stat.Mean(revenues, nil)
	}
	if len(rewards) > 0 {
		summary.MeanReward = stat.Mean(rewards, nil)
	}
	if len(regrets) > 0 {
		summary.MeanRegret = stat.Mean(regrets, nil)
		for _, r := range regrets {
			summary.MaxRegret = max(summary.MaxRegret, r)
		}
	}

	// Ties resolve to the lower price for determinism.
	best := -1
	for key, n := range summary.PriceDistribution {
		p, _ := strconv.ParseFloat(key, 64)
		if n > best || (n == best && p < summary.ModalPrice) {
			best = n
			summary.ModalPrice = p
		}
	}
	return summary
}

func priceKey(p float64) string {
	return fmt.Sprintf("%.2f", p)
}
