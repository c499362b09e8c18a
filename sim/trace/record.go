// Package trace provides per-step recording of pricing decisions and their
// rewards, for analysing whether a learner can discover collusive pricing.
// Records are pure data; Recorder adapts them to sim.StepObserver.
package trace

// StepRecord captures one evaluated round of the pricing game.
type StepRecord struct {
	Round        int       `json:"round"`
	Choices      []int     `json:"choices"`
	Prices       []float64 `json:"prices"`
	AveragePrice float64   `json:"average_price"`
	Revenues     []float64 `json:"revenues"`
	Rewards      []float64 `json:"rewards"`
	Degenerate   bool      `json:"degenerate"`
	Regrets      []float64 `json:"regrets,omitempty"` // unilateral-deviation regret per agent (nil unless counterfactual level)
}
