package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/pricing-sim/pricing-sim/sim"
	"github.com/pricing-sim/pricing-sim/sim/learner"
	"github.com/pricing-sim/pricing-sim/sim/scenario"
	"github.com/pricing-sim/pricing-sim/sim/trace"
)

// Report is the output of the run and eval commands.
type Report struct {
	RunID     string            `json:"run_id"`
	Policy    string            `json:"policy"`
	Alpha     float64           `json:"alpha"`
	Beta      float64           `json:"beta"`
	Agents    int               `json:"agents"`
	Lattice   []float64         `json:"lattice"`
	Scenarios []scenario.Result `json:"scenarios"`
	Regrets   []float64         `json:"regrets,omitempty"` // eval only
}

// NewReport assembles a report from evaluated scenarios.
func NewReport(runID string, cfg *sim.MarketConfig, results []scenario.Result) *Report {
	return &Report{
		RunID:     runID,
		Policy:    cfg.NormalizationPolicy,
		Alpha:     *cfg.Alpha,
		Beta:      *cfg.Beta,
		Agents:    cfg.Agents(),
		Lattice:   append([]float64(nil), cfg.PriceLattice...),
		Scenarios: results,
	}
}

// Write renders the report as "table" or "json".
func (r *Report) Write(w io.Writer, format string) error {
	if format == "json" {
		return writeJSON(w, r)
	}
	fmt.Fprintf(w, "=== Pricing Report %s ===\n", r.RunID)
	fmt.Fprintf(w, "policy=%s alpha=%v beta=%v lattice=%s\n\n", r.Policy, r.Alpha, r.Beta, joinFixed(r.Lattice, 2))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tPRICES\tAVG PRICE\tDEMAND\tREVENUES\tREWARDS\tRANGE\tDEGENERATE")
	for _, res := range r.Scenarios {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%v\n",
			res.Scenario.Name,
			joinFixed(res.Prices, 2),
			fixed(res.AveragePrice, 2),
			fixed(res.TotalDemand, 2),
			joinFixed(res.Revenues, 2),
			joinFixed(res.Rewards, 4),
			fixed(res.RevenueRange, 2),
			res.Degenerate,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(r.Regrets) > 0 {
		fmt.Fprintf(w, "\nregret per agent (best unilateral deviation): %s\n", joinFixed(r.Regrets, 2))
	}
	return nil
}

// AgentPolicy is one learner's final choice distribution.
type AgentPolicy struct {
	Agent         int       `json:"agent"`
	ModalPrice    float64   `json:"modal_price"`
	Probabilities []float64 `json:"probabilities"`
}

// TrainReport is the output of the train command.
type TrainReport struct {
	RunID   string              `json:"run_id"`
	Policy  string              `json:"policy"`
	Lattice []float64           `json:"lattice"`
	Agents  []AgentPolicy       `json:"agents"`
	Summary *trace.TraceSummary `json:"summary"`
}

// NewTrainReport assembles a report from a training result.
func NewTrainReport(runID string, cfg *sim.MarketConfig, lattice *sim.PriceLattice, res *learner.Result) *TrainReport {
	report := &TrainReport{
		RunID:   runID,
		Policy:  cfg.NormalizationPolicy,
		Lattice: lattice.Prices(),
		Agents:  make([]AgentPolicy, len(res.Policies)),
		Summary: res.Summary,
	}
	for i, p := range res.Policies {
		price, _ := lattice.Price(learner.ModalChoice(p))
		report.Agents[i] = AgentPolicy{Agent: i, ModalPrice: price, Probabilities: p}
	}
	return report
}

// Write renders the report as "table" or "json".
func (r *TrainReport) Write(w io.Writer, format string) error {
	if format == "json" {
		return writeJSON(w, r)
	}
	fmt.Fprintf(w, "=== Training Report %s ===\n", r.RunID)
	fmt.Fprintf(w, "policy=%s lattice=%s\n\n", r.Policy, joinFixed(r.Lattice, 2))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "AGENT\tMODAL PRICE\tPROBABILITIES")
	for _, a := range r.Agents {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", a.Agent, fixed(a.ModalPrice, 2), joinFixed(a.Probabilities, 3))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := r.Summary
	if s == nil || s.TotalSteps == 0 {
		return nil
	}
	fmt.Fprintf(w, "\nrounds=%d degenerate=%d (%s%%) modal price=%s\n",
		s.TotalSteps, s.DegenerateSteps, fixed(100*s.DegenerateShare, 1), fixed(s.ModalPrice, 2))
	fmt.Fprintf(w, "mean avg price=%s mean revenue=%s mean reward=%s\n",
		fixed(s.MeanAveragePrice, 2), fixed(s.MeanRevenue, 2), fixed(s.MeanReward, 4))
	if s.MaxRegret > 0 {
		fmt.Fprintf(w, "mean regret=%s max regret=%s\n", fixed(s.MeanRegret, 2), fixed(s.MaxRegret, 2))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// fixed rounds half away from zero to the given number of places.
func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func joinFixed(vs []float64, places int32) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fixed(v, places)
	}
	return strings.Join(parts, ",")
}
