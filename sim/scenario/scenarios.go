// Package scenario provides named, fixed choice vectors for diagnosing the
// pricing core, and a runner that evaluates them through an Environment.
package scenario

import (
	"fmt"
	"math/rand"

	"github.com/pricing-sim/pricing-sim/sim"
)

// Scenario is a fixed choice vector with a name for reporting.
type Scenario struct {
	Name        string                `json:"name" yaml:"name"`
	Description string                `json:"description" yaml:"description"`
	Choices     sim.AgentChoiceVector `json:"choices" yaml:"choices"`
}

// Built-in scenario presets mirroring the collapse diagnosis.
// Each returns a Scenario ready for Runner.Run.

// UniformPricing puts all n shops at lattice index idx.
func UniformPricing(lattice *sim.PriceLattice, n, idx int) Scenario {
	choices := make(sim.AgentChoiceVector, n)
	for i := range choices {
		choices[i] = idx
	}
	return Scenario{
		Name:        fmt.Sprintf("uniform-%s", priceLabel(lattice, idx)),
		Description: fmt.Sprintf("all %d shops charge %s", n, priceLabel(lattice, idx)),
		Choices:     choices,
	}
}

// Undercut keeps n-1 shops at the top price while the last shop charges idx.
func Undercut(lattice *sim.PriceLattice, n, idx int) Scenario {
	top := lattice.MaxIndex()
	choices := make(sim.AgentChoiceVector, n)
	for i := range choices {
		choices[i] = top
	}
	if n > 0 {
		choices[n-1] = idx
	}
	return Scenario{
		Name: fmt.Sprintf("undercut-%s", priceLabel(lattice, idx)),
		Description: fmt.Sprintf("%d shops at %s, one undercuts to %s",
			n-1, priceLabel(lattice, top), priceLabel(lattice, idx)),
		Choices: choices,
	}
}

// SymmetricCollapse puts every shop at the top (monopoly) price. Under min-max
// normalization its rewards are indistinguishable from a uniform low price.
func SymmetricCollapse(lattice *sim.PriceLattice, n int) Scenario {
	s := UniformPricing(lattice, n, lattice.MaxIndex())
	s.Name = "symmetric-collapse"
	s.Description = fmt.Sprintf("all %d shops at the monopoly price %s", n, priceLabel(lattice, lattice.MaxIndex()))
	return s
}

// UniformSweep returns one UniformPricing scenario per lattice price.
func UniformSweep(lattice *sim.PriceLattice, n int) []Scenario {
	out := make([]Scenario, 0, lattice.Len())
	for idx := 0; idx < lattice.Len(); idx++ {
		out = append(out, UniformPricing(lattice, n, idx))
	}
	return out
}

// UndercutSweep returns one Undercut scenario per lattice price.
func UndercutSweep(lattice *sim.PriceLattice, n int) []Scenario {
	out := make([]Scenario, 0, lattice.Len())
	for idx := 0; idx < lattice.Len(); idx++ {
		out = append(out, Undercut(lattice, n, idx))
	}
	return out
}

// Defaults is the full diagnostic set: the collapse case, then both sweeps.
func Defaults(lattice *sim.PriceLattice, n int) []Scenario {
	out := []Scenario{SymmetricCollapse(lattice, n)}
	out = append(out, UniformSweep(lattice, n)...)
	return append(out, UndercutSweep(lattice, n)...)
}

// Custom wraps an arbitrary choice vector.
func Custom(name string, choices sim.AgentChoiceVector) Scenario {
	return Scenario{Name: name, Description: fmt.Sprintf("choices %v", choices), Choices: choices}
}

// Random draws count choice vectors with every agent's index uniform over the
// lattice. Pass the sim.SubsystemScenario stream for reproducible sets.
func Random(lattice *sim.PriceLattice, n, count int, rng *rand.Rand) []Scenario {
	out := make([]Scenario, 0, count)
	for k := 0; k < count; k++ {
		choices := make(sim.AgentChoiceVector, n)
		for i := range choices {
			choices[i] = rng.Intn(lattice.Len())
		}
		out = append(out, Custom(fmt.Sprintf("random-%d", k), choices))
	}
	return out
}

func priceLabel(lattice *sim.PriceLattice, idx int) string {
	p, err := lattice.Price(idx)
	if err != nil {
		return fmt.Sprintf("#%d", idx)
	}
	return fmt.Sprintf("%.2f", p)
}
