package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricing-sim/pricing-sim/sim"
	"github.com/pricing-sim/pricing-sim/sim/learner"
	"github.com/pricing-sim/pricing-sim/sim/scenario"
	"github.com/pricing-sim/pricing-sim/sim/trace"
)

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestResolveMarketConfig_NoFlags_ReturnsReferenceMarket(t *testing.T) {
	cfg, err := resolveMarketConfig("", changedSet())
	require.NoError(t, err)
	assert.Equal(t, []float64{3.0, 3.5, 4.0, 4.5, 5.0}, cfg.PriceLattice)
	assert.Equal(t, 0.2, *cfg.Alpha)
	assert.Equal(t, 1.5, *cfg.Beta)
	assert.Equal(t, 3, *cfg.NumAgents)
	assert.Equal(t, "min-max", cfg.NormalizationPolicy)
}

func TestResolveMarketConfig_ChangedFlags_Override(t *testing.T) {
	// GIVEN flags explicitly set to zero elasticity and the raw policy
	oldAlpha, oldPolicy, oldAgents := alpha, policy, numAgents
	t.Cleanup(func() { alpha, policy, numAgents = oldAlpha, oldPolicy, oldAgents })
	alpha, policy, numAgents = 0, "raw", 4

	// WHEN the config is resolved
	cfg, err := resolveMarketConfig("", changedSet("alpha", "policy", "agents"))

	// THEN the explicit zero survives and the other overrides apply
	require.NoError(t, err)
	assert.Equal(t, 0.0, *cfg.Alpha)
	assert.Equal(t, "raw", cfg.NormalizationPolicy)
	assert.Equal(t, 4, *cfg.NumAgents)
	assert.Equal(t, 1.5, *cfg.Beta, "unchanged flag must not override")
}

func TestResolveMarketConfig_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "market.yaml")
	require.NoError(t, os.WriteFile(path, []byte("beta: 3\nnum_agents: 2\n"), 0o644))

	oldBeta := beta
	t.Cleanup(func() { beta = oldBeta })
	beta = 0.5

	cfg, err := resolveMarketConfig(path, changedSet())
	require.NoError(t, err)
	assert.Equal(t, 3.0, *cfg.Beta)
	assert.Equal(t, 2, *cfg.NumAgents)

	cfg, err = resolveMarketConfig(path, changedSet("beta"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, *cfg.Beta)
}

func TestResolveMarketConfig_InvalidOverride_ReturnsErrConfig(t *testing.T) {
	oldPolicy := policy
	t.Cleanup(func() { policy = oldPolicy })
	policy = "softmax"

	_, err := resolveMarketConfig("", changedSet("policy"))
	assert.ErrorIs(t, err, sim.ErrConfig)
}

func runDefaultScenarios(t *testing.T) (*sim.MarketConfig, []scenario.Result) {
	t.Helper()
	cfg := sim.DefaultMarketConfig()
	env, err := cfg.NewEnvironment()
	require.NoError(t, err)
	results, err := scenario.NewRunner(env, 0).RunAll(context.Background(), scenario.Defaults(env.Lattice(), cfg.Agents()))
	require.NoError(t, err)
	return cfg, results
}

func TestReport_Table_ListsScenariosWithCents(t *testing.T) {
	// GIVEN the default diagnostic run
	cfg, results := runDefaultScenarios(t)

	// WHEN rendered as a table
	var buf bytes.Buffer
	require.NoError(t, NewReport("run-1", cfg, results).Write(&buf, "table"))
	out := buf.String()

	// THEN the header, every scenario and rounded revenues appear
	assert.Contains(t, out, "=== Pricing Report run-1 ===")
	assert.Contains(t, out, "policy=min-max")
	assert.Contains(t, out, "SCENARIO")
	assert.Contains(t, out, "symmetric-collapse")
	assert.Contains(t, out, "uniform-3.00")
	assert.Contains(t, out, "undercut-3.50")
	assert.Contains(t, out, "1000.00,1000.00,1000.00")
	assert.Contains(t, out, "1117.20,1117.20,1117.20")
	assert.Contains(t, out, "0.5000,0.5000,0.5000")
}

func TestReport_JSON_RoundTripsFields(t *testing.T) {
	cfg, results := runDefaultScenarios(t)
	report := NewReport("run-2", cfg, results)
	report.Regrets = []float64{1, 2, 3}

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, "json"))

	var decoded struct {
		RunID     string           `json:"run_id"`
		Policy    string           `json:"policy"`
		Scenarios []map[string]any `json:"scenarios"`
		Regrets   []float64        `json:"regrets"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-2", decoded.RunID)
	assert.Equal(t, "min-max", decoded.Policy)
	assert.Len(t, decoded.Scenarios, 11)
	assert.Equal(t, []float64{1, 2, 3}, decoded.Regrets)
	assert.Contains(t, decoded.Scenarios[0], "revenue_range")
	assert.Contains(t, decoded.Scenarios[0], "degenerate")
}

func TestTrainReport_Table_SummarizesRun(t *testing.T) {
	cfg := sim.DefaultMarketConfig()
	env, err := cfg.NewEnvironment()
	require.NoError(t, err)
	res, err := learner.Train(context.Background(), env, learner.Config{
		Agents: 3, Rounds: 50, Seed: 1, LearningRate: 0.1, TraceLevel: trace.TraceLevelSteps,
	})
	require.NoError(t, err)

	report := NewTrainReport("train-1", cfg, env.Lattice(), res)
	require.Len(t, report.Agents, 3)
	for _, a := range report.Agents {
		assert.Contains(t, cfg.PriceLattice, a.ModalPrice)
	}

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, "table"))
	out := buf.String()
	assert.Contains(t, out, "=== Training Report train-1 ===")
	assert.Contains(t, out, "MODAL PRICE")
	assert.Contains(t, out, "rounds=50")
}

func TestFixed_RoundsToPlaces(t *testing.T) {
	assert.Equal(t, "3.14", fixed(3.14159, 2))
	assert.Equal(t, "3", fixed(2.5, 0))
	assert.Equal(t, "1055.64", fixed(1055.6449, 2))
	assert.Equal(t, "3.00,3.50", joinFixed([]float64{3, 3.5}, 2))
}
