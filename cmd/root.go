package cmd

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pricing-sim/pricing-sim/sim"
	"github.com/pricing-sim/pricing-sim/sim/learner"
	_ "github.com/pricing-sim/pricing-sim/sim/reward"
	"github.com/pricing-sim/pricing-sim/sim/scenario"
	"github.com/pricing-sim/pricing-sim/sim/telemetry"
	"github.com/pricing-sim/pricing-sim/sim/trace"
)

var (
	// Market flags, shared by every subcommand
	configPath string  // Path to a market YAML file; empty uses the built-in reference market
	policy     string  // Reward normalization policy
	alpha      float64 // Demand elasticity
	beta       float64 // Choice sensitivity
	numAgents  int     // Number of shops
	logLevel   string  // Log verbosity level
	metricsOut string  // File to write Prometheus text metrics to
	format     string  // Report format: table or json
	seed       int64   // Master seed for randomized scenarios and agent RNG streams

	// run flags
	workers         int // Parallel scenario evaluations (0 = one per scenario)
	randomScenarios int // Extra randomized choice vectors to evaluate

	// eval flags
	choices []int // Lattice index per agent

	// train flags
	rounds       int     // Number of learning rounds
	learningRate float64 // Weight increment per unit reward
	traceLevel   string  // Trace verbosity during training
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "pricing-sim",
	Short: "Repeated pricing-game simulator for diagnosing reward normalization",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
		if format != "table" && format != "json" {
			logrus.Fatalf("Invalid format %q; expected table or json", format)
		}
	},
}

// runCmd evaluates the built-in diagnostic scenarios
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the diagnostic scenarios and print a report",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustResolveMarketConfig(cmd)
		rec := newTelemetry()
		env := mustEnvironment(cfg, rec)

		logrus.Infof("Starting run with lattice=%v alpha=%v beta=%v agents=%d policy=%s",
			cfg.PriceLattice, *cfg.Alpha, *cfg.Beta, cfg.Agents(), cfg.NormalizationPolicy)

		scenarios := scenario.Defaults(env.Lattice(), cfg.Agents())
		if randomScenarios > 0 {
			rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
			scenarios = append(scenarios, scenario.Random(env.Lattice(), cfg.Agents(), randomScenarios, rng.ForSubsystem(sim.SubsystemScenario))...)
		}

		runner := scenario.NewRunner(env, workers)
		results, err := runner.RunAll(context.Background(), scenarios)
		if err != nil {
			logrus.Fatalf("Scenario run failed: %v", err)
		}
		warnDegenerate(results, cfg.NormalizationPolicy)

		report := NewReport(uuid.NewString(), cfg, results)
		if err := report.Write(os.Stdout, format); err != nil {
			logrus.Fatalf("Writing report failed: %v", err)
		}
		writeMetrics(rec)
		logrus.Info("Run complete.")
	},
}

// evalCmd evaluates a single choice vector
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate one choice vector, e.g. --choices 4,4,1",
	Run: func(cmd *cobra.Command, args []string) {
		if len(choices) == 0 {
			logrus.Fatalf("No choices provided; use --choices with one lattice index per agent")
		}
		cfg := mustResolveMarketConfig(cmd)
		rec := newTelemetry()
		env := mustEnvironment(cfg, rec)

		res, err := scenario.NewRunner(env, 1).Run(scenario.Custom("eval", sim.AgentChoiceVector(choices)))
		if err != nil {
			logrus.Fatalf("Evaluation failed: %v", err)
		}
		regrets, err := sim.Regrets(env.Engine(), res.Choices, env.Alpha(), env.Beta())
		if err != nil {
			logrus.Fatalf("Counterfactual failed: %v", err)
		}

		report := NewReport(uuid.NewString(), cfg, []scenario.Result{*res})
		report.Regrets = regrets
		if err := report.Write(os.Stdout, format); err != nil {
			logrus.Fatalf("Writing report failed: %v", err)
		}
		writeMetrics(rec)
	},
}

// trainCmd runs the chosen-action learner against the configured market
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train chosen-action learners and summarize where they settle",
	Run: func(cmd *cobra.Command, args []string) {
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q; valid: none, steps, counterfactual", traceLevel)
		}
		cfg := mustResolveMarketConfig(cmd)
		rec := newTelemetry()
		env := mustEnvironment(cfg, rec)

		res, err := learner.Train(context.Background(), env, learner.Config{
			Agents:       cfg.Agents(),
			Rounds:       rounds,
			Seed:         seed,
			LearningRate: learningRate,
			TraceLevel:   trace.TraceLevel(traceLevel),
		})
		if err != nil {
			logrus.Fatalf("Training failed: %v", err)
		}
		if res.Summary.TotalSteps > 0 && res.Summary.DegenerateShare > 0.5 {
			logrus.Warnf("%.0f%% of rounds produced degenerate rewards under %s",
				100*res.Summary.DegenerateShare, cfg.NormalizationPolicy)
		}

		report := NewTrainReport(uuid.NewString(), cfg, env.Lattice(), res)
		if err := report.Write(os.Stdout, format); err != nil {
			logrus.Fatalf("Writing report failed: %v", err)
		}
		writeMetrics(rec)
		logrus.Info("Training complete.")
	},
}

// mustResolveMarketConfig loads the market config and applies explicit flag overrides.
func mustResolveMarketConfig(cmd *cobra.Command) *sim.MarketConfig {
	cfg, err := resolveMarketConfig(configPath, cmd.Flags().Changed)
	if err != nil {
		logrus.Fatalf("Invalid market configuration: %v", err)
	}
	return cfg
}

// resolveMarketConfig starts from the file at path (or the reference market)
// and overrides each field whose flag was set on the command line.
func resolveMarketConfig(path string, changed func(name string) bool) (*sim.MarketConfig, error) {
	cfg := sim.DefaultMarketConfig()
	if path != "" {
		loaded, err := sim.LoadMarketConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if changed("policy") {
		cfg.NormalizationPolicy = policy
	}
	if changed("alpha") {
		a := alpha
		cfg.Alpha = &a
	}
	if changed("beta") {
		b := beta
		cfg.Beta = &b
	}
	if changed("agents") {
		n := numAgents
		cfg.NumAgents = &n
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mustEnvironment(cfg *sim.MarketConfig, rec *telemetry.Recorder) *sim.Environment {
	var observers []sim.StepObserver
	if rec != nil {
		observers = append(observers, rec)
	}
	env, err := cfg.NewEnvironment(observers...)
	if err != nil {
		logrus.Fatalf("Unable to build environment: %v", err)
	}
	return env
}

func newTelemetry() *telemetry.Recorder {
	if metricsOut == "" {
		return nil
	}
	return telemetry.New()
}

func writeMetrics(rec *telemetry.Recorder) {
	if rec == nil {
		return
	}
	f, err := os.Create(metricsOut)
	if err != nil {
		logrus.Fatalf("Unable to create metrics file: %v", err)
	}
	defer f.Close()
	if err := rec.WriteText(f); err != nil {
		logrus.Fatalf("Unable to write metrics: %v", err)
	}
	logrus.Infof("Metrics written to %s", metricsOut)
}

// warnDegenerate flags uniform-price scenarios whose rewards lost all level information.
func warnDegenerate(results []scenario.Result, policyName string) {
	n := 0
	for _, r := range results {
		if r.Degenerate {
			n++
		}
	}
	if n > 0 {
		logrus.Warnf("%d of %d scenarios produced degenerate rewards under %s; uniform price levels are indistinguishable",
			n, len(results), policyName)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := sim.DefaultMarketConfig()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to market YAML config (default: built-in reference market)")
	rootCmd.PersistentFlags().StringVar(&policy, "policy", defaults.NormalizationPolicy, "Reward normalization policy (min-max, raw, population-relative, rank-based)")
	rootCmd.PersistentFlags().Float64Var(&alpha, "alpha", *defaults.Alpha, "Demand elasticity")
	rootCmd.PersistentFlags().Float64Var(&beta, "beta", *defaults.Beta, "Choice sensitivity (>= 0)")
	rootCmd.PersistentFlags().IntVar(&numAgents, "agents", *defaults.NumAgents, "Number of shops")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus text metrics to this file")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Report format (table, json)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Master seed for randomized scenarios and agent RNG streams")

	runCmd.Flags().IntVar(&workers, "workers", 0, "Parallel scenario evaluations (0 = one per scenario)")
	runCmd.Flags().IntVar(&randomScenarios, "random", 0, "Number of extra randomized choice vectors to evaluate")

	evalCmd.Flags().IntSliceVar(&choices, "choices", nil, "Comma-separated lattice index per agent")

	trainCmd.Flags().IntVar(&rounds, "rounds", 1000, "Number of learning rounds")
	trainCmd.Flags().Float64Var(&learningRate, "learning-rate", 0.1, "Weight increment per unit reward")
	trainCmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelSteps), "Trace verbosity (none, steps, counterfactual)")

	rootCmd.AddCommand(runCmd, evalCmd, trainCmd)
}
