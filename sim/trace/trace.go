package trace

import (
	"sync"

	"github.com/pricing-sim/pricing-sim/sim"
)

// TraceLevel controls the verbosity of step tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelSteps captures every evaluated step.
	TraceLevelSteps TraceLevel = "steps"
	// TraceLevelCounterfactual also computes per-agent regret for each step.
	TraceLevelCounterfactual TraceLevel = "counterfactual"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:           true,
	TraceLevelSteps:          true,
	TraceLevelCounterfactual: true,
	"":                       true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether any records are kept.
func (c TraceConfig) Enabled() bool {
	return c.Level != "" && c.Level != TraceLevelNone
}

// SimulationTrace collects step records during a run.
type SimulationTrace struct {
	Config TraceConfig
	Steps  []StepRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config: config,
		Steps:  make([]StepRecord, 0),
	}
}

// RecordStep appends a step record.
func (st *SimulationTrace) RecordStep(record StepRecord) {
	st.Steps = append(st.Steps, record)
}

// FromStepResult converts an evaluation into a record.
func FromStepResult(round int, res *sim.StepResult) StepRecord {
	return StepRecord{
		Round:        round,
		Choices:      append([]int(nil), res.Choices...),
		Prices:       append([]float64(nil), res.Prices...),
		AveragePrice: res.AveragePrice,
		Revenues:     append([]float64(nil), res.Revenues...),
		Rewards:      append([]float64(nil), res.Rewards...),
		Degenerate:   res.Degenerate,
	}
}

// Recorder captures steps from an Environment (goroutine-safe).
// Rounds are numbered in arrival order.
type Recorder struct {
	mu    sync.Mutex
	trace *SimulationTrace
}

// NewRecorder creates a Recorder for the given config.
func NewRecorder(config TraceConfig) *Recorder {
	return &Recorder{trace: NewSimulationTrace(config)}
}

// ObserveStep implements sim.StepObserver.
func (r *Recorder) ObserveStep(res *sim.StepResult) {
	if !r.trace.Config.Enabled() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace.RecordStep(FromStepResult(len(r.trace.Steps), res))
}

// Record appends an already-built record, e.g. one carrying regrets.
func (r *Recorder) Record(rec StepRecord) {
	if !r.trace.Config.Enabled() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace.RecordStep(rec)
}

// Trace returns a snapshot of the recorded trace.
func (r *Recorder) Trace() *SimulationTrace {
	r.mu.Lock()
	defer r.mu.Unlock()
	steps := make([]StepRecord, len(r.trace.Steps))
	copy(steps, r.trace.Steps)
	return &SimulationTrace{Config: r.trace.Config, Steps: steps}
}
