// Package sim provides the economic core of the repeated pricing game.
//
// # Reading Guide
//
// Follow the data flow, leaf first:
//   - lattice.go: PriceLattice, the fixed menu of admissible prices
//   - demand.go: DemandModel, average price -> total market volume
//   - share.go: ShareAllocator, choice vector -> market shares (logit)
//   - revenue.go: RevenueEngine, price * share * total demand per agent
//   - normalizer.go: RewardNormalizer contract and the policy names
//   - environment.go: Environment, the choices -> rewards contract for learners
//
// # Architecture
//
// The sim package defines interfaces and value types; implementations that
// are swapped by configuration live in sub-packages:
//   - sim/reward/: normalization policies (min-max, raw, population-relative, rank-based)
//   - sim/scenario/: named diagnostic scenarios and their runner
//   - sim/learner/: a chosen-action learner used to reproduce reward collapse
//   - sim/trace/: per-step decision records and summaries
//   - sim/telemetry/: prometheus counters fed as a StepObserver
//
// sim/reward registers its factory via init() by setting
// NewRewardNormalizerFunc, so callers import it (blank import is enough).
//
// Every evaluation is a pure function of its inputs. No component keeps
// cross-call state; adaptive normalizers return an advanced copy from Observe.
package sim
