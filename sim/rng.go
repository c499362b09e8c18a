package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the master seed of a training run or randomized scenario
// set. Equal keys with equal configuration replay the same choice sequences.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// SubsystemScenario draws randomized choice vectors. It is seeded with the
// master seed itself, so `--seed N` reproduces what rand.NewSource(N) gives.
const SubsystemScenario = "scenario"

// SubsystemAgent names agent id's stream. Each learner owns one, so adding an
// agent leaves the existing agents' draws unchanged.
func SubsystemAgent(id int) string {
	return fmt.Sprintf("agent_%d", id)
}

// PartitionedRNG hands out one independent *rand.Rand per named stream.
// A stream's seed is key XOR fnv1a64(name), except SubsystemScenario.
// Not safe for concurrent use; each stream belongs to one goroutine.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	r, ok := p.streams[name]
	if !ok {
		r = rand.New(rand.NewSource(p.seedFor(name)))
		p.streams[name] = r
	}
	return r
}

// Key returns the master key.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func (p *PartitionedRNG) seedFor(name string) int64 {
	if name == SubsystemScenario {
		return int64(p.key)
	}
	return int64(p.key) ^ fnv1a64(name)
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
