package sim_test

// Blank import triggers sim/reward's init(), which registers NewRewardNormalizerFunc.
// This allows package sim's internal test files to build normalizers
// without directly importing sim/reward (which would create an import cycle).
import _ "github.com/pricing-sim/pricing-sim/sim/reward"
