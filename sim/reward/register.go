// register.go wires sim/reward's constructor into the sim package's
// registration variable (NewRewardNormalizerFunc). This init() runs when any
// package imports sim/reward, breaking the import cycle between sim/
// (interface owner) and sim/reward/ (implementation).
package reward

import "github.com/pricing-sim/pricing-sim/sim"

func init() {
	sim.NewRewardNormalizerFunc = New
}
