package sim

import (
	"math"
	"testing"
)

func TestExponentialDemand_ZeroElasticityIsConstant(t *testing.T) {
	d := ExponentialDemand{BaselinePrice: 3, BaselineDemand: 1000}
	for _, p := range []float64{0, 3, 5, 1e6, -50} {
		if got := d.TotalDemand(p, 0); got != 1000 {
			t.Errorf("TotalDemand(%v, 0) = %v, want 1000", p, got)
		}
	}
}

func TestExponentialDemand_StrictlyDecreasingInPrice(t *testing.T) {
	d := ExponentialDemand{BaselinePrice: 3, BaselineDemand: 1000}
	for _, alpha := range []float64{0.01, 0.2, 1.5} {
		prev := d.TotalDemand(0, alpha)
		for p := 0.25; p <= 10; p += 0.25 {
			cur := d.TotalDemand(p, alpha)
			if cur >= prev {
				t.Fatalf("alpha=%v: demand at %v (%v) not below demand at %v (%v)", alpha, p, cur, p-0.25, prev)
			}
			prev = cur
		}
	}
}

func TestExponentialDemand_ReferencePoint(t *testing.T) {
	d := NewExponentialDemand(referenceLattice(t))

	// GIVEN avgPrice=5.00, alpha=0.2 THEN demand = 1000*exp(-0.4)
	want := 1000 * math.Exp(-0.4)
	if got := d.TotalDemand(5.00, 0.2); math.Abs(got-want) > 1e-9 {
		t.Errorf("TotalDemand(5, 0.2) = %v, want %v", got, want)
	}
	if got := d.TotalDemand(5.00, 0.2); math.Abs(got-670.32) > 0.01 {
		t.Errorf("TotalDemand(5, 0.2) = %v, want ~670.32", got)
	}
	// At the baseline price demand is the baseline volume.
	if got := d.TotalDemand(3.00, 0.2); got != 1000 {
		t.Errorf("TotalDemand(baseline) = %v, want 1000", got)
	}
	// Below baseline demand rises.
	if got := d.TotalDemand(2.00, 0.2); got <= 1000 {
		t.Errorf("TotalDemand(2, 0.2) = %v, want > 1000", got)
	}
}

func TestExponentialDemand_UnderflowIsNotAnError(t *testing.T) {
	d := ExponentialDemand{BaselinePrice: 0, BaselineDemand: 1000}
	got := d.TotalDemand(1e6, 10)
	if got != 0 || math.IsNaN(got) {
		t.Errorf("expected underflow to 0, got %v", got)
	}
}
