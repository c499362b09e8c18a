// Package testutil provides shared test infrastructure for the pricing simulator.
// It consolidates the golden market dataset and float assertion helpers used
// across sim/ and its sub-package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
// Expected values were computed independently from the closed-form formulas.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one market evaluation with its expected outputs.
type GoldenTestCase struct {
	Name           string        `json:"name"`
	PriceLattice   []float64     `json:"price_lattice"`
	BaselinePrice  float64       `json:"baseline_price"`
	BaselineDemand float64       `json:"baseline_demand"`
	Alpha          float64       `json:"alpha"`
	Beta           float64       `json:"beta"`
	Choices        []int         `json:"choices"`
	Metrics        GoldenMetrics `json:"metrics"`
}

// GoldenMetrics holds the expected intermediate and final vectors.
type GoldenMetrics struct {
	AveragePrice  float64   `json:"average_price"`
	TotalDemand   float64   `json:"total_demand"`
	Shares        []float64 `json:"shares"`
	Revenues      []float64 `json:"revenues"`
	MinMaxRewards []float64 `json:"min_max_rewards"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertSliceEqual compares two float64 slices element-wise with relative tolerance.
func AssertSliceEqual(t *testing.T, name string, want, got []float64, relTol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Errorf("%s: length %d, want %d", name, len(got), len(want))
		return
	}
	for i := range want {
		if math.Abs(want[i]) < 1e-12 {
			if math.Abs(got[i]) > 1e-12 {
				t.Errorf("%s[%d]: got %v, want %v", name, i, got[i], want[i])
			}
			continue
		}
		AssertFloat64Equal(t, name, want[i], got[i], relTol)
	}
}
