// Package testutil provides shared test infrastructure for the simulator:
// hand-derived segment scenarios and float assertion helpers.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// SegmentScenarios represents the structure of testdata/segment_scenarios.json.
type SegmentScenarios struct {
	Scenarios []SegmentScenario `json:"scenarios"`
}

// SegmentScenario is a single segment with slices placed and promoted at t=0,
// and the remaining work of each slice after the given number of ticks.
type SegmentScenario struct {
	Name         string    `json:"name"`
	Cores        int       `json:"cores"`
	CoreCapacity float64   `json:"core_capacity"`
	Curve        string    `json:"curve"`
	Works        []float64 `json:"works"`
	Ticks        int       `json:"ticks"`
	Remaining    []float64 `json:"remaining"`
}

// LoadSegmentScenarios loads the scenario table from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadSegmentScenarios(t *testing.T) *SegmentScenarios {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "segment_scenarios.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read segment scenarios: %v", err)
	}

	var scenarios SegmentScenarios
	if err := json.Unmarshal(data, &scenarios); err != nil {
		t.Fatalf("Failed to parse segment scenarios: %v", err)
	}
	for _, sc := range scenarios.Scenarios {
		if len(sc.Works) != len(sc.Remaining) {
			t.Fatalf("scenario %q: %d works but %d remaining values", sc.Name, len(sc.Works), len(sc.Remaining))
		}
	}
	return &scenarios
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
