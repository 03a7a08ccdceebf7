// Package testutil provides shared test infrastructure for procsim.
// It loads the model and config fixtures under the repository's testdata/
// directory and holds assertion helpers used across test packages.
package testutil

import (
	"math"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/procsim/procsim/sim/process"
)

// TestdataPath resolves a path under the repository's testdata/ directory.
// The path is resolved relative to this source file: internal/testutil/ → testdata/.
func TestdataPath(t *testing.T, elem ...string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	parts := append([]string{filepath.Dir(thisFile), "..", "..", "testdata"}, elem...)
	return filepath.Join(parts...)
}

// LoadModel loads testdata/models/<name>.
func LoadModel(t *testing.T, name string) *process.Model {
	t.Helper()

	m, err := process.Load(TestdataPath(t, "models", name))
	if err != nil {
		t.Fatalf("Failed to load model fixture %s: %v", name, err)
	}
	return m
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
