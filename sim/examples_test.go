package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procsim/procsim/internal/testutil"
	"github.com/procsim/procsim/sim/process"
)

// TestExampleModels_TwoStage verifies that the two-stage fixture loads and
// compiles into the expected network.
func TestExampleModels_TwoStage(t *testing.T) {
	// GIVEN the two_stage.yaml fixture
	m := testutil.LoadModel(t, "two_stage.yaml")

	// WHEN it is compiled
	net, err := Compile(m)
	require.NoError(t, err)

	// THEN node order follows the file and routing matches its transitions
	assert.Equal(t, []string{"Arrival", "Exit-bound"}, m.ActivityNames())
	assert.Equal(t, 2, net.Servers(0))
	assert.Equal(t, 1, net.Servers(1))
	assert.InDelta(t, 0.7, net.Routing(0, 1), 1e-12)
	assert.InDelta(t, 0.3, net.ExitProbability(0), 1e-12)
	assert.InDelta(t, 1.0, net.Arrival(0).Mean(), 1e-12)
}

// TestExampleModels_CallCentre verifies the embedded model round-trips
// through the parser and compiler.
func TestExampleModels_CallCentre(t *testing.T) {
	m, err := process.CallCentre()
	require.NoError(t, err)
	net, err := Compile(m)
	require.NoError(t, err)

	s := NewSimulator(net, 0)
	require.NoError(t, s.SimulateUntil(t.Context(), 120))
	assert.NotEmpty(t, s.Records())
}
