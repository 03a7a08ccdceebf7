package experiment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/procsim/procsim/internal/testutil"
	"github.com/procsim/procsim/sim"
	"github.com/procsim/procsim/sim/process"
)

// newTwoStageRunner loads the Arrival -> Exit-bound fixture.
func newTwoStageRunner(t *testing.T, opts ...Option) (*Runner, *process.Model) {
	t.Helper()
	m := testutil.LoadModel(t, "two_stage.yaml")
	net, err := sim.Compile(m)
	require.NoError(t, err)
	r, err := NewRunner(net, m, opts...)
	require.NoError(t, err)
	return r, m
}

func smallConfig() Config {
	return Config{Replications: 4, Horizon: 200, Warmup: 0, Seed: 0, Workers: 1}
}

// row builds a ReplicationRow with every metric set to v.
func row(rep, node int, activity, resource string, v float64) ReplicationRow {
	return ReplicationRow{
		Replication: rep,
		Node:        node,
		Activity:    activity,
		Resource:    resource,
		Capacity:    process.Servers(1),
		Arrivals:    int(v),
		MeanWait:    v,
		MeanService: v,
		Utilisation: v,
		MeanLq:      v,
	}
}
