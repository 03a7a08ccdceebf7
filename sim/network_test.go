package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procsim/procsim/sim/dist"
)

func mustSampler(t *testing.T, spec dist.Spec) dist.Sampler {
	t.Helper()
	s, err := dist.New(spec)
	require.NoError(t, err)
	return s
}

func TestNewNetwork_CopiesInputs(t *testing.T) {
	svc := mustSampler(t, detSpec(1))
	arr := mustSampler(t, expSpec(1))
	routing := [][]float64{{0, 0.5}, {0, 0}}
	servers := []int{2, InfiniteServers}

	net, err := NewNetwork([]dist.Sampler{arr, nil}, []dist.Sampler{svc, svc}, servers, routing)
	require.NoError(t, err)

	// WHEN the caller mutates its slices afterwards
	routing[0][1] = 0.9
	servers[0] = 7

	// THEN the network is unaffected
	assert.Equal(t, 0.5, net.Routing(0, 1))
	assert.Equal(t, 2, net.Servers(0))

	row := net.RoutingRow(0)
	row[1] = 1
	assert.Equal(t, 0.5, net.Routing(0, 1), "RoutingRow returns a copy")
}

func TestNewNetwork_Rejects(t *testing.T) {
	svc := mustSampler(t, detSpec(1))
	arr := mustSampler(t, expSpec(1))

	tests := []struct {
		name     string
		arrivals []dist.Sampler
		services []dist.Sampler
		servers  []int
		routing  [][]float64
	}{
		{"no nodes", nil, nil, nil, nil},
		{"shape mismatch", []dist.Sampler{arr}, []dist.Sampler{svc, svc}, []int{1, 1}, [][]float64{{0, 0}, {0, 0}}},
		{"nil service", []dist.Sampler{arr}, []dist.Sampler{nil}, []int{1}, [][]float64{{0}}},
		{"zero servers", []dist.Sampler{arr}, []dist.Sampler{svc}, []int{0}, [][]float64{{0}}},
		{"short row", []dist.Sampler{arr, nil}, []dist.Sampler{svc, svc}, []int{1, 1}, [][]float64{{0}, {0, 0}}},
		{"negative probability", []dist.Sampler{arr}, []dist.Sampler{svc}, []int{1}, [][]float64{{-0.1}}},
		{"row sum above one", []dist.Sampler{arr, nil}, []dist.Sampler{svc, svc}, []int{1, 1}, [][]float64{{0.6, 0.6}, {0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := NewNetwork(tt.arrivals, tt.services, tt.servers, tt.routing)
			assert.Error(t, err)
			assert.Nil(t, net)
		})
	}
}

func TestNetwork_RowSumToleranceAccepted(t *testing.T) {
	svc := mustSampler(t, detSpec(1))
	arr := mustSampler(t, expSpec(1))
	// 0.1 + 0.2 + 0.7 lands just above 1 in floating point
	_, err := NewNetwork(
		[]dist.Sampler{arr, nil, nil},
		[]dist.Sampler{svc, svc, svc},
		[]int{1, 1, 1},
		[][]float64{{0.1, 0.2, 0.7}, {0, 0, 0}, {0, 0, 0}},
	)
	assert.NoError(t, err)
}

func TestNetwork_ExitProbabilityAndEntryNodes(t *testing.T) {
	svc := mustSampler(t, detSpec(1))
	arr := mustSampler(t, expSpec(1))
	net, err := NewNetwork(
		[]dist.Sampler{nil, arr},
		[]dist.Sampler{svc, svc},
		[]int{1, 1},
		[][]float64{{0.25, 0.25}, {1, 0}},
	)
	require.NoError(t, err)

	assert.Equal(t, 0.5, net.ExitProbability(0))
	assert.Equal(t, 0.0, net.ExitProbability(1))
	assert.Equal(t, []int{1}, net.EntryNodes())
	assert.Equal(t, 2, net.NumNodes())
}
