package sim

import (
	"fmt"
	"math"

	"github.com/procsim/procsim/sim/dist"
)

// InfiniteServers marks a node with unlimited capacity.
const InfiniteServers = -1

// RowSumTolerance is the slack allowed when checking that a routing row sums
// to at most one.
const RowSumTolerance = 1e-9

// Network is the index-based blueprint the simulator runs. It is immutable:
// fields are unexported and accessors return copies, so one Network can back
// any number of concurrent replications.
type Network struct {
	arrivals []dist.Sampler
	services []dist.Sampler
	servers  []int
	routing  [][]float64
}

// NewNetwork assembles a Network. All slices are indexed by node; a nil
// arrival sampler means the node gets no external arrivals. Row i of routing
// holds the probabilities of moving from node i to each node; the shortfall of
// the row sum from one is the probability of leaving the system.
func NewNetwork(arrivals, services []dist.Sampler, servers []int, routing [][]float64) (*Network, error) {
	n := len(services)
	if n == 0 {
		return nil, fmt.Errorf("network needs at least one node")
	}
	if len(arrivals) != n || len(servers) != n || len(routing) != n {
		return nil, fmt.Errorf("network shape mismatch: %d services, %d arrivals, %d server counts, %d routing rows",
			n, len(arrivals), len(servers), len(routing))
	}

	net := &Network{
		arrivals: make([]dist.Sampler, n),
		services: make([]dist.Sampler, n),
		servers:  make([]int, n),
		routing:  make([][]float64, n),
	}
	copy(net.arrivals, arrivals)
	copy(net.services, services)
	copy(net.servers, servers)

	for i := 0; i < n; i++ {
		if services[i] == nil {
			return nil, fmt.Errorf("node %d has no service distribution", i)
		}
		if servers[i] <= 0 && servers[i] != InfiniteServers {
			return nil, fmt.Errorf("node %d: server count must be positive or InfiniteServers, got %d", i, servers[i])
		}
		if len(routing[i]) != n {
			return nil, fmt.Errorf("routing row %d has %d entries, want %d", i, len(routing[i]), n)
		}
		sum := 0.0
		for j, p := range routing[i] {
			if math.IsNaN(p) || p < 0 || p > 1 {
				return nil, &InvalidParameterError{Field: fmt.Sprintf("routing[%d][%d]", i, j), Value: p, Reason: "must be in [0, 1]"}
			}
			sum += p
		}
		if sum > 1+RowSumTolerance {
			return nil, &InvalidParameterError{Field: fmt.Sprintf("routing[%d]", i), Value: sum, Reason: "row sum exceeds 1"}
		}
		net.routing[i] = append([]float64(nil), routing[i]...)
	}
	return net, nil
}

// NumNodes returns the number of nodes.
func (n *Network) NumNodes() int {
	return len(n.services)
}

// Arrival returns node i's external inter-arrival sampler, or nil.
func (n *Network) Arrival(i int) dist.Sampler {
	return n.arrivals[i]
}

// Service returns node i's service sampler.
func (n *Network) Service(i int) dist.Sampler {
	return n.services[i]
}

// Servers returns node i's server count, or InfiniteServers.
func (n *Network) Servers(i int) int {
	return n.servers[i]
}

// Routing returns the probability of moving from node i to node j.
func (n *Network) Routing(i, j int) float64 {
	return n.routing[i][j]
}

// RoutingRow returns a copy of node i's routing row.
func (n *Network) RoutingRow(i int) []float64 {
	return append([]float64(nil), n.routing[i]...)
}

// ExitProbability is the implicit probability of leaving after node i.
func (n *Network) ExitProbability(i int) float64 {
	sum := 0.0
	for _, p := range n.routing[i] {
		sum += p
	}
	return math.Max(0, 1-sum)
}

// EntryNodes returns the nodes that receive external arrivals.
func (n *Network) EntryNodes() []int {
	var out []int
	for i, a := range n.arrivals {
		if a != nil {
			out = append(out, i)
		}
	}
	return out
}
