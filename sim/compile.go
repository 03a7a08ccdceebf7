package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/procsim/procsim/sim/dist"
	"github.com/procsim/procsim/sim/process"
)

// Compile maps a name-based process model onto an index-based Network.
//
// Activity i becomes node i. Node 0 receives the top-level inter-arrival
// stream; any activity with its own arrival descriptor receives that instead.
// Transitions to process.ExitNode are not stored: the exit probability of a
// node is whatever its routing row leaves unassigned. An activity that is
// itself named "Exit" shadows the sentinel. When the same
// (from, to) pair appears more than once, the last one wins.
//
// Compile is a pure function of its input and returns no partial network on
// error.
func Compile(m *process.Model) (*Network, error) {
	if m == nil || len(m.Activities) == 0 {
		return nil, &MissingParameterError{Field: "process.activities"}
	}
	n := len(m.Activities)

	index := make(map[string]int, n)
	for i, a := range m.Activities {
		if prev, dup := index[a.Name]; dup {
			return nil, &DuplicateActivityNameError{Name: a.Name, First: prev, Second: i}
		}
		index[a.Name] = i
	}

	arrivals := make([]dist.Sampler, n)
	services := make([]dist.Sampler, n)
	servers := make([]int, n)

	if m.InterArrival != nil && !m.InterArrival.IsZero() {
		s, err := newArrivalSampler(*m.InterArrival)
		if err != nil {
			return nil, fmt.Errorf("inter_arrival_time: %w", err)
		}
		arrivals[0] = s
	}

	for i, a := range m.Activities {
		if a.Arrival != nil && !a.Arrival.IsZero() {
			s, err := newArrivalSampler(*a.Arrival)
			if err != nil {
				return nil, fmt.Errorf("activity %q arrival: %w", a.Name, err)
			}
			arrivals[i] = s
		}

		if a.Service.Type == "" {
			return nil, &MissingParameterError{Field: fmt.Sprintf("activities[%d].distribution", i)}
		}
		s, err := newSampler(a.Service)
		if err != nil {
			return nil, fmt.Errorf("activity %q service: %w", a.Name, err)
		}
		services[i] = s

		capacity := a.Resource.Capacity()
		switch {
		case capacity.Unlimited:
			servers[i] = InfiniteServers
		case capacity.Count <= 0:
			return nil, &InvalidParameterError{
				Field:  fmt.Sprintf("activities[%d].resource.number", i),
				Value:  float64(capacity.Count),
				Reason: "must be a positive integer or \"infinite\"",
			}
		default:
			servers[i] = capacity.Count
		}
	}

	hasArrivals := false
	for _, s := range arrivals {
		if s != nil {
			hasArrivals = true
			break
		}
	}
	if !hasArrivals {
		return nil, &MissingParameterError{Field: "process.inter_arrival_time"}
	}

	routing := make([][]float64, n)
	for i := range routing {
		routing[i] = make([]float64, n)
	}
	assigned := make(map[[2]int]bool)
	explicitExit := make(map[int]float64)

	for k, t := range m.Transitions {
		src, ok := index[t.From]
		if !ok {
			return nil, &UnknownNodeReferenceError{Name: t.From, Transition: k, Endpoint: "from"}
		}
		if math.IsNaN(t.Probability) || t.Probability < 0 || t.Probability > 1 {
			return nil, &InvalidParameterError{
				Field:  fmt.Sprintf("transitions[%d].probability", k),
				Value:  t.Probability,
				Reason: "must be in [0, 1]",
			}
		}
		dst, ok := index[t.To]
		if !ok {
			if t.IsExit() {
				explicitExit[src] = t.Probability
				continue
			}
			return nil, &UnknownNodeReferenceError{Name: t.To, Transition: k, Endpoint: "to"}
		}
		if assigned[[2]int{src, dst}] {
			logrus.Debugf("transitions[%d]: %s -> %s overrides an earlier probability %.4f with %.4f",
				k, t.From, t.To, routing[src][dst], t.Probability)
		}
		assigned[[2]int{src, dst}] = true
		routing[src][dst] = t.Probability
	}

	for i, row := range routing {
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		if sum > 1+RowSumTolerance {
			return nil, &InvalidParameterError{
				Field:  fmt.Sprintf("transitions from %q", m.Activities[i].Name),
				Value:  sum,
				Reason: "outgoing probabilities to activities sum to more than 1",
			}
		}
		if p, ok := explicitExit[i]; ok && math.Abs((1-sum)-p) > 1e-6 {
			logrus.Warnf("activity %q: explicit Exit probability %.4f differs from the implied %.4f; the implied value is used",
				m.Activities[i].Name, p, math.Max(0, 1-sum))
		}
	}

	net, err := NewNetwork(arrivals, services, servers, routing)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("compiled %d nodes, entry nodes %v", n, net.EntryNodes())
	return net, nil
}

// newSampler maps an empty type onto MissingParameterError before delegating
// to the factory.
func newSampler(spec dist.Spec) (dist.Sampler, error) {
	if spec.Type == "" {
		return nil, &MissingParameterError{Field: "distribution"}
	}
	return dist.New(spec)
}

// newArrivalSampler additionally rejects streams whose inter-arrival times are
// always zero, which would flood a node with simultaneous arrivals.
func newArrivalSampler(spec dist.Spec) (dist.Sampler, error) {
	s, err := newSampler(spec)
	if err != nil {
		return nil, err
	}
	if s.Mean() <= 0 {
		return nil, &InvalidParameterError{Field: string(spec.Type), Value: s.Mean(), Reason: "inter-arrival times must have a positive mean"}
	}
	return s, nil
}
