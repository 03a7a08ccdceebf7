// sim/simulator.go
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/procsim/procsim/sim/dist"
)

// ExitDestination is VisitRecord.Destination for customers leaving the system.
const ExitDestination = -1

// ctxCheckInterval is how many events run between context checks.
const ctxCheckInterval = 4096

// VisitRecord describes one completed visit of a customer to a node.
type VisitRecord struct {
	Customer         int
	Node             int
	ArrivalTime      float64
	WaitingTime      float64
	ServiceStartTime float64
	ServiceTime      float64
	ExitTime         float64
	// Destination is the next node, or ExitDestination.
	Destination int
}

type visit struct {
	customer int
	node     int
	arrival  float64
	start    float64
	service  float64
}

type nodeState struct {
	servers   int // capacity or InfiniteServers
	queue     WaitQueue
	inService []*visit
	peakBusy  int
	// busy server-time of services that have completed
	busyTime float64
}

func (n *nodeState) hasFreeServer() bool {
	return n.servers == InfiniteServers || len(n.inService) < n.servers
}

// Simulator runs one replication of a Network. It keeps all run-local state
// itself and only reads the Network, so any number of Simulators may share
// one Network.
type Simulator struct {
	Clock      float64
	Horizon    float64
	EventQueue *EventHeap // pending arrival and completion events

	net     *Network
	rng     *PartitionedRNG
	nodes   []*nodeState
	records []VisitRecord

	nextEventID  uint64
	nextCustomer int
	started      bool
	err          error
}

// NewSimulator creates a simulator for net whose random streams all derive
// from seed.
func NewSimulator(net *Network, seed int64) *Simulator {
	s := &Simulator{
		EventQueue: NewEventHeap(),
		net:        net,
		rng:        NewPartitionedRNG(NewSimulationKey(seed)),
		nodes:      make([]*nodeState, net.NumNodes()),
	}
	for i := range s.nodes {
		s.nodes[i] = &nodeState{servers: net.Servers(i)}
	}
	return s
}

// SimulateUntil advances the simulation to absolute time horizon, executing
// every event scheduled strictly before it. It may be called repeatedly with
// non-decreasing horizons; the run continues where it stopped.
func (s *Simulator) SimulateUntil(ctx context.Context, horizon float64) error {
	if math.IsNaN(horizon) || math.IsInf(horizon, 0) || horizon < 0 {
		return fmt.Errorf("horizon must be a finite non-negative time, got %v", horizon)
	}
	if horizon < s.Horizon {
		return fmt.Errorf("cannot simulate back to %v: already at horizon %v", horizon, s.Horizon)
	}
	if s.err != nil {
		return s.err
	}
	if !s.started {
		s.started = true
		for _, node := range s.net.EntryNodes() {
			s.scheduleExternalArrival(node, 0)
		}
		if s.err != nil {
			return s.err
		}
	}
	s.Horizon = horizon

	processed := 0
	for s.EventQueue.Len() > 0 && s.EventQueue.Peek().Timestamp() < horizon {
		if processed%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		ev := s.EventQueue.PopNext()
		if ev.Timestamp() < s.Clock {
			return fmt.Errorf("clock went backwards: %v < %v", ev.Timestamp(), s.Clock)
		}
		s.Clock = ev.Timestamp()
		if logrus.IsLevelEnabled(logrus.TraceLevel) {
			logrus.Tracef("[t=%.4f] Executing %T", s.Clock, ev)
		}
		ev.Execute(s)
		if s.err != nil {
			return s.err
		}
		processed++
	}
	logrus.Debugf("[t=%.4f] advanced to horizon %.4f: %d events, %d visits recorded",
		s.Clock, horizon, processed, len(s.records))
	return nil
}

// Records returns a copy of every completed visit so far, in completion order.
func (s *Simulator) Records() []VisitRecord {
	out := make([]VisitRecord, len(s.records))
	copy(out, s.records)
	return out
}

// BusyTime returns the server-time node spent serving in [0, Horizon],
// counting services still in progress up to the horizon.
func (s *Simulator) BusyTime(node int) float64 {
	st := s.nodes[node]
	busy := st.busyTime
	for _, v := range st.inService {
		busy += math.Max(0, math.Min(v.start+v.service, s.Horizon)-v.start)
	}
	return busy
}

// ServerCount returns node's capacity. Unlimited nodes report the peak number
// of servers that were busy at once, as servers are only created on demand.
func (s *Simulator) ServerCount(node int) int {
	st := s.nodes[node]
	if st.servers == InfiniteServers {
		return st.peakBusy
	}
	return st.servers
}

// Utilisation returns the time-averaged fraction of node's servers that were
// busy over [0, Horizon].
func (s *Simulator) Utilisation(node int) float64 {
	c := s.ServerCount(node)
	if c == 0 || s.Horizon <= 0 {
		return 0
	}
	return s.BusyTime(node) / (float64(c) * s.Horizon)
}

// QueueLength returns how many customers are waiting at node right now.
func (s *Simulator) QueueLength(node int) int {
	return s.nodes[node].queue.Len()
}

func (s *Simulator) schedule(ev Event) {
	s.EventQueue.Schedule(ev)
}

func (s *Simulator) newEventID() uint64 {
	s.nextEventID++
	return s.nextEventID
}

func (s *Simulator) newCustomer() int {
	s.nextCustomer++
	return s.nextCustomer
}

// draw samples d on the named stream. Negative draws clamp to zero; a
// non-finite draw stops the run.
func (s *Simulator) draw(d dist.Sampler, subsystem string) float64 {
	v := d.Sample(s.rng.ForSubsystem(subsystem))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s.err = fmt.Errorf("%s: %s sampler produced %v", subsystem, d.Kind(), v)
		return 0
	}
	return math.Max(0, v)
}

func (s *Simulator) scheduleExternalArrival(node int, now float64) {
	iat := s.draw(s.net.Arrival(node), SubsystemArrival(node))
	s.schedule(&ExternalArrivalEvent{
		BaseEvent: BaseEvent{time: now + iat, eventID: s.newEventID()},
		Node:      node,
	})
}

func (s *Simulator) arrive(customer, node int, now float64) {
	v := &visit{customer: customer, node: node, arrival: now}
	st := s.nodes[node]
	if st.hasFreeServer() {
		s.startService(v, now)
		return
	}
	st.queue.Enqueue(v)
}

func (s *Simulator) startService(v *visit, now float64) {
	st := s.nodes[v.node]
	v.start = now
	v.service = s.draw(s.net.Service(v.node), SubsystemService(v.node))
	st.inService = append(st.inService, v)
	if len(st.inService) > st.peakBusy {
		st.peakBusy = len(st.inService)
	}
	s.schedule(&ServiceCompletionEvent{
		BaseEvent: BaseEvent{time: now + v.service, eventID: s.newEventID()},
		Visit:     v,
	})
}

func (s *Simulator) complete(v *visit, now float64) {
	st := s.nodes[v.node]
	for i, other := range st.inService {
		if other == v {
			st.inService = append(st.inService[:i], st.inService[i+1:]...)
			break
		}
	}
	st.busyTime += v.service

	dest := s.route(v.node)
	s.records = append(s.records, VisitRecord{
		Customer:         v.customer,
		Node:             v.node,
		ArrivalTime:      v.arrival,
		WaitingTime:      v.start - v.arrival,
		ServiceStartTime: v.start,
		ServiceTime:      v.service,
		ExitTime:         now,
		Destination:      dest,
	})

	if next := st.queue.Dequeue(); next != nil {
		s.startService(next, now)
	}
	if dest != ExitDestination {
		s.arrive(v.customer, dest, now)
	}
}

// route draws the next node for a customer leaving node. One uniform draw is
// consumed per departure whether or not the row has any mass.
func (s *Simulator) route(node int) int {
	u := s.rng.ForSubsystem(SubsystemRouting).Float64()
	cum := 0.0
	for j, p := range s.net.routing[node] {
		cum += p
		if u < cum {
			return j
		}
	}
	return ExitDestination
}
