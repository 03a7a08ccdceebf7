package sim

import "container/heap"

// EventType orders simultaneous events.
type EventType int

const (
	// Completions run before arrivals at the same instant, so a server freed
	// at t is available to a customer arriving at t.
	EventTypeServiceCompletion EventType = iota
	EventTypeExternalArrival
)

// Event defines the interface for all simulation events.
type Event interface {
	Timestamp() float64
	Type() EventType
	EventID() uint64
	Execute(*Simulator)
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	time    float64
	eventID uint64
}

func (e *BaseEvent) Timestamp() float64 { return e.time }
func (e *BaseEvent) EventID() uint64    { return e.eventID }

// ExternalArrivalEvent brings a new customer into the system at Node.
type ExternalArrivalEvent struct {
	BaseEvent
	Node int
}

func (e *ExternalArrivalEvent) Type() EventType { return EventTypeExternalArrival }

// Execute schedules the node's next external arrival, then admits the customer.
func (e *ExternalArrivalEvent) Execute(sim *Simulator) {
	sim.scheduleExternalArrival(e.Node, e.time)
	sim.arrive(sim.newCustomer(), e.Node, e.time)
}

// ServiceCompletionEvent ends the service of Visit.
type ServiceCompletionEvent struct {
	BaseEvent
	Visit *visit
}

func (e *ServiceCompletionEvent) Type() EventType { return EventTypeServiceCompletion }

// Execute releases the server, records the visit and routes the customer on.
func (e *ServiceCompletionEvent) Execute(sim *Simulator) {
	sim.complete(e.Visit, e.time)
}

// EventHeap implements a priority queue with deterministic ordering.
// Ordering: timestamp → type priority → event ID
type EventHeap struct {
	events []Event
}

// NewEventHeap creates a new event heap
func NewEventHeap() *EventHeap {
	h := &EventHeap{
		events: make([]Event, 0),
	}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *EventHeap) Len() int {
	return len(h.events)
}

// Less implements heap.Interface with deterministic ordering
func (h *EventHeap) Less(i, j int) bool {
	ei, ej := h.events[i], h.events[j]

	if ei.Timestamp() != ej.Timestamp() {
		return ei.Timestamp() < ej.Timestamp()
	}
	if ei.Type() != ej.Type() {
		return ei.Type() < ej.Type()
	}
	return ei.EventID() < ej.EventID()
}

// Swap implements heap.Interface
func (h *EventHeap) Swap(i, j int) {
	h.events[i], h.events[j] = h.events[j], h.events[i]
}

// Push implements heap.Interface
func (h *EventHeap) Push(x any) {
	h.events = append(h.events, x.(Event))
}

// Pop implements heap.Interface
func (h *EventHeap) Pop() any {
	old := h.events
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.events = old[0 : n-1]
	return item
}

// Schedule adds an event to the heap
func (h *EventHeap) Schedule(e Event) {
	heap.Push(h, e)
}

// PopNext removes and returns the next event
func (h *EventHeap) PopNext() Event {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(Event)
}

// Peek returns the next event without removing it
func (h *EventHeap) Peek() Event {
	if h.Len() == 0 {
		return nil
	}
	return h.events[0]
}
