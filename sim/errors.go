package sim

import (
	"fmt"

	"github.com/procsim/procsim/sim/dist"
)

// Distribution-level errors are defined next to the factory and shared here so
// callers can match every compile error against package sim.
type (
	MissingParameterError        = dist.MissingParameterError
	UnsupportedDistributionError = dist.UnsupportedDistributionError
	InvalidParameterError        = dist.InvalidParameterError
)

// DuplicateActivityNameError reports two activities sharing a name.
type DuplicateActivityNameError struct {
	Name          string
	First, Second int
}

func (e *DuplicateActivityNameError) Error() string {
	return fmt.Sprintf("duplicate activity name %q at indices %d and %d", e.Name, e.First, e.Second)
}

// UnknownNodeReferenceError reports a transition endpoint that names no activity.
type UnknownNodeReferenceError struct {
	Name       string
	Transition int
	Endpoint   string // "from" or "to"
}

func (e *UnknownNodeReferenceError) Error() string {
	return fmt.Sprintf("transitions[%d].%s: unknown activity %q", e.Transition, e.Endpoint, e.Name)
}

// SimulationExecutionError wraps an engine failure with the replication it
// happened in.
type SimulationExecutionError struct {
	Replication int
	Err         error
}

func (e *SimulationExecutionError) Error() string {
	return fmt.Sprintf("replication %d: %v", e.Replication, e.Err)
}

func (e *SimulationExecutionError) Unwrap() error {
	return e.Err
}
