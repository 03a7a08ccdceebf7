package dist

import "fmt"

// MissingParameterError reports a required field that was not supplied.
type MissingParameterError struct {
	Field string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Field)
}

// UnsupportedDistributionError reports a distribution type outside Kinds().
type UnsupportedDistributionError struct {
	Type string
}

func (e *UnsupportedDistributionError) Error() string {
	return fmt.Sprintf("unsupported distribution type %q; valid: exponential, triangular, uniform, deterministic", e.Type)
}

// InvalidParameterError reports a parameter that is present but out of range.
type InvalidParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q = %g: %s", e.Field, e.Value, e.Reason)
}
