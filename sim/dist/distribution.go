package dist

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Kind names a supported distribution family. The set is closed: New switches
// over every Kind and anything else is an UnsupportedDistributionError.
type Kind string

const (
	Exponential   Kind = "exponential"
	Triangular    Kind = "triangular"
	Uniform       Kind = "uniform"
	Deterministic Kind = "deterministic"
)

// Kinds lists the supported distribution types in a stable order.
func Kinds() []Kind {
	return []Kind{Exponential, Triangular, Uniform, Deterministic}
}

// Spec is a declarative distribution descriptor: a type plus named parameters.
// It is inlined into activity definitions, so the keys are "distribution" and
// "parameters".
type Spec struct {
	Type   Kind               `yaml:"distribution" json:"distribution"`
	Params map[string]float64 `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// IsZero reports whether the descriptor was left empty.
func (s Spec) IsZero() bool {
	return s.Type == "" && len(s.Params) == 0
}

// paramNames returns the parameter keys in sorted order.
func (s Spec) paramNames() []string {
	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s Spec) String() string {
	keys := s.paramNames()
	out := string(s.Type) + "("
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%g", k, s.Params[k])
	}
	return out + ")"
}

// Sampler draws non-negative durations. Samplers hold no random state; the
// caller owns the stream, which keeps one sampler safe to share between
// concurrently running replications.
type Sampler interface {
	// Sample returns the next duration drawn from rng.
	Sample(rng *rand.Rand) float64
	// Mean returns the analytic mean of the distribution.
	Mean() float64
	Kind() Kind
}

// ExponentialSampler draws exponentially distributed values with rate λ.
type ExponentialSampler struct {
	rate float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return distuv.Exponential{Rate: s.rate, Src: rng}.Rand()
}

func (s *ExponentialSampler) Mean() float64 { return 1 / s.rate }
func (s *ExponentialSampler) Kind() Kind    { return Exponential }

// Rate returns λ.
func (s *ExponentialSampler) Rate() float64 { return s.rate }

// TriangularSampler draws from a triangular distribution on [min, max] with
// the given mode.
type TriangularSampler struct {
	min, mode, max float64
}

func (s *TriangularSampler) Sample(rng *rand.Rand) float64 {
	if s.min == s.max {
		return s.min
	}
	return distuv.NewTriangle(s.min, s.max, s.mode, rng).Rand()
}

func (s *TriangularSampler) Mean() float64 { return (s.min + s.mode + s.max) / 3 }
func (s *TriangularSampler) Kind() Kind    { return Triangular }

// UniformSampler draws uniformly from [min, max].
type UniformSampler struct {
	min, max float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) float64 {
	return distuv.Uniform{Min: s.min, Max: s.max, Src: rng}.Rand()
}

func (s *UniformSampler) Mean() float64 { return (s.min + s.max) / 2 }
func (s *UniformSampler) Kind() Kind    { return Uniform }

// DeterministicSampler always returns the same value and never touches rng.
type DeterministicSampler struct {
	value float64
}

func (s *DeterministicSampler) Sample(_ *rand.Rand) float64 { return s.value }
func (s *DeterministicSampler) Mean() float64               { return s.value }
func (s *DeterministicSampler) Kind() Kind                  { return Deterministic }

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return &MissingParameterError{Field: k}
		}
	}
	return nil
}

func requireNonNegative(name string, val float64) error {
	if val < 0 {
		return &InvalidParameterError{Field: name, Value: val, Reason: "must be non-negative"}
	}
	return nil
}

// New creates a Sampler from a Spec.
//
// Exponential accepts either "rate" (λ) or "mean" (1/λ), never both. The value
// is always interpreted as written: a rate is a rate for arrivals and services
// alike.
func New(spec Spec) (Sampler, error) {
	for _, name := range spec.paramNames() {
		if val := spec.Params[name]; math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, &InvalidParameterError{Field: name, Value: val, Reason: "must be a finite number"}
		}
	}

	switch spec.Type {
	case Exponential:
		rate, hasRate := spec.Params["rate"]
		mean, hasMean := spec.Params["mean"]
		switch {
		case hasRate && hasMean:
			return nil, &InvalidParameterError{Field: "rate", Value: rate, Reason: `"rate" and "mean" are mutually exclusive`}
		case hasMean:
			if mean <= 0 {
				return nil, &InvalidParameterError{Field: "mean", Value: mean, Reason: "must be positive"}
			}
			rate = 1 / mean
		case hasRate:
			if rate <= 0 {
				return nil, &InvalidParameterError{Field: "rate", Value: rate, Reason: "must be positive"}
			}
		default:
			return nil, &MissingParameterError{Field: "rate"}
		}
		return &ExponentialSampler{rate: rate}, nil

	case Triangular:
		if err := requireParam(spec.Params, "min", "mode", "max"); err != nil {
			return nil, err
		}
		lo, mode, hi := spec.Params["min"], spec.Params["mode"], spec.Params["max"]
		if err := requireNonNegative("min", lo); err != nil {
			return nil, err
		}
		if mode < lo {
			return nil, &InvalidParameterError{Field: "mode", Value: mode, Reason: fmt.Sprintf("must be >= min (%g)", lo)}
		}
		if hi < mode {
			return nil, &InvalidParameterError{Field: "max", Value: hi, Reason: fmt.Sprintf("must be >= mode (%g)", mode)}
		}
		return &TriangularSampler{min: lo, mode: mode, max: hi}, nil

	case Uniform:
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		lo, hi := spec.Params["min"], spec.Params["max"]
		if err := requireNonNegative("min", lo); err != nil {
			return nil, err
		}
		if hi < lo {
			return nil, &InvalidParameterError{Field: "max", Value: hi, Reason: fmt.Sprintf("must be >= min (%g)", lo)}
		}
		return &UniformSampler{min: lo, max: hi}, nil

	case Deterministic:
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		val := spec.Params["value"]
		if err := requireNonNegative("value", val); err != nil {
			return nil, err
		}
		return &DeterministicSampler{value: val}, nil

	default:
		return nil, &UnsupportedDistributionError{Type: string(spec.Type)}
	}
}
