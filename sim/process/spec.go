package process

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/procsim/procsim/sim/dist"
)

// ExitNode is the transition target meaning "leave the system".
const ExitNode = "Exit"

// Document is the top level of a process file.
type Document struct {
	Process Model `yaml:"process" validate:"required"`
}

// Model is a name-based description of a queueing process. Activity order
// defines node indices: activity i becomes node i, and activity 0 is the entry
// node for the top-level inter-arrival stream.
type Model struct {
	Name         string       `yaml:"name,omitempty"`
	Description  string       `yaml:"description,omitempty"`
	Activities   []Activity   `yaml:"activities" validate:"required,min=1,dive"`
	Transitions  []Transition `yaml:"transitions,omitempty" validate:"dive"`
	InterArrival *dist.Spec   `yaml:"inter_arrival_time,omitempty"`
}

// Activity is one queueing stage.
type Activity struct {
	Name     string     `yaml:"name" validate:"required"`
	Service  dist.Spec  `yaml:",inline"`
	Arrival  *dist.Spec `yaml:"arrival,omitempty"`
	Resource Resource   `yaml:"resource,omitempty"`
}

// Resource names the servers working an activity and how many there are.
type Resource struct {
	Name   string    `yaml:"name,omitempty"`
	Number *Capacity `yaml:"number,omitempty"`
	Type   string    `yaml:"type,omitempty" validate:"omitempty,oneof=finite infinite"`
}

// Capacity resolves the server count, defaulting to a single server.
func (r Resource) Capacity() Capacity {
	if r.Type == "infinite" {
		return Capacity{Unlimited: true}
	}
	if r.Number == nil {
		return Capacity{Count: 1}
	}
	return *r.Number
}

// Transition routes a fraction of departures from one activity to another.
type Transition struct {
	From        string  `yaml:"from" validate:"required"`
	To          string  `yaml:"to" validate:"required"`
	Probability float64 `yaml:"probability" validate:"gte=0,lte=1"`
}

// IsExit reports whether the transition leaves the system.
func (t Transition) IsExit() bool {
	return t.To == ExitNode
}

// Capacity is a server count or the unlimited sentinel. In YAML it is either
// an integer or the string "infinite".
type Capacity struct {
	Count     int
	Unlimited bool
}

// Infinite is the unlimited capacity.
var Infinite = Capacity{Unlimited: true}

// Servers returns a finite server count.
func Servers(n int) Capacity {
	return Capacity{Count: n}
}

func (c Capacity) String() string {
	if c.Unlimited {
		return "infinite"
	}
	return strconv.Itoa(c.Count)
}

func (c *Capacity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: resource number must be an integer or \"infinite\"", node.Line)
	}
	switch strings.ToLower(node.Value) {
	case "infinite", "inf", "unlimited":
		*c = Infinite
		return nil
	}
	n, err := strconv.Atoi(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: resource number %q must be an integer or \"infinite\"", node.Line, node.Value)
	}
	*c = Capacity{Count: n}
	return nil
}

func (c Capacity) MarshalYAML() (any, error) {
	if c.Unlimited {
		return "infinite", nil
	}
	return c.Count, nil
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report yaml field names so messages match what the user wrote.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// Load reads and parses a process file. JSON is accepted as well as YAML.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading process model: %w", err)
	}
	m, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a process document. Uses strict parsing: unrecognized keys
// (typos) are rejected.
func Parse(r io.Reader) (*Model, error) {
	var doc Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing process model: empty document")
		}
		return nil, fmt.Errorf("parsing process model: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc.Process, nil
}

// Validate checks the document's structure. Semantic checks (distribution
// parameters, node references, routing sums) happen at compile time.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Validate checks the model's structure.
func (m *Model) Validate() error {
	return (&Document{Process: *m}).Validate()
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid process model: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Document.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must have at least %s entries", field, fe.Param()))
		case "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be in [0, 1], got %v", field, fe.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid process model: %s", strings.Join(msgs, "; "))
}

// ActivityNames returns activity names in node order.
func (m *Model) ActivityNames() []string {
	names := make([]string, len(m.Activities))
	for i, a := range m.Activities {
		names[i] = a.Name
	}
	return names
}
