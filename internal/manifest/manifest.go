// Package manifest loads a YAML deployment manifest and applies it to a stack
// through the domain builders.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest describes every domain deployed into one stack.
type Manifest struct {
	Namespace   string    `yaml:"namespace,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Network     *Network  `yaml:"network,omitempty"`
	EventBus    *EventBus `yaml:"eventBus,omitempty"`
	Database    *Database `yaml:"database,omitempty"`
	Domains     []Domain  `yaml:"domains"`

	// Path is the file the manifest was loaded from, if any.
	Path string `yaml:"-"`
}

// Network is the VPC placement shared by functions.
type Network struct {
	VpcID            string   `yaml:"vpcId"`
	SubnetIDs        []string `yaml:"subnetIds"`
	SecurityGroupIDs []string `yaml:"securityGroupIds"`
}

// EventBus names an existing bus by name or ARN.
type EventBus struct {
	Name string `yaml:"name,omitempty"`
	Arn  string `yaml:"arn,omitempty"`
}

// Database carries the connection endpoint.
type Database struct {
	Endpoint string `yaml:"endpoint"`
}

// Domain is one domain service. Network, EventBus and Database override the
// manifest-level values.
type Domain struct {
	Name      string     `yaml:"name"`
	ID        string     `yaml:"id,omitempty"`
	Network   *Network   `yaml:"network,omitempty"`
	EventBus  *EventBus  `yaml:"eventBus,omitempty"`
	Database  *Database  `yaml:"database,omitempty"`
	Api       *Api       `yaml:"api,omitempty"`
	Layers    []Layer    `yaml:"layers,omitempty"`
	Functions []Function `yaml:"functions,omitempty"`
	Workflow  *Workflow  `yaml:"workflow,omitempty"`

	Line int `yaml:"-"`
}

// Api is the API surface of a domain.
type Api struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Cors        *Cors  `yaml:"cors,omitempty"`
}

// Cors lists allowed origins, methods and headers. Empty lists allow all.
type Cors struct {
	AllowOrigins []string `yaml:"allowOrigins,omitempty"`
	AllowMethods []string `yaml:"allowMethods,omitempty"`
	AllowHeaders []string `yaml:"allowHeaders,omitempty"`
}

// Layer is a shared library layer.
type Layer struct {
	Source      string   `yaml:"source"`
	Runtimes    []string `yaml:"runtimes,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// Function is a standalone compute function.
type Function struct {
	Name           string            `yaml:"name"`
	Handler        string            `yaml:"handler"`
	Source         string            `yaml:"source,omitempty"`
	Runtime        string            `yaml:"runtime,omitempty"`
	Memory         int               `yaml:"memory,omitempty"`
	Timeout        Duration          `yaml:"timeout,omitempty"`
	Environment    map[string]string `yaml:"environment,omitempty"`
	ProducesEvents bool              `yaml:"producesEvents,omitempty"`
	Subscriptions  []Subscription    `yaml:"subscriptions,omitempty"`
	Routes         []Route           `yaml:"routes,omitempty"`

	Line int `yaml:"-"`
}

// Subscription is an event (source, detail-type) pair.
type Subscription struct {
	Source     string `yaml:"source"`
	DetailType string `yaml:"detailType"`
}

// Route is an HTTP method and path.
type Route struct {
	Method string `yaml:"method"`
	Path   string `yaml:"path"`

	Line int `yaml:"-"`
}

// Workflow is a sequential synchronous workflow.
type Workflow struct {
	ID     string  `yaml:"id"`
	Steps  []Step  `yaml:"steps"`
	Routes []Route `yaml:"routes,omitempty"`
}

// Step is one workflow step. Input is a JSONPath selector applied to the
// previous step's output.
type Step struct {
	Name           string            `yaml:"name"`
	Handler        string            `yaml:"handler"`
	Source         string            `yaml:"source,omitempty"`
	Input          string            `yaml:"input,omitempty"`
	Runtime        string            `yaml:"runtime,omitempty"`
	Memory         int               `yaml:"memory,omitempty"`
	Timeout        Duration          `yaml:"timeout,omitempty"`
	Environment    map[string]string `yaml:"environment,omitempty"`
	ProducesEvents bool              `yaml:"producesEvents,omitempty"`

	Line int `yaml:"-"`
}

// Duration is a time.Duration written as a Go duration string ("45s") or a
// number of seconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.ShortTag() == "!!int" {
		var seconds int
		if err := value.Decode(&seconds); err != nil {
			return err
		}
		d.Duration = time.Duration(seconds) * time.Second
		return nil
	}

	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, raw, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// IsZero lets omitempty drop unset durations.
func (d Duration) IsZero() bool {
	return d.Duration == 0
}

func (d *Domain) UnmarshalYAML(value *yaml.Node) error {
	type rawDomain Domain
	var raw rawDomain
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*d = Domain(raw)
	d.Line = value.Line
	return nil
}

func (f *Function) UnmarshalYAML(value *yaml.Node) error {
	type rawFunction Function
	var raw rawFunction
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*f = Function(raw)
	f.Line = value.Line
	return nil
}

func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	type rawStep Step
	var raw rawStep
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*s = Step(raw)
	s.Line = value.Line
	return nil
}

func (r *Route) UnmarshalYAML(value *yaml.Node) error {
	type rawRoute Route
	var raw rawRoute
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*r = Route(raw)
	r.Line = value.Line
	return nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse decodes a manifest and checks its structure. Unknown top-level keys
// are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Marshal renders the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks that every named entry has a name. Semantic checks are left
// to the domain builders.
func (m *Manifest) Validate() error {
	if len(m.Domains) == 0 {
		return fmt.Errorf("domains must contain at least one entry")
	}
	for i, d := range m.Domains {
		prefix := fmt.Sprintf("domains[%d]", i)
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("%s.name is required", prefix)
		}
		for j, fn := range d.Functions {
			if strings.TrimSpace(fn.Name) == "" {
				return fmt.Errorf("%s.functions[%d].name is required", prefix, j)
			}
		}
		if d.Workflow != nil {
			if strings.TrimSpace(d.Workflow.ID) == "" {
				return fmt.Errorf("%s.workflow.id is required", prefix)
			}
			for j, s := range d.Workflow.Steps {
				if strings.TrimSpace(s.Name) == "" {
					return fmt.Errorf("%s.workflow.steps[%d].name is required", prefix, j)
				}
			}
		}
	}
	return nil
}
