// Package pattern materializes validated domain declarations into
// CloudFormation resources.
//
// A Stack is the container every domain of a deployment is built into. It
// implements domain.Scope, so a declaration is handed to it through
// domain.Builder.Build:
//
//	stack := pattern.NewStack("martian-bank")
//	out, err := accounts.Build(ctx, stack, "Accounts")
//
// Materialization is all-or-nothing per domain: either every resource of the
// domain is added to the stack or none is.
package pattern

import (
	"maps"
	"slices"

	wetwire "github.com/lex00/wetwire-domains-go"
	"github.com/lex00/wetwire-domains-go/domain"
)

// Stack collects the resources and outputs of one or more domains.
type Stack struct {
	name        string
	description string

	resources map[string]wetwire.Resource
	owners    map[string]string
	order     []string

	outputs map[string]wetwire.Output
	domains []*domain.Materialized
}

var _ domain.Scope = (*Stack)(nil)

// NewStack creates an empty stack.
func NewStack(name string) *Stack {
	return &Stack{
		name:      name,
		resources: make(map[string]wetwire.Resource),
		owners:    make(map[string]string),
		outputs:   make(map[string]wetwire.Output),
	}
}

// Name returns the stack name.
func (s *Stack) Name() string {
	return s.name
}

// SetDescription sets the template description.
func (s *Stack) SetDescription(description string) *Stack {
	s.description = description
	return s
}

// Description returns the template description.
func (s *Stack) Description() string {
	return s.description
}

// Add registers a resource under a logical ID that must be unique in the stack.
func (s *Stack) Add(logicalID string, r wetwire.Resource) error {
	return s.add(logicalID, r, "")
}

func (s *Stack) add(logicalID string, r wetwire.Resource, owner string) error {
	if _, exists := s.resources[logicalID]; exists {
		return &DuplicateResourceError{LogicalID: logicalID, Domain: s.owners[logicalID]}
	}
	s.resources[logicalID] = r
	s.owners[logicalID] = owner
	s.order = append(s.order, logicalID)
	return nil
}

// AddOutput registers a template output.
func (s *Stack) AddOutput(name string, out wetwire.Output) error {
	if _, exists := s.outputs[name]; exists {
		return &DuplicateOutputError{Name: name}
	}
	s.outputs[name] = out
	return nil
}

// Has reports whether a logical ID is taken.
func (s *Stack) Has(logicalID string) bool {
	_, ok := s.resources[logicalID]
	return ok
}

// Resource returns the resource registered under a logical ID.
func (s *Stack) Resource(logicalID string) (wetwire.Resource, bool) {
	r, ok := s.resources[logicalID]
	return r, ok
}

// LogicalIDs returns every logical ID in insertion order.
func (s *Stack) LogicalIDs() []string {
	return slices.Clone(s.order)
}

// Owner returns the name of the domain that created a resource, or "" for
// resources added directly.
func (s *Stack) Owner(logicalID string) string {
	return s.owners[logicalID]
}

// Outputs returns a copy of the template outputs.
func (s *Stack) Outputs() map[string]wetwire.Output {
	return maps.Clone(s.outputs)
}

// Domains returns the materialized domains in build order.
func (s *Stack) Domains() []*domain.Materialized {
	return slices.Clone(s.domains)
}

// Len returns the number of resources.
func (s *Stack) Len() int {
	return len(s.order)
}
