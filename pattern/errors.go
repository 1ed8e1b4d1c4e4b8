package pattern

import (
	"errors"
	"fmt"

	"github.com/lex00/wetwire-domains-go/domain"
)

// DuplicateResourceError is returned when a logical ID is already taken in the stack.
type DuplicateResourceError struct {
	LogicalID string
	// Domain owning the existing resource, if any.
	Domain string
}

func (e *DuplicateResourceError) Error() string {
	if e.Domain == "" {
		return fmt.Sprintf("logical ID %q is already used in the stack", e.LogicalID)
	}
	return fmt.Sprintf("logical ID %q is already used by domain %q", e.LogicalID, e.Domain)
}

func (e *DuplicateResourceError) Is(target error) bool { return target == domain.ErrConfiguration }

// DuplicateOutputError is returned when an output name is already taken.
type DuplicateOutputError struct {
	Name string
}

func (e *DuplicateOutputError) Error() string {
	return fmt.Sprintf("output %q is already defined", e.Name)
}

func (e *DuplicateOutputError) Is(target error) bool { return target == domain.ErrConfiguration }

// UnboundStepError is returned when a workflow step names a function that was
// not materialized.
type UnboundStepError struct {
	Workflow string
	Step     string
	Function string
}

func (e *UnboundStepError) Error() string {
	return fmt.Sprintf("workflow %q: step %q has no materialized function %q", e.Workflow, e.Step, e.Function)
}

func (e *UnboundStepError) Is(target error) bool { return target == domain.ErrConfiguration }

var errNilDeclaration = errors.New("nil declaration")
