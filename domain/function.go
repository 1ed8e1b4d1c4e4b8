package domain

import (
	"maps"
	"slices"
	"time"
)

// stepFunctionSuffix names the internal function registered for a workflow step.
const stepFunctionSuffix = "StepFunction"

// OriginKind distinguishes standalone functions from workflow steps.
type OriginKind int

const (
	OriginStandalone OriginKind = iota
	OriginWorkflowStep
)

// Origin records where a function declaration came from. Workflow steps carry
// the workflow and step they belong to.
type Origin struct {
	Kind       OriginKind
	WorkflowID string
	StepName   string
}

// IsWorkflowStep reports whether the function was registered by a workflow.
func (o Origin) IsWorkflowStep() bool {
	return o.Kind == OriginWorkflowStep
}

// FunctionDeclaration is the declared configuration of one compute function.
type FunctionDeclaration struct {
	Name           string
	EntryPoint     string
	SourceLocation string
	Runtime        string
	MemoryMB       int
	Timeout        time.Duration
	Environment    map[string]string
	ProducesEvents bool
	Subscriptions  []EventSubscription
	Origin         Origin
}

func newFunctionDeclaration(name string, cfg LambdaConfig, origin Origin) *FunctionDeclaration {
	return &FunctionDeclaration{
		Name:           name,
		EntryPoint:     cfg.EntryPoint,
		SourceLocation: cfg.SourceLocation,
		Runtime:        DefaultRuntime,
		MemoryMB:       DefaultMemoryMB,
		Timeout:        DefaultTimeout,
		Environment:    make(map[string]string),
		Origin:         origin,
	}
}

func (f *FunctionDeclaration) clone() FunctionDeclaration {
	c := *f
	c.Environment = maps.Clone(f.Environment)
	c.Subscriptions = slices.Clone(f.Subscriptions)
	return c
}

// StepFunctionName returns the internal function name for a workflow step.
func StepFunctionName(step string) string {
	return step + stepFunctionSuffix
}
