package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every declaration error returned by this package:
//
//	if errors.Is(err, domain.ErrConfiguration) { ... }
var ErrConfiguration = errors.New("domain configuration error")

// configurationError is embedded by every typed error so errors.Is matches ErrConfiguration.
type configurationError struct{}

func (configurationError) Is(target error) bool { return target == ErrConfiguration }

// ConfigField names a required part of a domain declaration.
type ConfigField string

const (
	FieldNetwork   ConfigField = "network"
	FieldAPI       ConfigField = "api"
	FieldFunctions ConfigField = "functions"
)

// DuplicateFunctionError is returned when a function name is registered twice.
type DuplicateFunctionError struct {
	configurationError
	Domain string
	Name   string
}

func (e *DuplicateFunctionError) Error() string {
	return fmt.Sprintf("domain %q: function %q is already registered", e.Domain, e.Name)
}

// DuplicateStepError is returned when a workflow step name is added twice.
type DuplicateStepError struct {
	configurationError
	Workflow string
	Step     string
}

func (e *DuplicateStepError) Error() string {
	return fmt.Sprintf("workflow %q: step %q already exists", e.Workflow, e.Step)
}

// UnknownTargetError is returned when a route names a target that is not declared.
type UnknownTargetError struct {
	configurationError
	Domain string
	Route  RouteDeclaration
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("domain %q: route %s targets unknown %s %q", e.Domain, e.Route.key(), e.Route.Kind, e.Route.Target)
}

// WorkflowStepDirectExposureError is returned when a workflow step function is
// exposed as a route of its own.
type WorkflowStepDirectExposureError struct {
	configurationError
	Function string
	Workflow string
	Step     string
}

func (e *WorkflowStepDirectExposureError) Error() string {
	return fmt.Sprintf("function %q is step %q of workflow %q and can only be exposed through the workflow", e.Function, e.Step, e.Workflow)
}

// MissingRequiredConfigurationError is returned by Build when a required field is unset.
type MissingRequiredConfigurationError struct {
	configurationError
	Domain string
	Field  ConfigField
}

func (e *MissingRequiredConfigurationError) Error() string {
	if e.Field == FieldFunctions {
		return fmt.Sprintf("domain %q: at least one function is required", e.Domain)
	}
	return fmt.Sprintf("domain %q: %s configuration is required", e.Domain, e.Field)
}

// OrphanedFunctionError is returned when a function has neither a route nor an event subscription.
type OrphanedFunctionError struct {
	configurationError
	Domain string
	Name   string
}

func (e *OrphanedFunctionError) Error() string {
	return fmt.Sprintf("domain %q: function %q has neither a route nor an event subscription", e.Domain, e.Name)
}

// EmptyWorkflowError is returned when a workflow has no steps.
type EmptyWorkflowError struct {
	configurationError
	Workflow string
}

func (e *EmptyWorkflowError) Error() string {
	return fmt.Sprintf("workflow %q has no steps", e.Workflow)
}

// UnreachableWorkflowError is returned when no route targets the workflow.
type UnreachableWorkflowError struct {
	configurationError
	Workflow string
}

func (e *UnreachableWorkflowError) Error() string {
	return fmt.Sprintf("workflow %q is not exposed by any route", e.Workflow)
}

// UnboundRouteError is returned during materialization when a route cannot be
// bound to a created function or workflow.
type UnboundRouteError struct {
	configurationError
	Domain string
	Route  RouteDeclaration
}

func (e *UnboundRouteError) Error() string {
	return fmt.Sprintf("domain %q: route %s has no materialized %s %q", e.Domain, e.Route.key(), e.Route.Kind, e.Route.Target)
}

// AlreadyBuiltError is returned when a built workflow is built or extended again.
type AlreadyBuiltError struct {
	configurationError
	Workflow string
}

func (e *AlreadyBuiltError) Error() string {
	return fmt.Sprintf("workflow %q has already been built", e.Workflow)
}

// DuplicateWorkflowError is returned when a second workflow is begun on a domain.
type DuplicateWorkflowError struct {
	configurationError
	Domain   string
	Existing string
}

func (e *DuplicateWorkflowError) Error() string {
	return fmt.Sprintf("domain %q already declares workflow %q", e.Domain, e.Existing)
}

// DuplicateRouteError is returned when the same method and path are registered twice.
type DuplicateRouteError struct {
	configurationError
	Domain string
	Route  RouteDeclaration
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("domain %q: route %s is already registered", e.Domain, e.Route.key())
}

// SealedFunctionError is returned by Build when a function was modified after
// its workflow was finalized.
type SealedFunctionError struct {
	configurationError
	Name string
}

func (e *SealedFunctionError) Error() string {
	return fmt.Sprintf("function %q was modified after its workflow was finalized", e.Name)
}

// SealedWorkflowError is returned when a step is added after the workflow was
// finalized with Done.
type SealedWorkflowError struct {
	configurationError
	Workflow string
	Step     string
}

func (e *SealedWorkflowError) Error() string {
	return fmt.Sprintf("workflow %q is finalized; cannot add step %q", e.Workflow, e.Step)
}
