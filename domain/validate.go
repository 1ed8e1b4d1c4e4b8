package domain

import (
	"slices"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Validate runs every Build-time check in a fixed order and returns the first
// failure.
func (b *Builder) Validate() error {
	if b.network == nil {
		return &MissingRequiredConfigurationError{Domain: b.name, Field: FieldNetwork}
	}
	if b.api == nil {
		return &MissingRequiredConfigurationError{Domain: b.name, Field: FieldAPI}
	}
	if len(b.functions) == 0 {
		return &MissingRequiredConfigurationError{Domain: b.name, Field: FieldFunctions}
	}

	routed := sets.New[string]()
	var workflowRoutes []RouteDeclaration
	for _, r := range b.routes {
		switch r.Kind {
		case TargetFunction:
			routed.Insert(r.Target)
		case TargetWorkflow:
			workflowRoutes = append(workflowRoutes, r)
		}
	}

	for _, name := range b.order {
		fn := b.functions[name]
		if fn.Origin.IsWorkflowStep() {
			continue
		}
		if len(fn.Subscriptions) == 0 && !routed.Has(name) {
			return &OrphanedFunctionError{Domain: b.name, Name: name}
		}
	}

	if b.workflow != nil {
		if !b.workflow.HasSteps() {
			return &EmptyWorkflowError{Workflow: b.workflow.id}
		}
		if !slices.ContainsFunc(workflowRoutes, func(r RouteDeclaration) bool { return r.Target == b.workflow.id }) {
			return &UnreachableWorkflowError{Workflow: b.workflow.id}
		}
	}

	for _, r := range workflowRoutes {
		if b.workflow == nil || r.Target != b.workflow.id {
			return &UnknownTargetError{Domain: b.name, Route: r}
		}
	}

	if len(b.errs) > 0 {
		return b.errs[0]
	}
	return nil
}
