package domain

// FunctionHandle is a materialized compute function.
type FunctionHandle struct {
	Name      string
	LogicalID string
	// Arn is an intrinsic resolving to the function ARN.
	Arn any
}

// WorkflowHandle is a materialized workflow execution graph.
type WorkflowHandle struct {
	ID        string
	LogicalID string
	Arn       any
	Steps     []WorkflowStep
}

// LayerHandle is a materialized shared layer.
type LayerHandle struct {
	LogicalID string
	Config    LayerConfig
}

// BoundRoute is a route bound to the logical ID of its target.
type BoundRoute struct {
	Route           RouteDeclaration
	TargetLogicalID string
}

// EventRule is one routing rule created for a function subscription.
type EventRule struct {
	LogicalID    string
	Function     string
	Subscription EventSubscription
}

// Materialized is the resource bundle produced for one domain.
type Materialized struct {
	Domain       string
	ApiLogicalID string
	// ApiURL is an intrinsic resolving to the API base address.
	ApiURL    any
	Functions map[string]FunctionHandle
	Workflow  *WorkflowHandle
	Layers    []LayerHandle
	Routes    []BoundRoute
	Rules     []EventRule
}
