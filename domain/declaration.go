package domain

import (
	"slices"
)

// Declaration is the frozen snapshot of a validated domain handed to a Scope.
// It shares no state with the Builder it came from.
type Declaration struct {
	Name      string
	Namespace string
	Network   NetworkRef
	EventBus  *EventBusRef
	Api       ApiConfig
	Database  *DatabaseConfig
	// Functions are in registration order.
	Functions []FunctionDeclaration
	// Layers are in declaration order.
	Layers   []LayerConfig
	Workflow *WorkflowGraph
	Routes   []RouteDeclaration
}

// Function looks up a function declaration by name.
func (d *Declaration) Function(name string) (FunctionDeclaration, bool) {
	for _, fn := range d.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return FunctionDeclaration{}, false
}

// EventSource returns the domain-scoped source tag, "<namespace>.<domain>".
func (d *Declaration) EventSource() string {
	return d.Namespace + "." + d.Name
}

// Declaration returns a deep copy of the current declaration. Call Validate
// first. The workflow builder's state is left untouched.
func (b *Builder) Declaration() (*Declaration, error) {
	decl := &Declaration{
		Name:      b.name,
		Namespace: b.namespace,
		Layers:    slices.Clone(b.layers),
		Routes:    slices.Clone(b.routes),
	}
	if b.network != nil {
		decl.Network = NetworkRef{
			VpcID:            b.network.VpcID,
			SubnetIDs:        slices.Clone(b.network.SubnetIDs),
			SecurityGroupIDs: slices.Clone(b.network.SecurityGroupIDs),
		}
	}
	if b.eventBus != nil {
		bus := *b.eventBus
		decl.EventBus = &bus
	}
	if b.api != nil {
		decl.Api = *b.api
		if b.api.Cors != nil {
			decl.Api.Cors = &CorsConfig{
				AllowOrigins: slices.Clone(b.api.Cors.AllowOrigins),
				AllowMethods: slices.Clone(b.api.Cors.AllowMethods),
				AllowHeaders: slices.Clone(b.api.Cors.AllowHeaders),
			}
		}
	}
	if b.database != nil {
		db := *b.database
		decl.Database = &db
	}
	for i, l := range decl.Layers {
		decl.Layers[i].CompatibleRuntimes = slices.Clone(l.CompatibleRuntimes)
	}

	decl.Functions = make([]FunctionDeclaration, 0, len(b.order))
	for _, name := range b.order {
		decl.Functions = append(decl.Functions, b.functions[name].clone())
	}

	if b.workflow != nil {
		if !b.workflow.HasSteps() {
			return nil, &EmptyWorkflowError{Workflow: b.workflow.id}
		}
		decl.Workflow = b.workflow.graph()
	}
	return decl, nil
}
