// Package domain provides the fluent builder used to declare a domain service:
// a bundle of compute functions, an API surface, event wiring and an optional
// synchronous workflow.
//
// A Builder aggregates the declaration and enforces every cross-declaration
// invariant. AddLambda and BeginWorkflow hand out child builders that write
// back into the parent and return to it with Done. Build validates the whole
// declaration before anything is materialized, then hands a frozen snapshot
// to a Scope.
//
// Builders are not safe for concurrent use.
package domain

import (
	"context"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/lex00/wetwire-domains-go/internal/ctxlog"
)

// Scope materializes validated declarations into concrete resources.
type Scope interface {
	Materialize(ctx context.Context, id string, decl *Declaration) (*Materialized, error)
}

// Builder aggregates the declaration of a single domain.
type Builder struct {
	name      string
	namespace string

	network  *NetworkRef
	eventBus *EventBusRef
	api      *ApiConfig
	database *DatabaseConfig

	functions map[string]*FunctionDeclaration
	order     []string
	sealed    sets.Set[string]

	layers    []LayerConfig
	workflow  *WorkflowBuilder
	routes    []RouteDeclaration
	routeKeys sets.Set[string]

	// errs holds errors raised by chained calls that cannot return one.
	errs []error
}

// New creates a builder for the named domain. The name is fixed for the
// lifetime of the builder.
func New(name string) *Builder {
	return &Builder{
		name:      name,
		namespace: DefaultNamespace,
		functions: make(map[string]*FunctionDeclaration),
		sealed:    sets.New[string](),
		routeKeys: sets.New[string](),
	}
}

// Name returns the domain name.
func (b *Builder) Name() string {
	return b.name
}

// WithNetwork sets the required network boundary.
func (b *Builder) WithNetwork(ref NetworkRef) *Builder {
	b.network = &ref
	return b
}

// WithEventBus enables event production and consumption wiring.
func (b *Builder) WithEventBus(ref EventBusRef) *Builder {
	b.eventBus = &ref
	return b
}

// WithApi sets the required API configuration.
func (b *Builder) WithApi(cfg ApiConfig) *Builder {
	b.api = &cfg
	return b
}

// WithDatabase enables database endpoint injection.
func (b *Builder) WithDatabase(cfg DatabaseConfig) *Builder {
	b.database = &cfg
	return b
}

// WithNamespace overrides the prefix of the domain's event source tag.
func (b *Builder) WithNamespace(namespace string) *Builder {
	b.namespace = namespace
	return b
}

// AddLambda registers a compute function with default runtime, memory and
// timeout and returns the builder that configures it.
func (b *Builder) AddLambda(name string, cfg LambdaConfig) (*LambdaBuilder, error) {
	return b.addFunction(name, cfg, Origin{Kind: OriginStandalone})
}

func (b *Builder) addFunction(name string, cfg LambdaConfig, origin Origin) (*LambdaBuilder, error) {
	if _, exists := b.functions[name]; exists {
		return nil, &DuplicateFunctionError{Domain: b.name, Name: name}
	}
	b.functions[name] = newFunctionDeclaration(name, cfg, origin)
	b.order = append(b.order, name)
	return &LambdaBuilder{parent: b, name: name}, nil
}

// Lambda returns the builder of an already registered function.
func (b *Builder) Lambda(name string) (*LambdaBuilder, bool) {
	if _, ok := b.functions[name]; !ok {
		return nil, false
	}
	return &LambdaBuilder{parent: b, name: name}, true
}

// Function returns a copy of a registered function declaration.
func (b *Builder) Function(name string) (FunctionDeclaration, bool) {
	fn, ok := b.functions[name]
	if !ok {
		return FunctionDeclaration{}, false
	}
	return fn.clone(), true
}

// AddLibraryLayer appends a shared layer. Layers keep declaration order.
func (b *Builder) AddLibraryLayer(cfg LayerConfig) *Builder {
	b.layers = append(b.layers, cfg)
	return b
}

// BeginWorkflow creates the domain's workflow. A domain has at most one.
func (b *Builder) BeginWorkflow(id string) (*WorkflowBuilder, error) {
	if b.workflow != nil {
		return nil, &DuplicateWorkflowError{Domain: b.name, Existing: b.workflow.id}
	}
	b.workflow = &WorkflowBuilder{parent: b, id: id}
	return b.workflow, nil
}

// Workflow returns the domain's workflow builder, or nil.
func (b *Builder) Workflow() *WorkflowBuilder {
	return b.workflow
}

// RegisterRoute adds a route. Function routes must name a registered
// standalone function; workflow routes are checked by Build.
func (b *Builder) RegisterRoute(route RouteDeclaration) error {
	route.Method = strings.ToUpper(route.Method)

	switch route.Kind {
	case TargetFunction:
		fn, ok := b.functions[route.Target]
		if !ok {
			return &UnknownTargetError{Domain: b.name, Route: route}
		}
		if fn.Origin.IsWorkflowStep() {
			return &WorkflowStepDirectExposureError{
				Function: fn.Name,
				Workflow: fn.Origin.WorkflowID,
				Step:     fn.Origin.StepName,
			}
		}
	case TargetWorkflow:
	default:
		return &UnknownTargetError{Domain: b.name, Route: route}
	}

	if b.routeKeys.Has(route.key()) {
		return &DuplicateRouteError{Domain: b.name, Route: route}
	}
	b.routeKeys.Insert(route.key())
	b.routes = append(b.routes, route)
	return nil
}

// Routes returns the registered routes in registration order.
func (b *Builder) Routes() []RouteDeclaration {
	out := make([]RouteDeclaration, len(b.routes))
	copy(out, b.routes)
	return out
}

// Build validates the declaration and materializes it into scope under id.
// Nothing is materialized when validation fails.
func (b *Builder) Build(ctx context.Context, scope Scope, id string) (*Materialized, error) {
	log := ctxlog.FromContext(ctx).With("domain", b.name)

	if err := b.Validate(); err != nil {
		log.Debug("declaration rejected", "error", err)
		return nil, err
	}

	decl, err := b.Declaration()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug("materializing domain",
		"id", id,
		"functions", len(decl.Functions),
		"routes", len(decl.Routes),
		"layers", len(decl.Layers),
	)
	return scope.Materialize(ctx, id, decl)
}
