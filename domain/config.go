package domain

import "time"

// Defaults applied to every function registered through AddLambda or AddStep.
const (
	DefaultRuntime   = "python3.12"
	DefaultMemoryMB  = 256
	DefaultTimeout   = 30 * time.Second
	DefaultNamespace = "martian-bank"
)

// NetworkRef identifies the isolation boundary functions are attached to.
type NetworkRef struct {
	VpcID            string
	SubnetIDs        []string
	SecurityGroupIDs []string
}

// EventBusRef identifies the event bus functions publish to and subscribe on.
type EventBusRef struct {
	Name string
	Arn  string
}

// DatabaseConfig carries the connection endpoint injected into every function.
type DatabaseConfig struct {
	Endpoint string
}

// CorsConfig is the CORS policy of a domain API.
// Empty lists mean "allow all".
type CorsConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// ApiConfig describes the API surface of a domain.
// A nil Cors allows all origins and all methods.
type ApiConfig struct {
	Name        string
	Description string
	Cors        *CorsConfig
}

// LambdaConfig locates the code of a compute function.
type LambdaConfig struct {
	EntryPoint     string
	SourceLocation string
}

// StepConfig locates the code of a workflow step. InputSelector is a JSONPath
// applied to the previous step's output before it is passed to this step.
type StepConfig struct {
	EntryPoint     string
	SourceLocation string
	InputSelector  string
}

// LayerConfig declares a shared library layer.
type LayerConfig struct {
	SourceLocation     string
	CompatibleRuntimes []string
	Description        string
}

// EventSubscription is one (source, detail-type) pair a function consumes.
type EventSubscription struct {
	Source     string
	DetailType string
}

// TargetKind says what a route is bound to.
type TargetKind string

const (
	TargetFunction TargetKind = "function"
	TargetWorkflow TargetKind = "workflow"
)

// RouteDeclaration binds an HTTP method and path to a function or the workflow.
type RouteDeclaration struct {
	Path   string
	Method string
	Target string
	Kind   TargetKind
}

func (r RouteDeclaration) key() string {
	return r.Method + " " + r.Path
}

// String renders the route as "METHOD /path -> kind:target".
func (r RouteDeclaration) String() string {
	return r.key() + " -> " + string(r.Kind) + ":" + r.Target
}
