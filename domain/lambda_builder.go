package domain

import (
	"slices"
	"time"
)

// LambdaBuilder configures one function declaration owned by a Builder.
// It holds only the function's name; the declaration itself lives in the parent.
type LambdaBuilder struct {
	parent *Builder
	name   string
}

// Name returns the registered function name.
func (l *LambdaBuilder) Name() string {
	return l.name
}

func (l *LambdaBuilder) mutate(fn func(*FunctionDeclaration)) *LambdaBuilder {
	if l.parent.sealed.Has(l.name) {
		l.parent.errs = append(l.parent.errs, &SealedFunctionError{Name: l.name})
		return l
	}
	fn(l.parent.functions[l.name])
	return l
}

// SetRuntime overwrites the runtime identifier.
func (l *LambdaBuilder) SetRuntime(runtime string) *LambdaBuilder {
	return l.mutate(func(f *FunctionDeclaration) { f.Runtime = runtime })
}

// SetMemory overwrites the memory size in MB.
func (l *LambdaBuilder) SetMemory(mb int) *LambdaBuilder {
	return l.mutate(func(f *FunctionDeclaration) { f.MemoryMB = mb })
}

// SetTimeout overwrites the function timeout.
func (l *LambdaBuilder) SetTimeout(d time.Duration) *LambdaBuilder {
	return l.mutate(func(f *FunctionDeclaration) { f.Timeout = d })
}

// MergeEnvironment merges env into the function environment. Existing keys
// not present in env are kept.
func (l *LambdaBuilder) MergeEnvironment(env map[string]string) *LambdaBuilder {
	return l.mutate(func(f *FunctionDeclaration) {
		for k, v := range env {
			f.Environment[k] = v
		}
	})
}

// MarkAsEventProducer allows the function to publish to the domain's event bus.
func (l *LambdaBuilder) MarkAsEventProducer() *LambdaBuilder {
	return l.mutate(func(f *FunctionDeclaration) { f.ProducesEvents = true })
}

// AddEventSubscription subscribes the function to one source and detail-type.
// Repeated pairs are ignored.
func (l *LambdaBuilder) AddEventSubscription(source, detailType string) *LambdaBuilder {
	sub := EventSubscription{Source: source, DetailType: detailType}
	return l.mutate(func(f *FunctionDeclaration) {
		if !slices.Contains(f.Subscriptions, sub) {
			f.Subscriptions = append(f.Subscriptions, sub)
		}
	})
}

// ExposeRoute binds method and path directly to this function. Workflow steps
// cannot be exposed directly.
func (l *LambdaBuilder) ExposeRoute(path, method string) error {
	return l.parent.RegisterRoute(RouteDeclaration{
		Path:   path,
		Method: method,
		Target: l.name,
		Kind:   TargetFunction,
	})
}

// Done returns the parent builder.
func (l *LambdaBuilder) Done() *Builder {
	return l.parent
}
