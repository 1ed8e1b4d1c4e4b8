package manifest

import (
	"context"
	"fmt"

	"github.com/lex00/wetwire-domains-go/domain"
	"github.com/lex00/wetwire-domains-go/internal/ctxlog"
	"github.com/lex00/wetwire-domains-go/pattern"
)

// Apply builds every domain of the manifest into stack, in manifest order.
// It stops at the first domain that fails.
func (m *Manifest) Apply(ctx context.Context, stack *pattern.Stack) error {
	log := ctxlog.FromContext(ctx)

	if m.Description != "" && stack.Description() == "" {
		stack.SetDescription(m.Description)
	}

	for _, d := range m.Domains {
		b, err := m.Builder(d)
		if err != nil {
			return fmt.Errorf("domain %s: %w", d.Name, err)
		}
		if _, err := b.Build(ctx, stack, d.LogicalPrefix()); err != nil {
			return fmt.Errorf("domain %s: %w", d.Name, err)
		}
		log.Debug("applied domain", "domain", d.Name, "id", d.LogicalPrefix())
	}
	return nil
}

// LogicalPrefix is the prefix of every logical ID created for the domain.
func (d Domain) LogicalPrefix() string {
	if d.ID != "" {
		return d.ID
	}
	return pattern.LogicalID(d.Name)
}

// Builder translates one domain entry into a configured domain builder.
func (m *Manifest) Builder(d Domain) (*domain.Builder, error) {
	b := domain.New(d.Name)
	if m.Namespace != "" {
		b.WithNamespace(m.Namespace)
	}

	if n := firstNonNil(d.Network, m.Network); n != nil {
		b.WithNetwork(domain.NetworkRef{
			VpcID:            n.VpcID,
			SubnetIDs:        n.SubnetIDs,
			SecurityGroupIDs: n.SecurityGroupIDs,
		})
	}
	if bus := firstNonNil(d.EventBus, m.EventBus); bus != nil {
		b.WithEventBus(domain.EventBusRef{Name: bus.Name, Arn: bus.Arn})
	}
	if db := firstNonNil(d.Database, m.Database); db != nil {
		b.WithDatabase(domain.DatabaseConfig{Endpoint: db.Endpoint})
	}
	if d.Api != nil {
		cfg := domain.ApiConfig{Name: d.Api.Name, Description: d.Api.Description}
		if d.Api.Cors != nil {
			cfg.Cors = &domain.CorsConfig{
				AllowOrigins: d.Api.Cors.AllowOrigins,
				AllowMethods: d.Api.Cors.AllowMethods,
				AllowHeaders: d.Api.Cors.AllowHeaders,
			}
		}
		b.WithApi(cfg)
	}

	for _, l := range d.Layers {
		b.AddLibraryLayer(domain.LayerConfig{
			SourceLocation:     l.Source,
			CompatibleRuntimes: l.Runtimes,
			Description:        l.Description,
		})
	}

	for _, fn := range d.Functions {
		lb, err := b.AddLambda(fn.Name, domain.LambdaConfig{
			EntryPoint:     fn.Handler,
			SourceLocation: fn.Source,
		})
		if err != nil {
			return nil, err
		}
		configure(lb, fn.Runtime, fn.Memory, fn.Timeout, fn.Environment, fn.ProducesEvents)
		for _, s := range fn.Subscriptions {
			lb.AddEventSubscription(s.Source, s.DetailType)
		}
		for _, r := range fn.Routes {
			if err := lb.ExposeRoute(r.Path, r.Method); err != nil {
				return nil, err
			}
		}
	}

	if d.Workflow != nil {
		if err := applyWorkflow(b, d.Workflow); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func applyWorkflow(b *domain.Builder, w *Workflow) error {
	wf, err := b.BeginWorkflow(w.ID)
	if err != nil {
		return err
	}
	for _, s := range w.Steps {
		err := wf.AddStep(s.Name, domain.StepConfig{
			EntryPoint:     s.Handler,
			SourceLocation: s.Source,
			InputSelector:  s.Input,
		}, func(lb *domain.LambdaBuilder) {
			configure(lb, s.Runtime, s.Memory, s.Timeout, s.Environment, s.ProducesEvents)
		})
		if err != nil {
			return err
		}
	}
	for _, r := range w.Routes {
		if err := wf.ExposeRoute(r.Path, r.Method); err != nil {
			return err
		}
	}
	wf.Done()
	return nil
}

// configure applies the optional overrides. Zero values keep the defaults.
func configure(lb *domain.LambdaBuilder, runtime string, memory int, timeout Duration, env map[string]string, producer bool) {
	if runtime != "" {
		lb.SetRuntime(runtime)
	}
	if memory > 0 {
		lb.SetMemory(memory)
	}
	if timeout.Duration > 0 {
		lb.SetTimeout(timeout.Duration)
	}
	if len(env) > 0 {
		lb.MergeEnvironment(env)
	}
	if producer {
		lb.MarkAsEventProducer()
	}
}

func firstNonNil[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
