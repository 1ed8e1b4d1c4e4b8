// Package lint provides lint rules for domain deployment manifests.
//
// The domain builders reject declarations that cannot be materialized. These
// rules catch what they accept but AWS will not, or what is likely a mistake.
//
// Rules:
//
//	DOM001: Functions and workflow steps need a handler
//	DOM002: Memory must be between 128 and 10240 MB
//	DOM003: Timeouts must fit the Lambda and API Gateway limits
//	DOM004: A domain should not subscribe to its own events
//	DOM005: Routes need a known HTTP method and an absolute path
//	DOM006: Domain logical ID prefixes must be unique
//	DOM007: Event producers need an event bus
//	DOM008: Subscriptions to namespace sources need a matching domain
package lint

import (
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/lex00/wetwire-domains-go/domain"
	"github.com/lex00/wetwire-domains-go/internal/manifest"
)

// Rule checks one property of a manifest.
type Rule interface {
	ID() string
	Description() string
	Check(m *manifest.Manifest) []Issue
}

// AllRules returns every manifest rule.
func AllRules() []Rule {
	return []Rule{
		MissingHandler{},
		MemoryOutOfRange{},
		TimeoutOutOfRange{},
		SelfSubscription{},
		InvalidRoute{},
		DuplicateDomain{},
		ProducerWithoutBus{},
		UnknownEventSource{},
	}
}

const (
	minMemoryMB = 128
	maxMemoryMB = 10240

	maxLambdaTimeout = 15 * time.Minute
	// API Gateway closes integrations after 29 seconds.
	maxIntegrationTimeout = 29 * time.Second
)

var httpMethods = sets.New("GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS", "ANY")

// function is the subset shared by standalone functions and workflow steps.
type function struct {
	domain   manifest.Domain
	name     string
	handler  string
	memory   int
	timeout  time.Duration
	producer bool
	routed   bool
	line     int
}

func functions(m *manifest.Manifest) []function {
	var out []function
	for _, d := range m.Domains {
		for _, fn := range d.Functions {
			out = append(out, function{
				domain:   d,
				name:     fn.Name,
				handler:  fn.Handler,
				memory:   fn.Memory,
				timeout:  fn.Timeout.Duration,
				producer: fn.ProducesEvents,
				routed:   len(fn.Routes) > 0,
				line:     fn.Line,
			})
		}
		if d.Workflow == nil {
			continue
		}
		for _, s := range d.Workflow.Steps {
			out = append(out, function{
				domain:   d,
				name:     s.Name,
				handler:  s.Handler,
				memory:   s.Memory,
				timeout:  s.Timeout.Duration,
				producer: s.ProducesEvents,
				// synchronous executions share the API integration timeout
				routed: len(d.Workflow.Routes) > 0,
				line:   s.Line,
			})
		}
	}
	return out
}

func namespace(m *manifest.Manifest) string {
	if m.Namespace != "" {
		return m.Namespace
	}
	return domain.DefaultNamespace
}

func issue(m *manifest.Manifest, r Rule, line int, severity Severity, msg string) Issue {
	return Issue{
		Rule:     r.ID(),
		Message:  msg,
		File:     m.Path,
		Line:     line,
		Severity: severity,
	}
}

// MissingHandler detects functions and steps without an entry point.
type MissingHandler struct{}

func (r MissingHandler) ID() string { return "DOM001" }
func (r MissingHandler) Description() string {
	return "Functions and workflow steps need a handler"
}

func (r MissingHandler) Check(m *manifest.Manifest) []Issue {
	var issues []Issue
	for _, fn := range functions(m) {
		if strings.TrimSpace(fn.handler) == "" {
			issues = append(issues, issue(m, r, fn.line, SeverityError,
				fmt.Sprintf("%s/%s has no handler", fn.domain.Name, fn.name)))
		}
	}
	return issues
}

// MemoryOutOfRange detects memory sizes Lambda does not accept.
type MemoryOutOfRange struct{}

func (r MemoryOutOfRange) ID() string { return "DOM002" }
func (r MemoryOutOfRange) Description() string {
	return "Memory must be between 128 and 10240 MB"
}

func (r MemoryOutOfRange) Check(m *manifest.Manifest) []Issue {
	var issues []Issue
	for _, fn := range functions(m) {
		if fn.memory == 0 {
			continue
		}
		if fn.memory < minMemoryMB || fn.memory > maxMemoryMB {
			issues = append(issues, issue(m, r, fn.line, SeverityError,
				fmt.Sprintf("%s/%s memory %d MB is outside %d-%d MB", fn.domain.Name, fn.name, fn.memory, minMemoryMB, maxMemoryMB)))
		}
	}
	return issues
}

// TimeoutOutOfRange detects timeouts above the Lambda maximum, and routed
// functions that would outlive the API integration.
type TimeoutOutOfRange struct{}

func (r TimeoutOutOfRange) ID() string { return "DOM003" }
func (r TimeoutOutOfRange) Description() string {
	return "Timeouts must fit the Lambda and API Gateway limits"
}

func (r TimeoutOutOfRange) Check(m *manifest.Manifest) []Issue {
	var issues []Issue
	for _, fn := range functions(m) {
		switch {
		case fn.timeout > maxLambdaTimeout:
			issues = append(issues, issue(m, r, fn.line, SeverityError,
				fmt.Sprintf("%s/%s timeout %s exceeds %s", fn.domain.Name, fn.name, fn.timeout, maxLambdaTimeout)))
		case fn.routed && fn.timeout > maxIntegrationTimeout:
			issues = append(issues, issue(m, r, fn.line, SeverityWarning,
				fmt.Sprintf("%s/%s timeout %s exceeds the %s API integration timeout", fn.domain.Name, fn.name, fn.timeout, maxIntegrationTimeout)))
		}
	}
	return issues
}

// SelfSubscription detects a domain consuming the events it publishes.
type SelfSubscription struct{}

func (r SelfSubscription) ID() string { return "DOM004" }
func (r SelfSubscription) Description() string {
	return "A domain should not subscribe to its own events"
}

func (r SelfSubscription) Check(m *manifest.Manifest) []Issue {
	var issues []Issue
	ns := namespace(m)
	for _, d := range m.Domains {
		own := ns + "." + d.Name
		for _, fn := range d.Functions {
			for _, s := range fn.Subscriptions {
				if s.Source == own {
					issues = append(issues, issue(m, r, fn.Line, SeverityWarning,
						fmt.Sprintf("%s/%s subscribes to its own source %s", d.Name, fn.Name, own)))
				}
			}
		}
	}
	return issues
}

// InvalidRoute detects routes API Gateway would reject.
type InvalidRoute struct{}

func (r InvalidRoute) ID() string { return "DOM005" }
func (r InvalidRoute) Description() string {
	return "Routes need a known HTTP method and an absolute path"
}

func (r InvalidRoute) Check(m *manifest.Manifest) []Issue {
	var issues []Issue
	check := func(d manifest.Domain, target string, route manifest.Route) {
		if !httpMethods.Has(strings.ToUpper(route.Method)) {
			issues = append(issues, issue(m, r, route.Line, SeverityError,
				fmt.Sprintf("%s/%s route has unknown method %q", d.Name, target, route.Method)))
		}
		if !strings.HasPrefix(route.Path, "/") {
			issues = append(issues, issue(m, r, route.Line, SeverityError,
				fmt.Sprintf("%s/%s route path %q must start with /", d.Name, target, route.Path)))
		}
	}

	for _, d := range m.Domains {
		for _, fn := range d.Functions {
			for _, route := range fn.Routes {
				check(d, fn.Name, route)
			}
		}
		if d.Workflow != nil {
			for _, route := range d.Workflow.Routes {
				check(d, d.Workflow.ID, route)
			}
		}
	}
	return issues
}

// DuplicateDomain detects domains whose resources would share logical IDs.
type DuplicateDomain struct{}

func (r DuplicateDomain) ID() string { return "DOM006" }
func (r DuplicateDomain) Description() string {
	return "Domain logical ID prefixes must be unique"
}

func (r DuplicateDomain) Check(m *manifest.Manifest) []Issue {
	var issues []Issue
	seen := sets.New[string]()
	for _, d := range m.Domains {
		prefix := d.LogicalPrefix()
		if seen.Has(prefix) {
			issues = append(issues, issue(m, r, d.Line, SeverityError,
				fmt.Sprintf("domain %s reuses logical ID prefix %s", d.Name, prefix)))
			continue
		}
		seen.Insert(prefix)
	}
	return issues
}

// ProducerWithoutBus detects producers in domains with no event bus. The
// publish policy is skipped for them.
type ProducerWithoutBus struct{}

func (r ProducerWithoutBus) ID() string { return "DOM007" }
func (r ProducerWithoutBus) Description() string {
	return "Event producers need an event bus"
}

func (r ProducerWithoutBus) Check(m *manifest.Manifest) []Issue {
	var issues []Issue
	for _, fn := range functions(m) {
		if fn.producer && fn.domain.EventBus == nil && m.EventBus == nil {
			issues = append(issues, issue(m, r, fn.line, SeverityWarning,
				fmt.Sprintf("%s/%s produces events but %s has no event bus", fn.domain.Name, fn.name, fn.domain.Name)))
		}
	}
	return issues
}

// UnknownEventSource detects subscriptions to a source in the manifest's
// namespace that no declared domain publishes.
type UnknownEventSource struct{}

func (r UnknownEventSource) ID() string { return "DOM008" }
func (r UnknownEventSource) Description() string {
	return "Subscriptions to namespace sources need a matching domain"
}

func (r UnknownEventSource) Check(m *manifest.Manifest) []Issue {
	ns := namespace(m)
	sources := sets.New[string]()
	for _, d := range m.Domains {
		sources.Insert(ns + "." + d.Name)
	}

	var issues []Issue
	for _, d := range m.Domains {
		for _, fn := range d.Functions {
			for _, s := range fn.Subscriptions {
				if strings.HasPrefix(s.Source, ns+".") && !sources.Has(s.Source) {
					issues = append(issues, issue(m, r, fn.Line, SeverityInfo,
						fmt.Sprintf("%s/%s subscribes to %s but no domain publishes it", d.Name, fn.Name, s.Source)))
				}
			}
		}
	}
	return issues
}
