// Package domains runs the manifest-driven operations of wetwire-domains:
// synthesis, validation, listing and project scaffolding.
//
// DomainsDomain adapts them to the wetwire-core-go domain interface, so the
// same operations back the CLI and the MCP tools.
package domains

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	wetwire "github.com/lex00/wetwire-domains-go"
	"github.com/lex00/wetwire-domains-go/internal/manifest"
	"github.com/lex00/wetwire-domains-go/internal/template"
	"github.com/lex00/wetwire-domains-go/pattern"
)

// Synthesis is a manifest applied to a stack.
type Synthesis struct {
	Manifest *manifest.Manifest
	Stack    *pattern.Stack
	Builder  *template.Builder
}

// Synthesize loads the manifest at path and builds every domain into a new stack.
func Synthesize(ctx context.Context, path string) (*Synthesis, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}

	stack := pattern.NewStack(StackName(m))
	if err := m.Apply(ctx, stack); err != nil {
		return nil, err
	}

	return &Synthesis{
		Manifest: m,
		Stack:    stack,
		Builder:  template.NewBuilder(stack),
	}, nil
}

// Template renders the stack.
func (s *Synthesis) Template() (*wetwire.Template, error) {
	tmpl, err := s.Builder.Build()
	if err != nil {
		return nil, fmt.Errorf("building template: %w", err)
	}
	return tmpl, nil
}

// DomainNames returns the manifest's domains in declaration order.
func (s *Synthesis) DomainNames() []string {
	out := make([]string, 0, len(s.Manifest.Domains))
	for _, d := range s.Manifest.Domains {
		out = append(out, d.Name)
	}
	return out
}

// StackName is the manifest namespace, or the manifest file name.
func StackName(m *manifest.Manifest) string {
	if m.Namespace != "" {
		return m.Namespace
	}
	base := filepath.Base(m.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// EncodeTemplate renders tmpl as json or yaml.
func EncodeTemplate(tmpl *wetwire.Template, format string) ([]byte, error) {
	switch format {
	case "json":
		return template.ToJSON(tmpl)
	case "yaml":
		return template.ToYAML(tmpl)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// BuildManifest synthesizes the manifest at path into a template. Declaration
// errors are reported on the result.
func BuildManifest(ctx context.Context, path string) wetwire.BuildResult {
	syn, err := Synthesize(ctx, path)
	if err != nil {
		return wetwire.BuildResult{Success: false, Errors: []string{err.Error()}}
	}

	tmpl, err := syn.Template()
	if err != nil {
		return wetwire.BuildResult{Success: false, Errors: []string{err.Error()}}
	}

	return wetwire.BuildResult{
		Success:   true,
		Template:  *tmpl,
		Domains:   syn.DomainNames(),
		Resources: syn.Stack.LogicalIDs(),
	}
}
