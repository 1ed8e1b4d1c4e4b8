package domains

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	wetwire "github.com/lex00/wetwire-domains-go"
	"github.com/lex00/wetwire-domains-go/internal/graph"
	"github.com/lex00/wetwire-domains-go/internal/lint"
	"github.com/lex00/wetwire-domains-go/internal/manifest"
	"github.com/lex00/wetwire-domains-go/internal/schema"
	"github.com/lex00/wetwire-domains-go/internal/validation"
)

// ManifestFile is the manifest written by InitProject.
const ManifestFile = "domains.yaml"

// validProjectName matches names usable as a directory and event namespace.
var validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateManifest synthesizes the manifest and checks the template against
// the resource schemas and cfn-lint. Declaration errors are reported as a
// failed result. Only infrastructure failures are returned as errors.
func ValidateManifest(ctx context.Context, path string) (wetwire.ValidateResult, error) {
	syn, err := Synthesize(ctx, path)
	if err != nil {
		return wetwire.ValidateResult{Success: false, Errors: []string{err.Error()}}, nil
	}

	tmpl, err := syn.Template()
	if err != nil {
		return wetwire.ValidateResult{Success: false, Errors: []string{err.Error()}}, nil
	}

	result := wetwire.ValidateResult{Resources: syn.Stack.Len()}

	schemaResult := schema.ValidateTemplate(tmpl, schema.Options{})
	for _, e := range schemaResult.Errors {
		result.Errors = append(result.Errors, e.Error())
	}
	for _, w := range schemaResult.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	lintResult, err := validation.ValidateTemplate(tmpl)
	if err != nil {
		return wetwire.ValidateResult{}, fmt.Errorf("validation failed: %w", err)
	}
	result.Errors = append(result.Errors, lintResult.Errors...)
	result.Warnings = append(result.Warnings, lintResult.Warnings...)

	result.Success = schemaResult.Valid && lintResult.Passed
	return result, nil
}

// LintManifest runs the manifest rules over path.
func LintManifest(path string, opts lint.Options) (wetwire.LintResult, error) {
	lintResult, err := lint.LintFile(path, opts)
	if err != nil {
		return wetwire.LintResult{}, fmt.Errorf("lint failed: %w", err)
	}

	issues := make([]wetwire.LintIssue, 0, len(lintResult.Issues))
	for _, issue := range lintResult.Issues {
		issues = append(issues, wetwire.LintIssue{
			Severity: issue.Severity.String(),
			Message:  issue.Message,
			Rule:     issue.Rule,
			File:     issue.File,
			Line:     issue.Line,
			Column:   issue.Column,
		})
	}

	return wetwire.LintResult{
		Success: len(issues) == 0,
		Issues:  issues,
	}, nil
}

// GraphManifest writes the dependency graph of the synthesized stack to w.
// An empty format means dot.
func GraphManifest(ctx context.Context, path, format string, cluster bool, w io.Writer) error {
	var graphFormat graph.Format
	switch format {
	case "dot", "":
		graphFormat = graph.FormatDOT
	case "mermaid":
		graphFormat = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", format)
	}

	syn, err := Synthesize(ctx, path)
	if err != nil {
		return err
	}

	nodes, err := syn.Builder.Nodes()
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("no resources found")
	}

	gen := &graph.Generator{
		Format:          graphFormat,
		ClusterByDomain: cluster,
	}
	return gen.Generate(nodes, w)
}

// ListResources returns every synthesized resource sorted by logical ID.
func ListResources(ctx context.Context, path string) (wetwire.ListResult, error) {
	syn, err := Synthesize(ctx, path)
	if err != nil {
		return wetwire.ListResult{}, err
	}

	nodes, err := syn.Builder.Nodes()
	if err != nil {
		return wetwire.ListResult{}, err
	}

	result := wetwire.ListResult{
		Resources: make([]wetwire.ListResource, 0, len(nodes)),
	}
	for _, n := range nodes {
		result.Resources = append(result.Resources, wetwire.ListResource{
			Name:   n.LogicalID,
			Type:   n.Type,
			Domain: n.Domain,
		})
	}

	sort.Slice(result.Resources, func(i, j int) bool {
		return result.Resources[i].Name < result.Resources[j].Name
	})

	return result, nil
}

// InitProject creates {workspaceDir}/{projectName}/domains.yaml and returns its path.
func InitProject(workspaceDir, projectName string) (string, error) {
	projectPath := filepath.Join(workspaceDir, projectName)
	if _, err := os.Stat(projectPath); err == nil {
		return "", fmt.Errorf("project already exists: %s", projectPath)
	}
	return WriteStarter(projectPath, projectName)
}

// WriteStarter writes the starter manifest for namespace into dir and
// returns its path. An existing manifest is never overwritten.
func WriteStarter(dir, namespace string) (string, error) {
	if !validProjectName.MatchString(namespace) {
		return "", fmt.Errorf("invalid project name %q: must start with a letter and contain only letters, numbers, hyphens, or underscores", namespace)
	}

	path := filepath.Join(dir, ManifestFile)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("manifest already exists: %s", path)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating project directory: %w", err)
	}

	data, err := StarterManifest(namespace).Marshal()
	if err != nil {
		return "", fmt.Errorf("rendering manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", ManifestFile, err)
	}
	return path, nil
}

// StarterManifest is a single routed accounts domain under namespace.
func StarterManifest(namespace string) *manifest.Manifest {
	return &manifest.Manifest{
		Namespace:   namespace,
		Description: namespace + " domains",
		Network: &manifest.Network{
			VpcID:            "vpc-REPLACE",
			SubnetIDs:        []string{"subnet-REPLACE"},
			SecurityGroupIDs: []string{"sg-REPLACE"},
		},
		EventBus: &manifest.EventBus{Name: namespace + "-events"},
		Domains: []manifest.Domain{{
			Name: "accounts",
			Api:  &manifest.Api{Name: "AccountsApi"},
			Functions: []manifest.Function{{
				Name:    "CreateAccount",
				Handler: "create_account.handler",
				Source:  "domains/accounts/handlers",
				Routes:  []manifest.Route{{Method: "POST", Path: "/account/create"}},
			}},
		}},
	}
}
