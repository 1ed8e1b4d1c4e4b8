package domains

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	coredomain "github.com/lex00/wetwire-core-go/domain"

	"github.com/lex00/wetwire-domains-go/internal/differ"
	"github.com/lex00/wetwire-domains-go/internal/lint"
)

// DomainsDomain implements the core Domain interface over domain manifests.
// Operation paths name a manifest file.
type DomainsDomain struct{}

var (
	_ coredomain.Domain        = (*DomainsDomain)(nil)
	_ coredomain.ListerDomain  = (*DomainsDomain)(nil)
	_ coredomain.GrapherDomain = (*DomainsDomain)(nil)
	_ coredomain.DifferDomain  = (*DomainsDomain)(nil)
)

// Name returns "domains"
func (d *DomainsDomain) Name() string {
	return "domains"
}

func (d *DomainsDomain) Version() string {
	return Version()
}

func (d *DomainsDomain) Builder() coredomain.Builder {
	return &domainsBuilder{}
}

func (d *DomainsDomain) Linter() coredomain.Linter {
	return &domainsLinter{}
}

func (d *DomainsDomain) Initializer() coredomain.Initializer {
	return &domainsInitializer{}
}

func (d *DomainsDomain) Validator() coredomain.Validator {
	return &domainsValidator{}
}

func (d *DomainsDomain) Lister() coredomain.Lister {
	return &domainsLister{}
}

func (d *DomainsDomain) Grapher() coredomain.Grapher {
	return &domainsGrapher{}
}

func (d *DomainsDomain) Differ() coredomain.Differ {
	return &domainsDiffer{}
}

type domainsBuilder struct{}

func (b *domainsBuilder) Build(ctx *coredomain.Context, path string, opts coredomain.BuildOpts) (*coredomain.Result, error) {
	result := BuildManifest(ctx, path)
	if !result.Success {
		errs := make([]coredomain.Error, 0, len(result.Errors))
		for _, e := range result.Errors {
			errs = append(errs, coredomain.Error{Path: path, Severity: "error", Message: e})
		}
		return coredomain.NewErrorResultMultiple("build failed", errs), nil
	}

	format := opts.Format
	if format == "" {
		format = "json"
	}
	data, err := EncodeTemplate(&result.Template, format)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		return coredomain.NewResultWithData("Build completed (dry run - no files written)", string(data)), nil
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			return nil, fmt.Errorf("writing template to %s: %w", opts.Output, err)
		}
		return coredomain.NewResultWithData(fmt.Sprintf("Build completed, template written to %s", opts.Output), string(data)), nil
	}

	return coredomain.NewResultWithData("Build completed", string(data)), nil
}

type domainsLinter struct{}

// Lint has no fixes to apply, so opts.Fix only changes the message.
func (l *domainsLinter) Lint(ctx *coredomain.Context, path string, opts coredomain.LintOpts) (*coredomain.Result, error) {
	result, err := LintManifest(path, lint.Options{DisabledRules: opts.Disable})
	if err != nil {
		return nil, err
	}

	if len(result.Issues) > 0 {
		errs := make([]coredomain.Error, 0, len(result.Issues))
		for _, issue := range result.Issues {
			errs = append(errs, coredomain.Error{
				Path:     issue.File,
				Line:     issue.Line,
				Column:   issue.Column,
				Severity: issue.Severity,
				Message:  issue.Message,
				Code:     issue.Rule,
			})
		}

		if opts.Fix {
			return coredomain.NewErrorResultMultiple("lint issues found (no auto-fix available for manifest rules)", errs), nil
		}
		return coredomain.NewErrorResultMultiple("lint issues found", errs), nil
	}

	return coredomain.NewResult("No lint issues found"), nil
}

type domainsInitializer struct{}

func (i *domainsInitializer) Init(ctx *coredomain.Context, path string, opts coredomain.InitOpts) (*coredomain.Result, error) {
	targetPath := opts.Path
	if targetPath == "" || targetPath == "." {
		targetPath = path
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(targetPath)
	}

	if opts.Scenario {
		return i.initScenario(targetPath, name, opts.Description)
	}

	manifestPath, err := WriteStarter(targetPath, name)
	if err != nil {
		return nil, err
	}
	return coredomain.NewResultWithData(
		fmt.Sprintf("Created %s", manifestPath),
		[]string{ManifestFile},
	), nil
}

// initScenario scaffolds the core scenario layout with the starter
// manifest as the expected output.
func (i *domainsInitializer) initScenario(path, name, description string) (*coredomain.Result, error) {
	if description == "" {
		description = "Serverless domain services scenario"
	}

	scenario := coredomain.ScaffoldScenario(name, description, "domains")
	created, err := coredomain.WriteScenario(path, scenario)
	if err != nil {
		return nil, fmt.Errorf("write scenario: %w", err)
	}

	if _, err := WriteStarter(filepath.Join(path, "expected"), name); err != nil {
		return nil, err
	}
	created = append(created, "expected/"+ManifestFile)

	return coredomain.NewResultWithData(
		fmt.Sprintf("Created scenario %s with %d files", name, len(created)),
		created,
	), nil
}

type domainsValidator struct{}

func (v *domainsValidator) Validate(ctx *coredomain.Context, path string, opts coredomain.ValidateOpts) (*coredomain.Result, error) {
	result, err := ValidateManifest(ctx, path)
	if err != nil {
		return nil, err
	}

	if !result.Success {
		errs := make([]coredomain.Error, 0, len(result.Errors))
		for _, e := range result.Errors {
			errs = append(errs, coredomain.Error{Path: path, Severity: "error", Message: e})
		}
		return coredomain.NewErrorResultMultiple("validation errors", errs), nil
	}

	return coredomain.NewResultWithData(
		fmt.Sprintf("Validation passed: %d resources OK", result.Resources),
		result.Warnings,
	), nil
}

type domainsLister struct{}

// List filters on opts.Type when set.
func (l *domainsLister) List(ctx *coredomain.Context, path string, opts coredomain.ListOpts) (*coredomain.Result, error) {
	result, err := ListResources(ctx, path)
	if err != nil {
		return nil, err
	}

	resources := make([]map[string]string, 0, len(result.Resources))
	for _, res := range result.Resources {
		if opts.Type != "" && res.Type != opts.Type {
			continue
		}
		resources = append(resources, map[string]string{
			"name":   res.Name,
			"type":   res.Type,
			"domain": res.Domain,
		})
	}

	return coredomain.NewResultWithData(fmt.Sprintf("Discovered %d resources", len(resources)), resources), nil
}

type domainsGrapher struct{}

func (g *domainsGrapher) Graph(ctx *coredomain.Context, path string, opts coredomain.GraphOpts) (*coredomain.Result, error) {
	var sb strings.Builder
	if err := GraphManifest(ctx, path, opts.Format, true, &sb); err != nil {
		return nil, err
	}
	return coredomain.NewResultWithData("Graph generated", sb.String()), nil
}

type domainsDiffer struct{}

// Diff compares two templates; file1 is the baseline.
func (d *domainsDiffer) Diff(ctx *coredomain.Context, file1, file2 string, opts coredomain.DiffOpts) (*coredomain.DiffResult, error) {
	result, err := differ.CompareFiles(file1, file2, differ.Options{IgnoreOrder: opts.IgnoreOrder})
	if err != nil {
		return nil, err
	}

	out := &coredomain.DiffResult{
		Summary: coredomain.DiffSummary{
			Added:    result.Summary.Added,
			Removed:  result.Summary.Removed,
			Modified: result.Summary.Modified,
			Total:    result.Summary.Total,
		},
	}
	for _, e := range result.Diff.Added {
		out.Entries = append(out.Entries, coredomain.DiffEntry{Resource: e.Resource, Type: e.Type, Action: "added"})
	}
	for _, e := range result.Diff.Removed {
		out.Entries = append(out.Entries, coredomain.DiffEntry{Resource: e.Resource, Type: e.Type, Action: "removed"})
	}
	for _, e := range result.Diff.Modified {
		out.Entries = append(out.Entries, coredomain.DiffEntry{Resource: e.Resource, Type: e.Type, Action: "modified", Changes: e.Changes})
	}
	return out, nil
}
