package domains

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	coredomain "github.com/lex00/wetwire-core-go/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T) *coredomain.Context {
	return coredomain.NewContext(context.Background(), t.TempDir())
}

func TestDomainsDomain_Metadata(t *testing.T) {
	d := &DomainsDomain{}
	assert.Equal(t, "domains", d.Name())
	assert.Equal(t, Version(), d.Version())
	assert.NotNil(t, d.Builder())
	assert.NotNil(t, d.Linter())
	assert.NotNil(t, d.Initializer())
	assert.NotNil(t, d.Validator())
	assert.NotNil(t, d.Lister())
	assert.NotNil(t, d.Grapher())
	assert.NotNil(t, d.Differ())
}

func TestDomainsBuilder_Build(t *testing.T) {
	ctx := newContext(t)
	builder := &domainsBuilder{}

	result, err := builder.Build(ctx, exampleManifest, coredomain.BuildOpts{DryRun: true})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.Message, "dry run")
	assert.Contains(t, result.Data, `"AWSTemplateFormatVersion"`)

	out := filepath.Join(ctx.WorkDir, "template.yaml")
	result, err = builder.Build(ctx, exampleManifest, coredomain.BuildOpts{Format: "yaml", Output: out})
	require.NoError(t, err)
	require.True(t, result.Success)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "AWS::Serverless-2016-10-31")
}

func TestDomainsBuilder_BuildErrors(t *testing.T) {
	result, err := (&domainsBuilder{}).Build(newContext(t), "testdata/missing.yaml", coredomain.BuildOpts{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "error", result.Errors[0].Severity)
}

func TestDomainsLinter_Lint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	doc := "domains:\n  - name: a\n    functions:\n      - {name: F, handler: h, memory: 64}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	linter := &domainsLinter{}
	ctx := newContext(t)

	result, err := linter.Lint(ctx, path, coredomain.LintOpts{})
	require.NoError(t, err)
	assert.False(t, result.Success)

	found := false
	for _, e := range result.Errors {
		if e.Code == "DOM002" {
			found = true
			assert.Equal(t, path, e.Path)
			assert.Equal(t, "error", e.Severity)
		}
	}
	assert.True(t, found, "Should find DOM002 issue when not disabled")

	result, err = linter.Lint(ctx, path, coredomain.LintOpts{Disable: []string{"DOM002"}})
	require.NoError(t, err)
	for _, e := range result.Errors {
		assert.NotEqual(t, "DOM002", e.Code, "DOM002 should be disabled")
	}

	result, err = linter.Lint(ctx, path, coredomain.LintOpts{Fix: true})
	require.NoError(t, err)
	if len(result.Errors) > 0 {
		assert.Contains(t, result.Message, "auto-fix")
	}
}

func TestDomainsInitializer_Project(t *testing.T) {
	ctx := newContext(t)
	target := filepath.Join(ctx.WorkDir, "mybank")

	result, err := (&domainsInitializer{}).Init(ctx, target, coredomain.InitOpts{})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, []string{ManifestFile}, result.Data)

	built := BuildManifest(context.Background(), filepath.Join(target, ManifestFile))
	require.True(t, built.Success, "errors: %v", built.Errors)
	assert.Contains(t, built.Resources, "AccountsCreateAccountFunction")

	_, err = (&domainsInitializer{}).Init(ctx, target, coredomain.InitOpts{})
	assert.ErrorContains(t, err, "already exists")
}

func TestDomainsInitializer_Scenario(t *testing.T) {
	ctx := newContext(t)
	target := filepath.Join(ctx.WorkDir, "scenario")

	result, err := (&domainsInitializer{}).Init(ctx, target, coredomain.InitOpts{Name: "bank", Scenario: true})
	require.NoError(t, err)
	require.True(t, result.Success)

	created, ok := result.Data.([]string)
	require.True(t, ok)
	assert.Contains(t, created, "scenario.yaml")
	assert.Contains(t, created, "expected/"+ManifestFile)
	assert.FileExists(t, filepath.Join(target, "expected", ManifestFile))
}

func TestDomainsValidator_Errors(t *testing.T) {
	result, err := (&domainsValidator{}).Validate(newContext(t), "testdata/missing.yaml", coredomain.ValidateOpts{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "validation errors", result.Message)
}

func TestDomainsLister_List(t *testing.T) {
	lister := &domainsLister{}

	result, err := lister.List(newContext(t), exampleManifest, coredomain.ListOpts{Type: "AWS::Serverless::StateMachine"})
	require.NoError(t, err)

	resources, ok := result.Data.([]map[string]string)
	require.True(t, ok)
	require.Len(t, resources, 1)
	assert.Equal(t, "LoansLoanProcessingStateMachine", resources[0]["name"])
	assert.Equal(t, "loans", resources[0]["domain"])
	assert.Equal(t, "Discovered 1 resources", result.Message)
}

func TestDomainsGrapher_Graph(t *testing.T) {
	grapher := &domainsGrapher{}

	result, err := grapher.Graph(newContext(t), exampleManifest, coredomain.GraphOpts{})
	require.NoError(t, err)
	assert.Contains(t, result.Data, "digraph")

	result, err = grapher.Graph(newContext(t), exampleManifest, coredomain.GraphOpts{Format: "mermaid"})
	require.NoError(t, err)
	out, ok := result.Data.(string)
	require.True(t, ok)
	assert.True(t, strings.Contains(out, "flowchart") || strings.Contains(out, "graph"), out)

	_, err = grapher.Graph(newContext(t), exampleManifest, coredomain.GraphOpts{Format: "svg"})
	assert.Error(t, err)
}

func TestDomainsDiffer_Diff(t *testing.T) {
	ctx := newContext(t)
	builder := &domainsBuilder{}

	bank := filepath.Join(ctx.WorkDir, "bank.json")
	_, err := builder.Build(ctx, exampleManifest, coredomain.BuildOpts{Output: bank})
	require.NoError(t, err)

	starter, err := WriteStarter(filepath.Join(ctx.WorkDir, "starter"), "bank")
	require.NoError(t, err)
	small := filepath.Join(ctx.WorkDir, "small.json")
	_, err = builder.Build(ctx, starter, coredomain.BuildOpts{Output: small})
	require.NoError(t, err)

	differ := &domainsDiffer{}

	same, err := differ.Diff(ctx, bank, bank, coredomain.DiffOpts{})
	require.NoError(t, err)
	assert.Empty(t, same.Entries)
	assert.Equal(t, 0, same.Summary.Total)

	diff, err := differ.Diff(ctx, bank, small, coredomain.DiffOpts{IgnoreOrder: true})
	require.NoError(t, err)
	assert.Positive(t, diff.Summary.Removed)
	assert.Equal(t, diff.Summary.Total, len(diff.Entries))

	removed := false
	for _, e := range diff.Entries {
		if e.Resource == "LoansLoanProcessingStateMachine" {
			removed = true
			assert.Equal(t, "removed", e.Action)
			assert.Equal(t, "AWS::Serverless::StateMachine", e.Type)
		}
	}
	assert.True(t, removed)

	_, err = differ.Diff(ctx, bank, filepath.Join(ctx.WorkDir, "missing.json"), coredomain.DiffOpts{})
	assert.Error(t, err)
}

func TestMCPServer_Tools(t *testing.T) {
	server := coredomain.BuildMCPServer(&DomainsDomain{})

	names := make(map[string]bool)
	for _, tool := range server.GetTools() {
		names[tool.Name] = true
	}
	for _, want := range []string{"wetwire_build", "wetwire_lint", "wetwire_init", "wetwire_validate", "wetwire_list", "wetwire_graph"} {
		assert.True(t, names[want], "missing tool %s", want)
	}
	assert.False(t, names["wetwire_import"])

	out, err := server.ExecuteTool(context.Background(), "wetwire_list", map[string]any{"package": exampleManifest})
	require.NoError(t, err)
	assert.Contains(t, out, "LoansLoanProcessingStateMachine")
}
