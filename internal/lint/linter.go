// Package lint provides lint rules for domain deployment manifests.
package lint

import (
	"sort"

	corelint "github.com/lex00/wetwire-core-go/lint"

	"github.com/lex00/wetwire-domains-go/internal/manifest"
)

// Type aliases for the core lint package.
type (
	// Issue is an alias for corelint.Issue.
	Issue = corelint.Issue
	// Severity is an alias for corelint.Severity.
	Severity = corelint.Severity
)

// Severity constants re-exported from the core lint package.
const (
	SeverityError   = corelint.SeverityError
	SeverityWarning = corelint.SeverityWarning
	SeverityInfo    = corelint.SeverityInfo
)

// Result contains the outcome of linting.
type Result struct {
	Success bool
	Issues  []Issue
}

// Options configures the linter.
type Options struct {
	// Rules to enable. If empty, all rules are enabled.
	EnabledRules []string
	// DisabledRules are skipped even when enabled.
	DisabledRules []string
}

// LintFile loads and lints a manifest file.
func LintFile(path string, opts Options) (Result, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return Result{}, err
	}
	return Lint(m, opts), nil
}

// Lint runs the selected rules over m. Issues are ordered by line.
func Lint(m *manifest.Manifest, opts Options) Result {
	var issues []Issue
	for _, rule := range getRules(opts) {
		issues = append(issues, rule.Check(m)...)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Line < issues[j].Line
	})

	return Result{
		Success: len(issues) == 0,
		Issues:  issues,
	}
}

// HasErrors reports whether any issue has error severity.
func (r Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// getRules returns the rules to use based on options.
func getRules(opts Options) []Rule {
	all := AllRules()

	enabled := make(map[string]bool)
	for _, id := range opts.EnabledRules {
		enabled[id] = true
	}
	disabled := make(map[string]bool)
	for _, id := range opts.DisabledRules {
		disabled[id] = true
	}

	var filtered []Rule
	for _, r := range all {
		if disabled[r.ID()] {
			continue
		}
		if len(enabled) > 0 && !enabled[r.ID()] {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}
