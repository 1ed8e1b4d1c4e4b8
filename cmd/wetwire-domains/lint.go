package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-domains-go"
	"github.com/lex00/wetwire-domains-go/domains"
	"github.com/lex00/wetwire-domains-go/internal/lint"
)

func newLintCmd() *cobra.Command {
	var (
		outputFormat string
		disable      []string
	)

	cmd := &cobra.Command{
		Use:   "lint <manifest>",
		Short: "Check a domain manifest for issues",
		Long: `Lint checks a domain manifest for mistakes the builders accept.

Rules:
    DOM001: Functions and workflow steps need a handler
    DOM002: Memory must be between 128 and 10240 MB
    DOM003: Timeouts must fit the Lambda and API Gateway limits
    DOM004: A domain should not subscribe to its own events
    DOM005: Routes need a known HTTP method and an absolute path
    DOM006: Domain logical ID prefixes must be unique
    DOM007: Event producers need an event bus
    DOM008: Subscriptions to namespace sources need a matching domain

Examples:
    wetwire-domains lint bank.yaml
    wetwire-domains lint bank.yaml --disable DOM003`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := domains.LintManifest(args[0], lint.Options{DisabledRules: disable})
			if err != nil {
				return err
			}
			return outputLintResult(result, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringSliceVar(&disable, "disable", nil, "Rule IDs to skip")

	return cmd
}

func outputLintResult(result wetwire.LintResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if result.Success {
			fmt.Println("No issues found.")
			return nil
		}
		printIssues(result.Issues)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Success {
		os.Exit(2) // Exit code 2 for issues found
	}

	return nil
}

func printIssues(issues []wetwire.LintIssue) {
	for _, issue := range issues {
		if issue.File != "" {
			fmt.Printf("%s:%d: %s: %s [%s]\n",
				issue.File, issue.Line, issue.Severity, issue.Message, issue.Rule)
		} else {
			fmt.Printf("%s: %s [%s]\n", issue.Severity, issue.Message, issue.Rule)
		}
	}
}
