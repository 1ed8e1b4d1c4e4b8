package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-domains-go"
	"github.com/lex00/wetwire-domains-go/domains"
)

// newValidateCmd creates the "validate" subcommand, which runs cfn-lint over
// the synthesized template.
func newValidateCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "validate <manifest>",
		Short: "Validate the synthesized template with cfn-lint",
		Long: `Validate builds the manifest and checks the resulting template.

Checks performed:
  - Domain declarations: required configuration, orphaned functions, routes
  - Schema: required properties and value ranges of generated resources
  - Template: cfn-lint rules for every generated resource

Examples:
    wetwire-domains validate bank.yaml
    wetwire-domains validate bank.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args[0], outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runValidate(ctx context.Context, path, format string) error {
	result, err := domains.ValidateManifest(ctx, path)
	if err != nil {
		return err
	}
	return outputValidateResult(result, format)
}

func outputValidateResult(result wetwire.ValidateResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if result.Success {
			fmt.Printf("Validation passed: %d resources OK\n", result.Resources)
			for _, warnMsg := range result.Warnings {
				fmt.Printf("  WARNING: %s\n", warnMsg)
			}
			return nil
		}

		fmt.Println("Validation FAILED:")
		for _, errMsg := range result.Errors {
			fmt.Printf("  ERROR: %s\n", errMsg)
		}
		for _, warnMsg := range result.Warnings {
			fmt.Printf("  WARNING: %s\n", warnMsg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Success {
		os.Exit(1)
	}

	return nil
}
