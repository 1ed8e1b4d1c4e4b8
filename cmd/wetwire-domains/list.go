package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-domains-go"
	"github.com/lex00/wetwire-domains-go/domains"
)

func newListCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list <manifest>",
		Short: "List generated resources",
		Long: `List materializes the manifest and displays every generated resource
with the domain that owns it.

Examples:
    wetwire-domains list bank.yaml
    wetwire-domains list bank.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := domains.ListResources(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return outputListResult(result, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func outputListResult(result wetwire.ListResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if len(result.Resources) == 0 {
			fmt.Println("No resources found.")
			return nil
		}

		fmt.Printf("Generated resources (%d):\n\n", len(result.Resources))
		for _, res := range result.Resources {
			fmt.Printf("  %s: %s (%s)\n", res.Name, res.Type, res.Domain)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
