package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-domains-go"
	"github.com/lex00/wetwire-domains-go/domains"
)

func newBuildCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "build <manifest>",
		Short: "Generate CloudFormation template from a domain manifest",
		Long: `Build materializes every domain in the manifest and writes the template.

Examples:
    wetwire-domains build bank.yaml
    wetwire-domains build bank.yaml -o template.json
    wetwire-domains build bank.yaml --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), args[0], outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runBuild(ctx context.Context, path, format, outputFile string) error {
	return outputResult(domains.BuildManifest(ctx, path), format, outputFile)
}

func outputResult(result wetwire.BuildResult, format, outputFile string) error {
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("build failed")
	}

	data, err := domains.EncodeTemplate(&result.Template, format)
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Println(string(data))
		return nil
	}

	return os.WriteFile(outputFile, data, 0644)
}
