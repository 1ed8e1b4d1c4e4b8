package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-domains-go/domains"
)

func newGraphCmd() *cobra.Command {
	var (
		outputFormat string
		cluster      bool
	)

	cmd := &cobra.Command{
		Use:   "graph <manifest>",
		Short: "Generate DOT graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph showing resource dependencies.

The output can be rendered with Graphviz:
    wetwire-domains graph bank.yaml | dot -Tpng -o deps.png

Or used in GitHub markdown (Mermaid format):
    wetwire-domains graph bank.yaml -f mermaid

Examples:
    wetwire-domains graph bank.yaml
    wetwire-domains graph bank.yaml -c              # cluster by domain
    wetwire-domains graph bank.yaml -f mermaid      # mermaid format`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return domains.GraphManifest(cmd.Context(), args[0], outputFormat, cluster, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&cluster, "cluster", "c", false, "Cluster resources by domain")

	return cmd
}
