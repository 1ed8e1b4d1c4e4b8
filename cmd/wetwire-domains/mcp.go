package main

import (
	"github.com/spf13/cobra"

	coredomain "github.com/lex00/wetwire-core-go/domain"

	"github.com/lex00/wetwire-domains-go/domains"
)

// newMCPCmd serves the domain operations over MCP on stdio.
func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `MCP exposes build, lint, init, validate, list and graph as MCP tools
(wetwire_build, wetwire_lint, ...). Tool "package" and "path" arguments
name a manifest file.

Register it with an MCP client:
    {"command": "wetwire-domains", "args": ["mcp"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return coredomain.BuildMCPServer(&domains.DomainsDomain{}).Start(cmd.Context())
		},
	}
}
