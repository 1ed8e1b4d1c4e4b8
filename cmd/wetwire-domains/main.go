// Command wetwire-domains synthesizes CloudFormation templates from a
// deployment manifest of serverless domain services.
//
// Usage:
//
//	wetwire-domains build bank.yaml       Generate CloudFormation template
//	wetwire-domains lint bank.yaml        Check the manifest for issues
//	wetwire-domains init mybank           Create a new manifest
//	wetwire-domains mcp                   Serve the operations as MCP tools
//	wetwire-domains version               Show version
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-domains-go/domains"
	"github.com/lex00/wetwire-domains-go/internal/ctxlog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "wetwire-domains",
		Short: "Generate CloudFormation templates for serverless domains",
		Long: `wetwire-domains materializes domain services (functions, an API, event
wiring and an optional workflow) into a CloudFormation/SAM template.

Describe your domains in a YAML manifest:

    domains:
      - name: accounts
        api: {name: AccountsApi}
        functions:
          - name: CreateAccount
            handler: create_account.handler
            routes: [{method: POST, path: /account/create}]

Then generate the template:

    wetwire-domains build bank.yaml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log synthesis steps to stderr")

	rootCmd.AddCommand(
		newBuildCmd(),
		newValidateCmd(),
		newListCmd(),
		newLintCmd(),
		newGraphCmd(),
		newDiffCmd(),
		newWatchCmd(),
		newInitCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wetwire-domains %s\n", domains.Version())
		},
	}
}
