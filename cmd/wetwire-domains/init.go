package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-domains-go/domains"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [project-name]",
		Short: "Create a new domain manifest",
		Long: `Init creates a project directory with a starter domain manifest.

The project name becomes the event namespace, so events from a domain
named "accounts" carry the source "<project-name>.accounts".

Examples:
    wetwire-domains init martian-bank     # Creates ./martian-bank/domains.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := domains.InitProject(".", args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created %s\n", path)
			fmt.Printf("\nNext steps:\n    wetwire-domains build %s\n", path)
			return nil
		},
	}
}
