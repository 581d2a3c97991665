// Package sources implements the source management commands.
package sources

import (
	"github.com/spf13/cobra"
)

// Command returns the sources command with its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage news sources",
		Long:  `List and seed the news sources the pipeline scrapes.`,
	}

	cmd.AddCommand(
		newListCommand(),
		newShowCommand(),
		newSeedCommand(),
	)

	return cmd
}
