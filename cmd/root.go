// Package cmd implements the command-line interface for naijapulse.
// It provides the root command and subcommands for running the scrape
// pipeline and managing sources.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	cmdruns "github.com/jonesrussell/naijapulse/cmd/runs"
	cmdscheduler "github.com/jonesrussell/naijapulse/cmd/scheduler"
	cmdscrape "github.com/jonesrussell/naijapulse/cmd/scrape"
	cmdsources "github.com/jonesrussell/naijapulse/cmd/sources"
	cmdtopics "github.com/jonesrussell/naijapulse/cmd/topics"
)

// version is overridden at build time.
var version = "1.0.0"

// cfgFile holds the path to the configuration file.
var cfgFile string

// rootCmd represents the root command for the naijapulse CLI.
var rootCmd = &cobra.Command{
	Use:   "naijapulse",
	Short: "A Nigerian financial news scraping pipeline",
	Long: `naijapulse scrapes Nigerian financial news sources on a schedule,
deduplicates the articles, and enriches them with sentiment and topics.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("naijapulse version %s\n", version)
		},
	})

	rootCmd.AddCommand(cmdscrape.Command())
	rootCmd.AddCommand(cmdscheduler.Command())
	rootCmd.AddCommand(cmdsources.Command())
	rootCmd.AddCommand(cmdruns.Command())
	rootCmd.AddCommand(cmdtopics.Command())
}
