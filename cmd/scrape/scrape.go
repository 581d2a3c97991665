// Package scrape implements the one-shot scrape command.
package scrape

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/naijapulse/cmd/common"
	"github.com/jonesrussell/naijapulse/internal/domain"
	"github.com/jonesrussell/naijapulse/internal/orchestrator"
)

// Command returns the scrape command.
func Command() *cobra.Command {
	var sourceName string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one scrape cycle now",
		Long: `Run a single scrape cycle across the active sources and exit.
Use --source to restrict the cycle to one source by name.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			orc := common.NewOrchestrator(deps)

			run, err := orc.Run(cmd.Context(), domain.TriggerManual, sourceName)
			if err != nil {
				if errors.Is(err, orchestrator.ErrCycleInProgress) {
					return errors.New("a scrape cycle is already in progress")
				}
				return fmt.Errorf("scrape cycle: %w", err)
			}

			renderOutcomes(run)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", "", "restrict the cycle to one source by name")

	return cmd
}

// renderOutcomes prints the per-source results of a run.
func renderOutcomes(run *domain.ScrapeRun) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Run %s (%s)", run.ID, run.State)

	t.AppendHeader(table.Row{"Source", "Fetched", "New", "Duplicate", "Failed"})
	for _, o := range run.Outcomes {
		t.AppendRow(table.Row{o.SourceName, o.Fetched, o.New, o.Duplicate, o.Failed})
	}
	t.Render()
}
