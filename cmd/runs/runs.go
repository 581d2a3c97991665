// Package runs implements the scrape run inspection command.
package runs

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/naijapulse/cmd/common"
	"github.com/jonesrussell/naijapulse/internal/domain"
)

// defaultListLimit is how many runs the list command shows.
const defaultListLimit = 20

// Command returns the runs command.
func Command() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent scrape runs",
		Long:  `List the most recent scrape runs with their state and article counts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			runs, err := deps.Store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				deps.Logger.Info("No runs recorded yet")
				return nil
			}

			renderRuns(runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultListLimit, "maximum number of runs to show")

	return cmd
}

// renderRuns displays the runs in a table, newest first.
func renderRuns(runs []domain.ScrapeRun) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Run", "Trigger", "State", "Started", "Duration", "Sources", "New"})
	for i := range runs {
		run := &runs[i]
		duration := "-"
		if run.CompletedAt != nil {
			duration = run.CompletedAt.Sub(run.StartedAt).Round(10 * time.Millisecond).String()
		}
		t.AppendRow(table.Row{
			run.ID,
			run.Trigger,
			run.State,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			duration,
			len(run.Outcomes),
			run.TotalNew(),
		})
	}
	t.Render()
}
