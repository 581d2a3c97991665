package sources

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/naijapulse/cmd/common"
	"github.com/jonesrussell/naijapulse/internal/domain"
)

// newListCommand creates the list command.
func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all active sources",
		Long:  `List all active sources in a formatted table.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			sources, err := deps.Store.ListSources(cmd.Context())
			if err != nil {
				return fmt.Errorf("list sources: %w", err)
			}
			if len(sources) == 0 {
				deps.Logger.Info("No sources configured")
				return nil
			}

			renderSources(sources)
			return nil
		},
	}
}

// renderSources displays the sources in a table.
func renderSources(sources []domain.Source) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Name", "URL", "Kind", "Health", "Rate Limit", "Last Success"})
	for i := range sources {
		src := &sources[i]
		lastSuccess := "never"
		if src.LastSuccessAt != nil {
			lastSuccess = src.LastSuccessAt.Format("2006-01-02 15:04:05")
		}
		t.AppendRow(table.Row{
			src.Name,
			src.BaseURL,
			src.Kind,
			src.Health,
			src.Fetch.RateLimit,
			lastSuccess,
		})
	}
	t.Render()
}
