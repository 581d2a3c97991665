// Package topics implements the trending topics command.
package topics

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/naijapulse/cmd/common"
	"github.com/jonesrussell/naijapulse/internal/domain"
)

// defaultTopicLimit is how many topics the command shows.
const defaultTopicLimit = 20

// Command returns the topics command.
func Command() *cobra.Command {
	var (
		limit     int
		recompute bool
	)

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Show trending topics",
		Long: `Show topics ordered by trending score. Use --recompute to refresh the
scores over the configured trending window before listing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			if recompute {
				window := deps.Config.Scheduler.TrendingWindow
				if window <= 0 {
					window = 24 * time.Hour
				}
				if err := deps.Store.RecomputeTrendingTopics(cmd.Context(), window); err != nil {
					return fmt.Errorf("recompute trending topics: %w", err)
				}
			}

			topics, err := deps.Store.TrendingTopics(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("trending topics: %w", err)
			}
			if len(topics) == 0 {
				deps.Logger.Info("No trending topics")
				return nil
			}

			renderTopics(topics)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultTopicLimit, "maximum number of topics to show")
	cmd.Flags().BoolVar(&recompute, "recompute", false, "recompute trending scores first")

	return cmd
}

// renderTopics displays the topics in a table, highest score first.
func renderTopics(topics []domain.Topic) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Topic", "Trending Score", "Updated"})
	for i := range topics {
		topic := &topics[i]
		t.AppendRow(table.Row{
			topic.Name,
			topic.TrendingScore,
			topic.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	t.Render()
}
