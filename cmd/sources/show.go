package sources

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/naijapulse/cmd/common"
	"github.com/jonesrussell/naijapulse/internal/domain"
)

// defaultArticleLimit is how many recent articles the show command lists.
const defaultArticleLimit = 10

// newShowCommand creates the show command.
func newShowCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one source and its latest articles",
		Long:  `Show a source's health and configuration plus its most recently published articles.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			src, err := deps.Store.GetSourceByName(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get source %q: %w", args[0], err)
			}

			articles, err := deps.Store.ListLatest(cmd.Context(), src.ID, limit)
			if err != nil {
				return fmt.Errorf("list latest articles: %w", err)
			}

			dayCount, err := deps.Store.CountSince(cmd.Context(), time.Now().Add(-24*time.Hour))
			if err != nil {
				return fmt.Errorf("count recent articles: %w", err)
			}

			renderSource(src, articles, dayCount)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultArticleLimit, "maximum number of articles to show")

	return cmd
}

// renderSource displays the source summary and its latest articles.
func renderSource(src *domain.Source, articles []domain.Article, dayCount int) {
	lastSuccess := "never"
	if src.LastSuccessAt != nil {
		lastSuccess = src.LastSuccessAt.Format("2006-01-02 15:04:05")
	}
	fmt.Printf("%s (%s, %s)\n", src.Name, src.Kind, src.Health)
	fmt.Printf("  url:          %s\n", src.BaseURL)
	fmt.Printf("  categories:   %v\n", []string(src.Categories))
	fmt.Printf("  last success: %s\n", lastSuccess)
	fmt.Printf("  pipeline articles, last 24h: %d\n\n", dayCount)

	if len(articles) == 0 {
		fmt.Println("No articles yet.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Published", "Title", "Category", "Sentiment"})
	for i := range articles {
		a := &articles[i]
		sentiment := "-"
		if a.SentimentLabel != nil {
			sentiment = *a.SentimentLabel
		}
		t.AppendRow(table.Row{
			a.PublishedAt.Format("2006-01-02 15:04"),
			a.Title,
			a.Category,
			sentiment,
		})
	}
	t.Render()
}
