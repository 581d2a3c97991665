package sources

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/naijapulse/cmd/common"
	"github.com/jonesrussell/naijapulse/internal/domain"
)

// defaultSources are the built-in sources seeded on first setup.
func defaultSources() []domain.Source {
	return []domain.Source{
		{
			Name:       "nairametrics",
			BaseURL:    "https://nairametrics.com",
			Kind:       domain.SourceKindHTML,
			Active:     true,
			Categories: domain.StringList{"banking", "economy", "markets", "technology", "business"},
			Selectors: domain.Selectors{
				ArticleList: "div.post-listing article.post",
				TitleLink:   "h2.entry-title a",
				Body:        "div.entry-content p",
				Date:        "time.entry-date",
				Author:      "span.author-name",
				Category:    "span.category-name",
			},
			Fetch: domain.FetchConfig{}.Normalize(),
		},
	}
}

// newSeedCommand creates the seed command.
func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the built-in sources",
		Long: `Insert the built-in sources into the database. Existing sources with
the same name are updated; their health and history are left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			seeds := defaultSources()
			for i := range seeds {
				src := &seeds[i]
				if err := deps.Store.UpsertSource(cmd.Context(), src); err != nil {
					return fmt.Errorf("seed source %q: %w", src.Name, err)
				}
				deps.Logger.Info("Seeded source", "name", src.Name, "url", src.BaseURL)
			}
			return nil
		},
	}
}
