package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/naijapulse/internal/domain"
	"github.com/jonesrussell/naijapulse/internal/logger"
	"github.com/jonesrussell/naijapulse/internal/parse"
)

// maxArticlesPerListing caps how many article pages one listing can enqueue.
const maxArticlesPerListing = 20

// htmlScraper walks a source's category listing pages, then fetches and
// parses each discovered article page.
type htmlScraper struct {
	fetcher Fetcher
	log     logger.Interface
}

func newHTMLScraper(fetcher Fetcher, log logger.Interface) *htmlScraper {
	return &htmlScraper{
		fetcher: fetcher,
		log:     log.WithComponent("scraper_html"),
	}
}

// Scrape fetches every category listing, then every discovered article page.
// A failed listing fails only that category; a failed article page fails only
// that item. Returns an error when no category yielded anything.
func (s *htmlScraper) Scrape(ctx context.Context, src *domain.Source) (*Batch, error) {
	categories := src.Categories
	if len(categories) == 0 {
		categories = domain.StringList{""}
	}

	batch := &Batch{}
	var firstErr error
	attempted := false

	for _, category := range categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		urls, err := s.discover(ctx, src, category)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			batch.Errors = append(batch.Errors, err.Error())
			s.log.Warn("category listing failed",
				"source", src.Name,
				"category", category,
				"error", err.Error(),
			)
			continue
		}
		attempted = true

		s.scrapeArticles(ctx, src, category, urls, batch)
	}

	if !attempted && firstErr != nil {
		return nil, firstErr
	}

	return batch, nil
}

// discover fetches one category listing page and extracts article URLs.
func (s *htmlScraper) discover(ctx context.Context, src *domain.Source, category string) ([]string, error) {
	listingURL := categoryURL(src.BaseURL, category)

	raw, err := s.fetcher.Fetch(ctx, src, listingURL)
	if err != nil {
		return nil, err
	}

	urls, parseErr := parse.Listing(src.Selectors, listingURL, raw)
	if parseErr != nil {
		return nil, parseErr
	}

	if len(urls) > maxArticlesPerListing {
		urls = urls[:maxArticlesPerListing]
	}
	return urls, nil
}

// scrapeArticles fetches and parses each article page, recording failures
// without aborting the batch.
func (s *htmlScraper) scrapeArticles(
	ctx context.Context,
	src *domain.Source,
	category string,
	urls []string,
	batch *Batch,
) {
	for _, articleURL := range urls {
		if ctx.Err() != nil {
			return
		}

		raw, err := s.fetcher.Fetch(ctx, src, articleURL)
		if err != nil {
			batch.addFailure(err)
			continue
		}

		candidate, parseErr := parse.Article(src.Selectors, articleURL, raw, time.Now().UTC())
		if parseErr != nil {
			batch.addFailure(parseErr)
			continue
		}

		if candidate.Category == "" {
			candidate.Category = category
		}
		batch.Candidates = append(batch.Candidates, *candidate)
	}
}

// categoryURL builds the listing URL for a category. An empty category means
// the source's base URL itself lists articles.
func categoryURL(baseURL, category string) string {
	base := strings.TrimRight(baseURL, "/")
	if category == "" {
		return base + "/"
	}
	return fmt.Sprintf("%s/category/%s/", base, category)
}
