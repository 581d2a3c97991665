package scrape

import (
	"context"
	"time"

	"github.com/jonesrussell/naijapulse/internal/domain"
	"github.com/jonesrussell/naijapulse/internal/logger"
	"github.com/jonesrussell/naijapulse/internal/parse"
)

// rssScraper reads a source's feed and turns every usable item into a
// candidate. Feeds carry their own bodies, so there is no per-article fetch.
type rssScraper struct {
	fetcher Fetcher
	log     logger.Interface
}

func newRSSScraper(fetcher Fetcher, log logger.Interface) *rssScraper {
	return &rssScraper{
		fetcher: fetcher,
		log:     log.WithComponent("scraper_rss"),
	}
}

// Scrape fetches and parses the source's feed. Fetch and parse failures are
// source-level failures here since the feed is the only unit of work.
func (s *rssScraper) Scrape(ctx context.Context, src *domain.Source) (*Batch, error) {
	feedURL := src.FeedURL
	if feedURL == "" {
		feedURL = src.BaseURL
	}

	raw, err := s.fetcher.Fetch(ctx, src, feedURL)
	if err != nil {
		return nil, err
	}

	candidates, parseErr := parse.Feed(feedURL, raw, time.Now().UTC())
	if parseErr != nil {
		return nil, parseErr
	}

	s.log.Debug("feed parsed", "source", src.Name, "items", len(candidates))

	return &Batch{Candidates: candidates}, nil
}
