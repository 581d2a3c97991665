// Package scrape selects and runs the fetch-and-parse variant for a source.
// Each variant composes the fetcher with the pure extractors in internal/parse;
// persistence and analysis stay with the orchestrator.
package scrape

import (
	"context"
	"fmt"

	"github.com/jonesrussell/naijapulse/internal/domain"
	"github.com/jonesrussell/naijapulse/internal/logger"
)

// Fetcher retrieves raw content for a source URL.
type Fetcher interface {
	Fetch(ctx context.Context, src *domain.Source, url string) ([]byte, error)
}

// Batch is the result of scraping one source: the parsed candidates plus the
// per-item failures that did not abort the batch.
type Batch struct {
	Candidates []domain.Candidate
	// Failed counts items that were attempted but could not be fetched or parsed.
	Failed int
	// Errors holds the per-item failure descriptions.
	Errors []string
}

// addFailure records a failed item in the batch.
func (b *Batch) addFailure(err error) {
	b.Failed++
	b.Errors = append(b.Errors, err.Error())
}

// Scraper fetches and parses one source into a batch of candidates.
// A non-nil error means the source produced nothing at all; partial results
// come back as a batch with recorded item failures.
type Scraper interface {
	Scrape(ctx context.Context, src *domain.Source) (*Batch, error)
}

// Registry selects the scraper variant for a source by its kind.
type Registry struct {
	scrapers map[domain.SourceKind]Scraper
}

// NewRegistry creates a registry with the built-in HTML and RSS variants.
func NewRegistry(fetcher Fetcher, log logger.Interface) *Registry {
	return &Registry{
		scrapers: map[domain.SourceKind]Scraper{
			domain.SourceKindHTML: newHTMLScraper(fetcher, log),
			domain.SourceKindRSS:  newRSSScraper(fetcher, log),
		},
	}
}

// Register adds or replaces the scraper for a source kind.
func (r *Registry) Register(kind domain.SourceKind, s Scraper) {
	r.scrapers[kind] = s
}

// For returns the scraper for the source's kind.
func (r *Registry) For(src *domain.Source) (Scraper, error) {
	s, ok := r.scrapers[src.Kind]
	if !ok {
		return nil, fmt.Errorf("no scraper registered for source kind %q", src.Kind)
	}
	return s, nil
}
