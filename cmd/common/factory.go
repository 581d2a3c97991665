package common

import (
	"github.com/jonesrussell/naijapulse/internal/analyze"
	"github.com/jonesrussell/naijapulse/internal/fetch"
	"github.com/jonesrussell/naijapulse/internal/orchestrator"
	"github.com/jonesrussell/naijapulse/internal/ratelimit"
	"github.com/jonesrussell/naijapulse/internal/scrape"
)

// NewOrchestrator wires the scrape pipeline from the shared dependencies.
func NewOrchestrator(deps *CommandDeps) *orchestrator.Orchestrator {
	limiter := ratelimit.New()
	fetcher := fetch.New(limiter, deps.Logger, fetch.WithUserAgent(deps.Config.Scraper.UserAgent))
	registry := scrape.NewRegistry(fetcher, deps.Logger)
	analyzer := analyze.NewClient(deps.Config.Analyzer.BaseURL, deps.Config.Analyzer.Timeout)

	return orchestrator.New(deps.Store, registry, analyzer, deps.Logger, orchestrator.Options{
		MaxConcurrency: deps.Config.Scraper.MaxConcurrency,
		BackfillLimit:  deps.Config.Scraper.BackfillLimit,
	})
}
