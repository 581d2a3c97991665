// Package orchestrator drives a full scrape cycle: it fans out across the
// active sources, persists new articles, runs analysis, and records the run.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/naijapulse/internal/analyze"
	"github.com/jonesrussell/naijapulse/internal/domain"
	"github.com/jonesrussell/naijapulse/internal/fetch"
	"github.com/jonesrussell/naijapulse/internal/logger"
	"github.com/jonesrussell/naijapulse/internal/scrape"
	"github.com/jonesrussell/naijapulse/internal/store"
)

// ErrCycleInProgress is returned when a trigger arrives while a cycle is
// already running. The caller retries later; cycles never queue or overlap.
var ErrCycleInProgress = errors.New("scrape cycle already in progress")

// ErrNoSources is returned when no active source matches the requested filter.
var ErrNoSources = errors.New("no matching active sources")

// Store is the persistence surface the orchestrator depends on.
type Store interface {
	ListSources(ctx context.Context) ([]domain.Source, error)
	InsertArticleIfAbsent(ctx context.Context, article *domain.Article) (store.InsertResult, error)
	UpdateAnalysis(ctx context.Context, sourceID int64, url string, sentiment float64, label string, topics []string) error
	ListUnanalyzed(ctx context.Context, limit int) ([]domain.Article, error)
	UpsertTopics(ctx context.Context, names []string) error
	UpdateSourceHealth(ctx context.Context, sourceID int64, status domain.HealthStatus) error
	UpdateSourceLastSuccess(ctx context.Context, sourceID int64, at time.Time) error
	RecordRun(ctx context.Context, run *domain.ScrapeRun) error
}

// ScraperSelector picks the scraper variant for a source.
type ScraperSelector interface {
	For(src *domain.Source) (scrape.Scraper, error)
}

// Options tunes a cycle.
type Options struct {
	// MaxConcurrency bounds the number of sources scraped in parallel.
	MaxConcurrency int
	// BackfillLimit bounds how many unanalyzed articles the end-of-cycle
	// backfill pass picks up.
	BackfillLimit int
}

const (
	defaultMaxConcurrency = 4
	defaultBackfillLimit  = 50
)

func (o Options) normalize() Options {
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = defaultMaxConcurrency
	}
	if o.BackfillLimit <= 0 {
		o.BackfillLimit = defaultBackfillLimit
	}
	return o
}

// Orchestrator runs scrape cycles. At most one cycle is active at a time.
type Orchestrator struct {
	store    Store
	scrapers ScraperSelector
	analyzer analyze.Analyzer
	logger   logger.Interface
	opts     Options

	active atomic.Bool
}

// New creates an orchestrator.
func New(st Store, scrapers ScraperSelector, analyzer analyze.Analyzer, log logger.Interface, opts Options) *Orchestrator {
	return &Orchestrator{
		store:    st,
		scrapers: scrapers,
		analyzer: analyzer,
		logger:   log.WithComponent("orchestrator"),
		opts:     opts.normalize(),
	}
}

// Running reports whether a cycle is currently active.
func (o *Orchestrator) Running() bool {
	return o.active.Load()
}

// Run executes one scrape cycle across the active sources. A non-empty
// sourceFilter restricts the cycle to the source with that name. If a cycle
// is already active the trigger is rejected with ErrCycleInProgress.
// The returned run is non-nil whenever a cycle was started, even when it
// finished with errors.
func (o *Orchestrator) Run(ctx context.Context, trigger domain.RunTrigger, sourceFilter string) (*domain.ScrapeRun, error) {
	if !o.active.CompareAndSwap(false, true) {
		return nil, ErrCycleInProgress
	}
	defer o.active.Store(false)

	run := &domain.ScrapeRun{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		State:     domain.RunStatePending,
		StartedAt: time.Now().UTC(),
		Outcomes:  domain.OutcomeMap{},
	}
	log := o.logger.WithRunID(run.ID)
	log.Info("Starting scrape cycle", "trigger", string(trigger), "source_filter", sourceFilter)

	if err := run.Transition(domain.RunStateRunning); err != nil {
		return run, err
	}
	if err := o.store.RecordRun(ctx, run); err != nil {
		run.State = domain.RunStateFailed
		return run, fmt.Errorf("record run start: %w", err)
	}

	sources, err := o.selectSources(ctx, sourceFilter)
	if err != nil {
		run.Errors = append(run.Errors, err.Error())
		return run, o.finish(ctx, run, log)
	}

	o.scrapeSources(ctx, run, sources, log)
	o.backfillUnanalyzed(ctx, log)

	return run, o.finish(ctx, run, log)
}

// selectSources lists the active sources, optionally narrowed to one name.
func (o *Orchestrator) selectSources(ctx context.Context, filter string) ([]domain.Source, error) {
	sources, err := o.store.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	if filter == "" {
		if len(sources) == 0 {
			return nil, ErrNoSources
		}
		return sources, nil
	}
	for i := range sources {
		if sources[i].Name == filter {
			return sources[i : i+1], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoSources, filter)
}

// scrapeSources fans out across sources under a bounded worker pool and
// collects outcomes. Only this goroutine mutates the run.
func (o *Orchestrator) scrapeSources(ctx context.Context, run *domain.ScrapeRun, sources []domain.Source, log logger.Interface) {
	sem := make(chan struct{}, o.opts.MaxConcurrency)
	results := make(chan *domain.SourceOutcome)

	var wg sync.WaitGroup
	for i := range sources {
		src := sources[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- o.scrapeSource(ctx, &src, log)
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	for outcome := range results {
		run.Outcomes[outcome.SourceName] = outcome
	}
}

// scrapeSource runs the fetch-parse-store-analyze pipeline for one source.
func (o *Orchestrator) scrapeSource(ctx context.Context, src *domain.Source, log logger.Interface) *domain.SourceOutcome {
	log = log.WithSource(src.Name)
	outcome := &domain.SourceOutcome{SourceID: src.ID, SourceName: src.Name}

	scraper, err := o.scrapers.For(src)
	if err != nil {
		outcome.Fetched = 1
		outcome.Failed = 1
		outcome.AddError(err)
		log.Error("No scraper for source", "error", err)
		return outcome
	}

	started := time.Now()
	batch, err := scraper.Scrape(ctx, src)
	if err != nil {
		// The source produced nothing at all. Count the failed discovery
		// attempt so the counts still sum.
		outcome.Fetched = 1
		outcome.Failed = 1
		outcome.AddError(err)
		o.setHealth(ctx, src, nextHealth(src.Health, err), log)
		log.WithDuration(time.Since(started)).Error("Source scrape failed", "error", err)
		return outcome
	}

	outcome.Fetched = len(batch.Candidates) + batch.Failed
	outcome.Failed = batch.Failed
	outcome.Errors = append(outcome.Errors, batch.Errors...)

	for i := range batch.Candidates {
		o.ingestCandidate(ctx, src, &batch.Candidates[i], outcome, log)
	}

	o.setHealth(ctx, src, domain.HealthHealthy, log)
	if err := o.store.UpdateSourceLastSuccess(ctx, src.ID, time.Now().UTC()); err != nil {
		log.Warn("Failed to update source last success", "error", err)
	}

	log.WithDuration(time.Since(started)).Info("Source scraped",
		"fetched", outcome.Fetched,
		"new", outcome.New,
		"duplicate", outcome.Duplicate,
		"failed", outcome.Failed)
	return outcome
}

// ingestCandidate persists one candidate and, for new articles, runs analysis.
func (o *Orchestrator) ingestCandidate(ctx context.Context, src *domain.Source, c *domain.Candidate, outcome *domain.SourceOutcome, log logger.Interface) {
	article := domain.NewArticle(src.ID, c)

	result, err := o.store.InsertArticleIfAbsent(ctx, article)
	if err != nil {
		outcome.Failed++
		outcome.AddError(err)
		log.Error("Failed to store article", "url", c.URL, "error", err)
		return
	}
	if result == store.Duplicate {
		outcome.Duplicate++
		return
	}
	outcome.New++

	o.analyzeArticle(ctx, src.ID, c.URL, c.Body, log)
}

// analyzeArticle runs sentiment and topic analysis and persists the verdict.
// Analysis failure leaves the article unanalyzed for a later backfill pass;
// the article itself is already stored.
func (o *Orchestrator) analyzeArticle(ctx context.Context, sourceID int64, url, body string, log logger.Interface) {
	result, err := o.analyzer.Analyze(ctx, body)
	if err != nil {
		log.Warn("Analysis deferred", "url", url, "error", err)
		return
	}
	if err := o.store.UpdateAnalysis(ctx, sourceID, url, result.Sentiment, result.Label, result.Topics); err != nil {
		log.Error("Failed to store analysis", "url", url, "error", err)
		return
	}
	if len(result.Topics) > 0 {
		if err := o.store.UpsertTopics(ctx, result.Topics); err != nil {
			log.Warn("Failed to upsert topics", "url", url, "error", err)
		}
	}
}

// backfillUnanalyzed retries analysis for articles a previous cycle stored
// while the analyzer was unavailable. The pass stops at the first analyzer
// failure; remaining articles wait for the next cycle.
func (o *Orchestrator) backfillUnanalyzed(ctx context.Context, log logger.Interface) {
	articles, err := o.store.ListUnanalyzed(ctx, o.opts.BackfillLimit)
	if err != nil {
		log.Warn("Failed to list unanalyzed articles", "error", err)
		return
	}
	for i := range articles {
		a := &articles[i]
		result, err := o.analyzer.Analyze(ctx, a.Body)
		if err != nil {
			log.Warn("Analyzer still unavailable, stopping backfill", "error", err)
			return
		}
		if err := o.store.UpdateAnalysis(ctx, a.SourceID, a.URL, result.Sentiment, result.Label, result.Topics); err != nil {
			log.Error("Failed to store backfilled analysis", "url", a.URL, "error", err)
			continue
		}
		if len(result.Topics) > 0 {
			if err := o.store.UpsertTopics(ctx, result.Topics); err != nil {
				log.Warn("Failed to upsert topics", "url", a.URL, "error", err)
			}
		}
	}
}

// finish moves the run to its terminal state and records it. A run only
// ends up failed when recording it hits storage trouble; scrape and
// analysis errors produce completed_with_errors.
func (o *Orchestrator) finish(ctx context.Context, run *domain.ScrapeRun, log logger.Interface) error {
	now := time.Now().UTC()
	run.CompletedAt = &now

	final := domain.RunStateCompleted
	if run.HasErrors() {
		final = domain.RunStateCompletedWithErrors
	}
	if err := run.Transition(final); err != nil {
		return err
	}

	if err := o.store.RecordRun(ctx, run); err != nil {
		// The persisted state of the run is unknown at this point, so the
		// in-memory run is forced to failed outside the transition table.
		run.State = domain.RunStateFailed
		log.Error("Failed to record run", "error", err)
		return fmt.Errorf("record run: %w", err)
	}

	log.WithDuration(now.Sub(run.StartedAt)).Info("Scrape cycle finished",
		"state", string(run.State),
		"sources", len(run.Outcomes),
		"new_articles", run.TotalNew())
	return nil
}

// setHealth persists a source health transition.
func (o *Orchestrator) setHealth(ctx context.Context, src *domain.Source, status domain.HealthStatus, log logger.Interface) {
	if err := o.store.UpdateSourceHealth(ctx, src.ID, status); err != nil {
		log.Warn("Failed to update source health", "status", string(status), "error", err)
	}
}

// nextHealth maps a source-level scrape failure to the source's next health
// status. A permanent failure marks the source down immediately; transient
// exhaustion degrades a healthy source and marks it down once it repeats.
func nextHealth(current domain.HealthStatus, err error) domain.HealthStatus {
	var fe *fetch.Error
	if errors.As(err, &fe) && fe.Kind == fetch.KindPermanent {
		return domain.HealthDown
	}
	if current == domain.HealthDegraded || current == domain.HealthDown {
		return domain.HealthDown
	}
	return domain.HealthDegraded
}
