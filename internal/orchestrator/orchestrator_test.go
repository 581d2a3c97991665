package orchestrator_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/naijapulse/internal/analyze"
	"github.com/jonesrussell/naijapulse/internal/domain"
	"github.com/jonesrussell/naijapulse/internal/fetch"
	"github.com/jonesrussell/naijapulse/internal/logger"
	"github.com/jonesrussell/naijapulse/internal/orchestrator"
	"github.com/jonesrussell/naijapulse/internal/scrape"
	"github.com/jonesrussell/naijapulse/internal/store"
)

// fakeStore is an in-memory Store with per-call error injection.
type fakeStore struct {
	mu sync.Mutex

	sources    []domain.Source
	existing   map[string]bool
	inserted   []domain.Article
	analyses   map[string]string
	topics     map[string]bool
	health     map[int64]domain.HealthStatus
	successAt  map[int64]time.Time
	runs       []domain.ScrapeRun
	unanalyzed []domain.Article

	listErr     error
	insertErr   error
	recordErrOn domain.RunState
	recordRunID string
}

func newFakeStore(sources ...domain.Source) *fakeStore {
	return &fakeStore{
		sources:   sources,
		existing:  map[string]bool{},
		analyses:  map[string]string{},
		topics:    map[string]bool{},
		health:    map[int64]domain.HealthStatus{},
		successAt: map[int64]time.Time{},
	}
}

func (f *fakeStore) ListSources(_ context.Context) ([]domain.Source, error) {
	return f.sources, f.listErr
}

func (f *fakeStore) InsertArticleIfAbsent(_ context.Context, a *domain.Article) (store.InsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return "", f.insertErr
	}
	if f.existing[a.URL] {
		return store.Duplicate, nil
	}
	f.existing[a.URL] = true
	f.inserted = append(f.inserted, *a)
	return store.Inserted, nil
}

func (f *fakeStore) UpdateAnalysis(_ context.Context, _ int64, url string, _ float64, label string, _ []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyses[url] = label
	return nil
}

func (f *fakeStore) ListUnanalyzed(_ context.Context, _ int) ([]domain.Article, error) {
	return f.unanalyzed, nil
}

func (f *fakeStore) UpsertTopics(_ context.Context, names []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.topics[n] = true
	}
	return nil
}

func (f *fakeStore) UpdateSourceHealth(_ context.Context, sourceID int64, status domain.HealthStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.health[sourceID] = status
	return nil
}

func (f *fakeStore) UpdateSourceLastSuccess(_ context.Context, sourceID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successAt[sourceID] = at
	return nil
}

func (f *fakeStore) RecordRun(_ context.Context, run *domain.ScrapeRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErrOn != "" && run.State == f.recordErrOn {
		return &store.Error{Kind: store.KindUnavailable, Op: "record run"}
	}
	f.runs = append(f.runs, *run)
	f.recordRunID = run.ID
	return nil
}

// fakeScraper returns a canned batch or error per source name.
type fakeScraper struct {
	batches map[string]*scrape.Batch
	errs    map[string]error
	block   chan struct{}
}

func (f *fakeScraper) Scrape(ctx context.Context, src *domain.Source) (*scrape.Batch, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[src.Name]; err != nil {
		return nil, err
	}
	if b := f.batches[src.Name]; b != nil {
		return b, nil
	}
	return &scrape.Batch{}, nil
}

// fakeSelector serves the same scraper for every source.
type fakeSelector struct {
	scraper scrape.Scraper
}

func (f *fakeSelector) For(_ *domain.Source) (scrape.Scraper, error) {
	return f.scraper, nil
}

// fakeAnalyzer returns a fixed verdict, or fails when err is set.
type fakeAnalyzer struct {
	result analyze.Result
	err    error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ string) (*analyze.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := f.result
	return &r, nil
}

func testSource(id int64, name string) domain.Source {
	return domain.Source{
		ID:      id,
		Name:    name,
		BaseURL: "https://" + name + ".example.com",
		Kind:    domain.SourceKindHTML,
		Active:  true,
	}
}

func candidates(urls ...string) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(urls))
	for _, u := range urls {
		out = append(out, domain.Candidate{
			URL:         u,
			Title:       "Title for " + u,
			Body:        "CBN raises the policy rate again.",
			PublishedAt: time.Now(),
		})
	}
	return out
}

func newOrchestrator(st *fakeStore, scraper scrape.Scraper, an analyze.Analyzer) *orchestrator.Orchestrator {
	return orchestrator.New(st, &fakeSelector{scraper: scraper}, an, logger.NewNoOp(), orchestrator.Options{})
}

func TestRun_MixedOutcomes(t *testing.T) {
	t.Parallel()

	st := newFakeStore(testSource(1, "alpha"), testSource(2, "beta"))
	st.existing["https://alpha.example.com/a4"] = true
	st.existing["https://alpha.example.com/a5"] = true

	scraper := &fakeScraper{
		batches: map[string]*scrape.Batch{
			"alpha": {Candidates: candidates(
				"https://alpha.example.com/a1",
				"https://alpha.example.com/a2",
				"https://alpha.example.com/a3",
				"https://alpha.example.com/a4",
				"https://alpha.example.com/a5",
			)},
		},
		errs: map[string]error{
			"beta": &fetch.Error{Kind: fetch.KindTimeout, URL: "https://beta.example.com", Attempts: 4},
		},
	}
	an := &fakeAnalyzer{result: analyze.Result{Sentiment: 0.4, Label: "positive", Topics: []string{"cbn"}}}

	run, err := newOrchestrator(st, scraper, an).Run(context.Background(), domain.TriggerScheduled, "")
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, domain.RunStateCompletedWithErrors, run.State)
	require.NotNil(t, run.CompletedAt)

	alpha := run.Outcomes["alpha"]
	require.NotNil(t, alpha)
	assert.Equal(t, 5, alpha.Fetched)
	assert.Equal(t, 3, alpha.New)
	assert.Equal(t, 2, alpha.Duplicate)
	assert.Equal(t, 0, alpha.Failed)

	beta := run.Outcomes["beta"]
	require.NotNil(t, beta)
	assert.Equal(t, 1, beta.Fetched)
	assert.Equal(t, 1, beta.Failed)
	assert.NotEmpty(t, beta.Errors)

	assert.Equal(t, domain.HealthHealthy, st.health[1])
	assert.Equal(t, domain.HealthDegraded, st.health[2])
	assert.Contains(t, st.successAt, int64(1))
	assert.NotContains(t, st.successAt, int64(2))

	// New articles were analyzed and their topics registered.
	assert.Len(t, st.inserted, 3)
	assert.Equal(t, "positive", st.analyses["https://alpha.example.com/a1"])
	assert.True(t, st.topics["cbn"])

	// The run was recorded at start and at finish under the same ID.
	require.Len(t, st.runs, 2)
	assert.Equal(t, domain.RunStateRunning, st.runs[0].State)
	assert.Equal(t, run.ID, st.recordRunID)
}

func TestRun_CountsSum(t *testing.T) {
	t.Parallel()

	st := newFakeStore(testSource(1, "alpha"))
	scraper := &fakeScraper{
		batches: map[string]*scrape.Batch{
			"alpha": {
				Candidates: candidates("https://alpha.example.com/a1", "https://alpha.example.com/a2"),
				Failed:     3,
				Errors:     []string{"x", "y", "z"},
			},
		},
	}

	run, err := newOrchestrator(st, scraper, &fakeAnalyzer{}).Run(context.Background(), domain.TriggerManual, "")
	require.NoError(t, err)

	o := run.Outcomes["alpha"]
	require.NotNil(t, o)
	assert.Equal(t, o.Fetched, o.New+o.Duplicate+o.Failed)
	assert.Equal(t, 5, o.Fetched)
}

func TestRun_RejectsOverlap(t *testing.T) {
	t.Parallel()

	st := newFakeStore(testSource(1, "alpha"))
	scraper := &fakeScraper{block: make(chan struct{})}
	orc := newOrchestrator(st, scraper, &fakeAnalyzer{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = orc.Run(context.Background(), domain.TriggerScheduled, "")
	}()

	require.Eventually(t, orc.Running, time.Second, time.Millisecond)

	_, err := orc.Run(context.Background(), domain.TriggerManual, "")
	assert.ErrorIs(t, err, orchestrator.ErrCycleInProgress)

	close(scraper.block)
	<-done

	// A fresh trigger succeeds once the first cycle releases the slot.
	_, err = orc.Run(context.Background(), domain.TriggerManual, "")
	assert.NoError(t, err)
}

func TestRun_PermanentFailureMarksSourceDown(t *testing.T) {
	t.Parallel()

	st := newFakeStore(testSource(7, "alpha"))
	scraper := &fakeScraper{
		errs: map[string]error{
			"alpha": &fetch.Error{Kind: fetch.KindPermanent, URL: "https://alpha.example.com", StatusCode: 404, Attempts: 1},
		},
	}

	run, err := newOrchestrator(st, scraper, &fakeAnalyzer{}).Run(context.Background(), domain.TriggerScheduled, "")
	require.NoError(t, err)

	assert.Equal(t, domain.RunStateCompletedWithErrors, run.State)
	assert.Equal(t, domain.HealthDown, st.health[7])
}

func TestRun_RepeatedExhaustionMarksSourceDown(t *testing.T) {
	t.Parallel()

	exhausted := &fetch.Error{Kind: fetch.KindTransientExhausted, URL: "https://alpha.example.com", Attempts: 4}

	// First cycle: a healthy source that exhausts its retries only degrades.
	healthy := testSource(3, "alpha")
	st := newFakeStore(healthy)
	scraper := &fakeScraper{errs: map[string]error{"alpha": exhausted}}

	_, err := newOrchestrator(st, scraper, &fakeAnalyzer{}).Run(context.Background(), domain.TriggerScheduled, "")
	require.NoError(t, err)
	assert.Equal(t, domain.HealthDegraded, st.health[3])

	// Next cycle: the still-degraded source exhausts again and goes down.
	degraded := testSource(3, "alpha")
	degraded.Health = domain.HealthDegraded
	st = newFakeStore(degraded)

	_, err = newOrchestrator(st, scraper, &fakeAnalyzer{}).Run(context.Background(), domain.TriggerScheduled, "")
	require.NoError(t, err)
	assert.Equal(t, domain.HealthDown, st.health[3])
}

func TestRun_AnalyzerDownDefersAnalysis(t *testing.T) {
	t.Parallel()

	st := newFakeStore(testSource(1, "alpha"))
	scraper := &fakeScraper{
		batches: map[string]*scrape.Batch{
			"alpha": {Candidates: candidates("https://alpha.example.com/a1")},
		},
	}
	an := &fakeAnalyzer{err: &analyze.Error{Kind: analyze.KindModelUnavailable}}

	run, err := newOrchestrator(st, scraper, an).Run(context.Background(), domain.TriggerScheduled, "")
	require.NoError(t, err)

	// The article is stored; only the analysis waits for a later pass.
	assert.Equal(t, domain.RunStateCompleted, run.State)
	assert.Len(t, st.inserted, 1)
	assert.Empty(t, st.analyses)
}

func TestRun_BackfillAnalyzesStoredArticles(t *testing.T) {
	t.Parallel()

	st := newFakeStore(testSource(1, "alpha"))
	st.unanalyzed = []domain.Article{
		{SourceID: 1, URL: "https://alpha.example.com/old", Body: "Naira gains against the dollar."},
	}
	an := &fakeAnalyzer{result: analyze.Result{Sentiment: -0.2, Label: "negative", Topics: []string{"naira"}}}

	_, err := newOrchestrator(st, &fakeScraper{}, an).Run(context.Background(), domain.TriggerScheduled, "")
	require.NoError(t, err)

	assert.Equal(t, "negative", st.analyses["https://alpha.example.com/old"])
	assert.True(t, st.topics["naira"])
}

func TestRun_SourceFilter(t *testing.T) {
	t.Parallel()

	st := newFakeStore(testSource(1, "alpha"), testSource(2, "beta"))
	scraper := &fakeScraper{
		batches: map[string]*scrape.Batch{
			"alpha": {Candidates: candidates("https://alpha.example.com/a1")},
			"beta":  {Candidates: candidates("https://beta.example.com/b1")},
		},
	}

	run, err := newOrchestrator(st, scraper, &fakeAnalyzer{}).Run(context.Background(), domain.TriggerManual, "beta")
	require.NoError(t, err)

	assert.Len(t, run.Outcomes, 1)
	assert.NotNil(t, run.Outcomes["beta"])
}

func TestRun_UnknownSourceFilter(t *testing.T) {
	t.Parallel()

	st := newFakeStore(testSource(1, "alpha"))

	run, err := newOrchestrator(st, &fakeScraper{}, &fakeAnalyzer{}).Run(context.Background(), domain.TriggerManual, "nope")
	require.NoError(t, err)

	assert.Equal(t, domain.RunStateCompletedWithErrors, run.State)
	assert.Empty(t, run.Outcomes)
	require.NotEmpty(t, run.Errors)
	assert.Contains(t, run.Errors[0], "nope")
}

func TestRun_RecordFailureFailsRun(t *testing.T) {
	t.Parallel()

	st := newFakeStore(testSource(1, "alpha"))
	st.recordErrOn = domain.RunStateCompleted

	run, err := newOrchestrator(st, &fakeScraper{batches: map[string]*scrape.Batch{
		"alpha": {Candidates: candidates("https://alpha.example.com/a1")},
	}}, &fakeAnalyzer{}).Run(context.Background(), domain.TriggerScheduled, "")

	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, domain.RunStateFailed, run.State)
}

func TestRun_RecordStartFailure(t *testing.T) {
	t.Parallel()

	st := newFakeStore(testSource(1, "alpha"))
	st.recordErrOn = domain.RunStateRunning

	run, err := newOrchestrator(st, &fakeScraper{}, &fakeAnalyzer{}).Run(context.Background(), domain.TriggerScheduled, "")

	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, domain.RunStateFailed, run.State)
	assert.Empty(t, st.runs)
}
