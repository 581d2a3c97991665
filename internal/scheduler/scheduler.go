// Package scheduler owns the process-lifecycle clockwork: a cron schedule
// that fires scrape cycles and a ticker that recomputes trending topics.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/naijapulse/internal/domain"
	"github.com/jonesrussell/naijapulse/internal/logger"
	"github.com/jonesrussell/naijapulse/internal/orchestrator"
)

// State is the scheduler lifecycle state.
type State string

const (
	StateStopped  State = "stopped"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// Defaults applied by Config.Normalize.
const (
	// defaultCronSpec fires a scrape cycle every 30 minutes.
	defaultCronSpec       = "*/30 * * * *"
	defaultTrendingEvery  = 15 * time.Minute
	defaultTrendingWindow = 24 * time.Hour
)

// CycleRunner starts one scrape cycle. The scheduler treats an
// ErrCycleInProgress rejection as a skipped firing, not a failure.
type CycleRunner interface {
	Run(ctx context.Context, trigger domain.RunTrigger, sourceFilter string) (*domain.ScrapeRun, error)
}

// TrendingStore recomputes trending topic scores.
type TrendingStore interface {
	RecomputeTrendingTopics(ctx context.Context, window time.Duration) error
}

// Config holds the scheduler timings.
type Config struct {
	// CronSpec is the 5-field cron expression that fires scrape cycles.
	CronSpec string
	// TrendingEvery is the interval between trending recomputes.
	TrendingEvery time.Duration
	// TrendingWindow is how far back an article still counts as recent.
	TrendingWindow time.Duration
}

// Normalize fills zero values with defaults and returns the config.
func (c Config) Normalize() Config {
	if c.CronSpec == "" {
		c.CronSpec = defaultCronSpec
	}
	if c.TrendingEvery <= 0 {
		c.TrendingEvery = defaultTrendingEvery
	}
	if c.TrendingWindow <= 0 {
		c.TrendingWindow = defaultTrendingWindow
	}
	return c
}

// Scheduler drives scheduled scrape cycles and trending recomputes.
type Scheduler struct {
	logger   logger.Interface
	runner   CycleRunner
	trending TrendingStore
	cfg      Config

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	state State
}

// New creates a scheduler. Start must be called before any cycle fires.
func New(runner CycleRunner, trending TrendingStore, log logger.Interface, cfg Config) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &Scheduler{
		logger:   log.WithComponent("scheduler"),
		runner:   runner,
		trending: trending,
		cfg:      cfg.Normalize(),
		cron:     cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		ctx:      ctx,
		cancel:   cancel,
		state:    StateStopped,
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start registers the cron schedule and begins the trending loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateStopped {
		return fmt.Errorf("scheduler already %s", s.state)
	}

	if _, err := s.cron.AddFunc(s.cfg.CronSpec, s.fire); err != nil {
		return fmt.Errorf("add cron schedule %q: %w", s.cfg.CronSpec, err)
	}
	s.cron.Start()

	s.wg.Add(1)
	go s.trendingLoop()

	s.state = StateRunning
	s.logger.Info("Scheduler started",
		"schedule", s.cfg.CronSpec,
		"trending_every", s.cfg.TrendingEvery.String())
	return nil
}

// Stop halts the schedule and waits for the in-flight cycle. The trending
// loop is cancelled only after the cycle has drained.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	s.state = StateStopping
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")

	cronCtx := s.cron.Stop()
	<-cronCtx.Done()

	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()
	s.logger.Info("Scheduler stopped")
}

// fire runs one scheduled scrape cycle. A rejection from an overlapping
// cycle is logged and skipped; the next firing tries again.
func (s *Scheduler) fire() {
	run, err := s.runner.Run(s.ctx, domain.TriggerScheduled, "")
	if err != nil {
		if errors.Is(err, orchestrator.ErrCycleInProgress) {
			s.logger.Warn("Skipping scheduled cycle, previous cycle still running")
			return
		}
		s.logger.Error("Scheduled cycle failed", "error", err)
		return
	}
	s.logger.Info("Scheduled cycle finished",
		"run_id", run.ID,
		"state", string(run.State),
		"new_articles", run.TotalNew())
}

// trendingLoop periodically recomputes trending topic scores.
func (s *Scheduler) trendingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.TrendingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.trending.RecomputeTrendingTopics(s.ctx, s.cfg.TrendingWindow); err != nil {
				s.logger.Error("Failed to recompute trending topics", "error", err)
			}
		}
	}
}
