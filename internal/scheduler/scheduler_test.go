package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/naijapulse/internal/domain"
	"github.com/jonesrussell/naijapulse/internal/logger"
	"github.com/jonesrussell/naijapulse/internal/orchestrator"
)

type stubRunner struct {
	calls atomic.Int64
	err   error
}

func (s *stubRunner) Run(_ context.Context, trigger domain.RunTrigger, _ string) (*domain.ScrapeRun, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ScrapeRun{ID: "run-1", Trigger: trigger, State: domain.RunStateCompleted}, nil
}

type stubTrending struct {
	calls atomic.Int64
}

func (s *stubTrending) RecomputeTrendingTopics(_ context.Context, _ time.Duration) error {
	s.calls.Add(1)
	return nil
}

func TestConfigNormalize(t *testing.T) {
	t.Parallel()

	cfg := Config{}.Normalize()
	assert.Equal(t, defaultCronSpec, cfg.CronSpec)
	assert.Equal(t, defaultTrendingEvery, cfg.TrendingEvery)
	assert.Equal(t, defaultTrendingWindow, cfg.TrendingWindow)

	custom := Config{CronSpec: "0 * * * *", TrendingEvery: time.Minute, TrendingWindow: time.Hour}.Normalize()
	assert.Equal(t, "0 * * * *", custom.CronSpec)
	assert.Equal(t, time.Minute, custom.TrendingEvery)
	assert.Equal(t, time.Hour, custom.TrendingWindow)
}

func TestLifecycle(t *testing.T) {
	t.Parallel()

	s := New(&stubRunner{}, &stubTrending{}, logger.NewNoOp(), Config{})
	assert.Equal(t, StateStopped, s.State())

	require.NoError(t, s.Start())
	assert.Equal(t, StateRunning, s.State())

	assert.Error(t, s.Start(), "double start must fail")

	s.Stop()
	assert.Equal(t, StateStopped, s.State())

	// Stopping an already stopped scheduler is a no-op.
	s.Stop()
	assert.Equal(t, StateStopped, s.State())
}

func TestStart_RejectsBadCronSpec(t *testing.T) {
	t.Parallel()

	s := New(&stubRunner{}, &stubTrending{}, logger.NewNoOp(), Config{CronSpec: "not a cron spec"})
	assert.Error(t, s.Start())
}

func TestFire_SkipsOverlappingCycle(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{err: orchestrator.ErrCycleInProgress}
	s := New(runner, &stubTrending{}, logger.NewNoOp(), Config{})

	s.fire()

	assert.Equal(t, int64(1), runner.calls.Load())
}

func TestFire_RunsCycle(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{}
	s := New(runner, &stubTrending{}, logger.NewNoOp(), Config{})

	s.fire()
	s.fire()

	assert.Equal(t, int64(2), runner.calls.Load())
}

func TestTrendingLoop(t *testing.T) {
	t.Parallel()

	trending := &stubTrending{}
	s := New(&stubRunner{}, trending, logger.NewNoOp(), Config{TrendingEvery: 5 * time.Millisecond})

	require.NoError(t, s.Start())

	require.Eventually(t, func() bool {
		return trending.calls.Load() > 0
	}, time.Second, time.Millisecond)

	s.Stop()
}
