package store

import (
	"context"

	"github.com/jonesrussell/naijapulse/internal/domain"
)

// RecordRun persists a scrape run summary. Runs are written once at start
// (running) and upserted at completion, so the same ID updates in place.
func (s *Store) RecordRun(ctx context.Context, run *domain.ScrapeRun) error {
	query := `
		INSERT INTO scrape_runs (id, "trigger", state, started_at, completed_at, outcomes, errors)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			completed_at = EXCLUDED.completed_at,
			outcomes = EXCLUDED.outcomes,
			errors = EXCLUDED.errors
	`

	errs := run.Errors
	if errs == nil {
		errs = domain.StringList{}
	}

	_, err := s.db.ExecContext(
		ctx, query,
		run.ID, run.Trigger, run.State, run.StartedAt, run.CompletedAt,
		run.Outcomes, errs,
	)
	if err != nil {
		return classify("record run", err)
	}
	return nil
}

// ListRuns returns the most recent scrape runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.ScrapeRun, error) {
	query := `
		SELECT id, "trigger", state, started_at, completed_at, outcomes, errors
		FROM scrape_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	var runs []domain.ScrapeRun
	if err := s.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, classify("list runs", err)
	}
	return runs, nil
}
