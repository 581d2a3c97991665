package store

import (
	"context"
	"time"

	"github.com/jonesrussell/naijapulse/internal/domain"
)

// sourceColumns lists the columns selected for source reads.
const sourceColumns = `id, name, base_url, kind, active, feed_url, categories,
	selectors, fetch_config, last_success_at, health, created_at, updated_at`

// ListSources returns all active sources with normalized fetch config.
func (s *Store) ListSources(ctx context.Context) ([]domain.Source, error) {
	query := `
		SELECT ` + sourceColumns + `
		FROM sources
		WHERE active
		ORDER BY name
	`

	var sources []domain.Source
	if err := s.db.SelectContext(ctx, &sources, query); err != nil {
		return nil, classify("list sources", err)
	}

	for i := range sources {
		sources[i].Fetch = sources[i].Fetch.Normalize()
	}
	return sources, nil
}

// GetSourceByName returns one source by its unique name, active or not.
func (s *Store) GetSourceByName(ctx context.Context, name string) (*domain.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE name = $1`

	var src domain.Source
	if err := s.db.GetContext(ctx, &src, query, name); err != nil {
		return nil, classify("get source", err)
	}

	src.Fetch = src.Fetch.Normalize()
	return &src, nil
}

// UpsertSource inserts a source or updates its configuration by name.
// Health and last-success are owned by the pipeline and left untouched on update.
func (s *Store) UpsertSource(ctx context.Context, src *domain.Source) error {
	query := `
		INSERT INTO sources (name, base_url, kind, active, feed_url, categories, selectors, fetch_config)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO UPDATE SET
			base_url = EXCLUDED.base_url,
			kind = EXCLUDED.kind,
			active = EXCLUDED.active,
			feed_url = EXCLUDED.feed_url,
			categories = EXCLUDED.categories,
			selectors = EXCLUDED.selectors,
			fetch_config = EXCLUDED.fetch_config,
			updated_at = NOW()
	`

	_, err := s.db.ExecContext(
		ctx, query,
		src.Name, src.BaseURL, src.Kind, src.Active, src.FeedURL,
		src.Categories, src.Selectors, src.Fetch,
	)
	if err != nil {
		return classify("upsert source", err)
	}
	return nil
}

// UpdateSourceHealth records a source health transition.
func (s *Store) UpdateSourceHealth(ctx context.Context, sourceID int64, status domain.HealthStatus) error {
	query := `UPDATE sources SET health = $1, updated_at = NOW() WHERE id = $2`

	if _, err := s.db.ExecContext(ctx, query, status, sourceID); err != nil {
		return classify("update source health", err)
	}
	return nil
}

// UpdateSourceLastSuccess records the time of the source's last successful scrape.
func (s *Store) UpdateSourceLastSuccess(ctx context.Context, sourceID int64, at time.Time) error {
	query := `UPDATE sources SET last_success_at = $1, updated_at = NOW() WHERE id = $2`

	if _, err := s.db.ExecContext(ctx, query, at, sourceID); err != nil {
		return classify("update source last success", err)
	}
	return nil
}
