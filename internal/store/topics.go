package store

import (
	"context"
	"time"

	"github.com/jonesrussell/naijapulse/internal/domain"
	"github.com/lib/pq"
)

// UpsertTopics ensures a row exists for every topic name. Existing topics
// are left alone; trending scores are recomputed separately.
func (s *Store) UpsertTopics(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	query := `
		INSERT INTO topics (name)
		SELECT unnest($1::text[])
		ON CONFLICT (name) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, query, pq.Array(names)); err != nil {
		return classify("upsert topics", err)
	}
	return nil
}

// RecomputeTrendingTopics rebuilds every topic's trending score from the
// number of articles inside the recency window that carry it. Topics with no
// recent articles decay to zero.
func (s *Store) RecomputeTrendingTopics(ctx context.Context, window time.Duration) error {
	cutoff := time.Now().UTC().Add(-window)

	query := `
		UPDATE topics t
		SET trending_score = COALESCE((
			SELECT COUNT(*)
			FROM articles a
			WHERE a.first_seen_at >= $1 AND a.topics ? t.name
		), 0),
		updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, cutoff); err != nil {
		return classify("recompute trending topics", err)
	}
	return nil
}

// TrendingTopics returns topics ordered by trending score, highest first.
func (s *Store) TrendingTopics(ctx context.Context, limit int) ([]domain.Topic, error) {
	query := `
		SELECT id, name, trending_score, created_at, updated_at
		FROM topics
		WHERE trending_score > 0
		ORDER BY trending_score DESC, name
		LIMIT $1
	`

	var topics []domain.Topic
	if err := s.db.SelectContext(ctx, &topics, query, limit); err != nil {
		return nil, classify("trending topics", err)
	}
	return topics, nil
}
