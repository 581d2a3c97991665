package store

import (
	"context"
	"time"

	"github.com/jonesrussell/naijapulse/internal/domain"
)

// InsertResult reports what an insert-if-absent attempt did.
type InsertResult string

const (
	// Inserted means a new article row was created.
	Inserted InsertResult = "inserted"
	// Duplicate means the article already existed; nothing was written.
	Duplicate InsertResult = "duplicate"
)

// articleColumns lists the columns selected for article reads.
const articleColumns = `id, source_id, url, title, body, author, category,
	published_at, word_count, reading_time, sentiment_score, sentiment_label,
	topics, first_seen_at, updated_at`

// InsertArticleIfAbsent inserts the article unless one with the same
// (source_id, url) already exists. The unique constraint is the correctness
// backstop: races between concurrent runs resolve here, and a duplicate is
// an expected outcome, never an error.
func (s *Store) InsertArticleIfAbsent(ctx context.Context, article *domain.Article) (InsertResult, error) {
	query := `
		INSERT INTO articles (
			source_id, url, title, body, author, category,
			published_at, word_count, reading_time, topics
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (source_id, url) DO NOTHING
		RETURNING id
	`

	topics := article.Topics
	if topics == nil {
		topics = domain.StringList{}
	}

	var id int64
	err := s.db.QueryRowxContext(
		ctx, query,
		article.SourceID, article.URL, article.Title, article.Body,
		article.Author, article.Category, article.PublishedAt,
		article.WordCount, article.ReadingTime, topics,
	).Scan(&id)

	if err == nil {
		article.ID = id
		return Inserted, nil
	}

	if isNoRows(err) {
		// ON CONFLICT DO NOTHING returns no row: the article already exists.
		return Duplicate, nil
	}
	if isUniqueViolation(err) {
		return Duplicate, nil
	}

	return "", classify("insert article", err)
}

// UpdateAnalysis fills in the analysis fields of an existing article.
// Articles are otherwise immutable once persisted.
func (s *Store) UpdateAnalysis(
	ctx context.Context,
	sourceID int64,
	url string,
	sentiment float64,
	label string,
	topics []string,
) error {
	query := `
		UPDATE articles
		SET sentiment_score = $1, sentiment_label = $2, topics = $3, updated_at = NOW()
		WHERE source_id = $4 AND url = $5
	`

	if _, err := s.db.ExecContext(ctx, query, sentiment, label, domain.StringList(topics), sourceID, url); err != nil {
		return classify("update analysis", err)
	}
	return nil
}

// ListUnanalyzed returns articles still waiting for analysis, oldest first.
// Used by the analyzer backfill pass after the model recovers.
func (s *Store) ListUnanalyzed(ctx context.Context, limit int) ([]domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE sentiment_score IS NULL
		ORDER BY first_seen_at ASC
		LIMIT $1
	`

	var articles []domain.Article
	if err := s.db.SelectContext(ctx, &articles, query, limit); err != nil {
		return nil, classify("list unanalyzed", err)
	}
	return articles, nil
}

// ListLatest returns the most recently published articles, optionally
// filtered by source. Read-side pass-through for the API layer.
func (s *Store) ListLatest(ctx context.Context, sourceID int64, limit int) ([]domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE ($1 = 0 OR source_id = $1)
		ORDER BY published_at DESC
		LIMIT $2
	`

	var articles []domain.Article
	if err := s.db.SelectContext(ctx, &articles, query, sourceID, limit); err != nil {
		return nil, classify("list latest", err)
	}
	return articles, nil
}

// CountSince returns the number of articles first seen after the cutoff.
func (s *Store) CountSince(ctx context.Context, cutoff time.Time) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM articles WHERE first_seen_at >= $1`, cutoff); err != nil {
		return 0, classify("count articles", err)
	}
	return count, nil
}
