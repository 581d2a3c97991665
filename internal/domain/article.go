package domain

import (
	"strings"
	"time"
)

// wordsPerMinute is the assumed reading speed for reading-time estimates.
const wordsPerMinute = 200

// Candidate is a parsed, not-yet-deduplicated article.
type Candidate struct {
	// URL is the canonical article URL.
	URL string
	// Title of the article.
	Title string
	// Body is the extracted text content.
	Body string
	// Author of the article, empty when unknown.
	Author string
	// Category the article was published under, empty when unknown.
	Category string
	// PublishedAt is the publication timestamp. Falls back to the parse
	// time when the source markup carries no usable date.
	PublishedAt time.Time
}

// WordCount returns the number of whitespace-separated words in the body.
func (c *Candidate) WordCount() int {
	return len(strings.Fields(c.Body))
}

// ReadingTime returns the estimated reading time in minutes, minimum 1.
func (c *Candidate) ReadingTime() int {
	minutes := c.WordCount() / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Article is a persisted news article. Immutable once inserted, except for
// the analysis fields which are filled in by a later analyzer pass.
type Article struct {
	ID             int64      `db:"id"`
	SourceID       int64      `db:"source_id"`
	URL            string     `db:"url"`
	Title          string     `db:"title"`
	Body           string     `db:"body"`
	Author         string     `db:"author"`
	Category       string     `db:"category"`
	PublishedAt    time.Time  `db:"published_at"`
	WordCount      int        `db:"word_count"`
	ReadingTime    int        `db:"reading_time"`
	SentimentScore *float64   `db:"sentiment_score"`
	SentimentLabel *string    `db:"sentiment_label"`
	Topics         StringList `db:"topics"`
	FirstSeenAt    time.Time  `db:"first_seen_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// NewArticle builds an Article from a candidate for the given source.
func NewArticle(sourceID int64, c *Candidate) *Article {
	return &Article{
		SourceID:    sourceID,
		URL:         c.URL,
		Title:       c.Title,
		Body:        c.Body,
		Author:      c.Author,
		Category:    c.Category,
		PublishedAt: c.PublishedAt,
		WordCount:   c.WordCount(),
		ReadingTime: c.ReadingTime(),
	}
}

// Topic is a named subject extracted from articles. TrendingScore is derived
// from the number of recent articles carrying the topic.
type Topic struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	TrendingScore float64   `db:"trending_score"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
