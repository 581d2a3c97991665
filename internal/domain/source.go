// Package domain provides domain models used across the application.
package domain

import (
	"time"
)

// SourceKind selects the scraper variant used for a source.
type SourceKind string

const (
	// SourceKindHTML scrapes category listing pages and article pages with CSS selectors.
	SourceKindHTML SourceKind = "html"
	// SourceKindRSS reads articles from an RSS or Atom feed.
	SourceKindRSS SourceKind = "rss"
)

// HealthStatus describes the current health of a source.
type HealthStatus string

const (
	// HealthHealthy means the last fetch succeeded.
	HealthHealthy HealthStatus = "healthy"
	// HealthDegraded means the last fetch exhausted its transient retries.
	HealthDegraded HealthStatus = "degraded"
	// HealthDown means the last fetch failed permanently.
	HealthDown HealthStatus = "down"
)

// FetchConfig holds per-source fetch tuning.
type FetchConfig struct {
	// RateLimit is the minimum interval between requests to this source.
	RateLimit time.Duration `json:"rate_limit"`
	// MaxRetries is the maximum number of retries after a transient failure.
	// Nil means unset; an explicit zero disables retries.
	MaxRetries *int `json:"max_retries"`
	// BackoffBase is the delay before the first retry.
	BackoffBase time.Duration `json:"backoff_base"`
	// BackoffMax caps the delay between retries.
	BackoffMax time.Duration `json:"backoff_max"`
	// RequestTimeout bounds a single HTTP attempt.
	RequestTimeout time.Duration `json:"request_timeout"`
}

// Selectors defines the CSS selectors used for HTML content extraction.
// Mirrors the listing-page/article-page split used by the supported publications.
type Selectors struct {
	// ArticleList matches article cards on a category listing page.
	ArticleList string `json:"article_list"`
	// TitleLink matches the title anchor inside an article card and on article pages.
	TitleLink string `json:"title_link"`
	// Body matches content paragraphs on an article page.
	Body string `json:"body"`
	// Date matches the published-time element on an article page.
	Date string `json:"date"`
	// Author matches the author element on an article page.
	Author string `json:"author"`
	// Category matches the category element on an article page.
	Category string `json:"category"`
}

// Source is a configured origin of news content.
type Source struct {
	ID            int64        `db:"id"`
	Name          string       `db:"name"`
	BaseURL       string       `db:"base_url"`
	Kind          SourceKind   `db:"kind"`
	Active        bool         `db:"active"`
	FeedURL       string       `db:"feed_url"`
	Categories    StringList   `db:"categories"`
	Selectors     Selectors    `db:"selectors"`
	Fetch         FetchConfig  `db:"fetch_config"`
	LastSuccessAt *time.Time   `db:"last_success_at"`
	Health        HealthStatus `db:"health"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

// Fetch config defaults applied by Normalize.
const (
	defaultRateLimit      = 2 * time.Second
	defaultMaxRetries     = 3
	defaultBackoffBase    = 500 * time.Millisecond
	defaultBackoffMax     = 30 * time.Second
	defaultRequestTimeout = 15 * time.Second
)

// Normalize fills zero-valued fetch settings with defaults and returns the config.
func (c FetchConfig) Normalize() FetchConfig {
	if c.RateLimit <= 0 {
		c.RateLimit = defaultRateLimit
	}
	if c.MaxRetries == nil || *c.MaxRetries < 0 {
		retries := defaultMaxRetries
		c.MaxRetries = &retries
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = defaultBackoffBase
	}
	if c.BackoffMax < c.BackoffBase {
		c.BackoffMax = defaultBackoffMax
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	return c
}
