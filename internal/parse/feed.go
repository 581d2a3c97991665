package parse

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/jonesrussell/naijapulse/internal/domain"
)

// httpPrefix is the scheme prefix used to decide if a GUID is a usable URL.
const httpPrefix = "http"

// Feed parses an RSS or Atom feed body into candidates. Items without a
// usable link are silently skipped; an empty feed returns a non-nil empty
// slice. Items without a parsed published time fall back to now.
func Feed(feedURL string, raw []byte, now time.Time) ([]domain.Candidate, error) {
	parser := gofeed.NewParser()

	parsed, err := parser.ParseString(string(raw))
	if err != nil {
		return nil, malformed(feedURL, err)
	}

	candidates := make([]domain.Candidate, 0, len(parsed.Items))

	for _, item := range parsed.Items {
		link := itemLink(item)
		if link == "" || item.Title == "" {
			continue
		}

		candidate := domain.Candidate{
			URL:         link,
			Title:       strings.TrimSpace(item.Title),
			Body:        itemBody(item),
			Author:      itemAuthor(item),
			PublishedAt: now,
		}
		if len(item.Categories) > 0 {
			candidate.Category = item.Categories[0]
		}
		if item.PublishedParsed != nil {
			candidate.PublishedAt = *item.PublishedParsed
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// itemLink returns the best available URL from a feed item, preferring the
// explicit link and falling back to an HTTP-looking GUID.
func itemLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, httpPrefix) {
		return item.GUID
	}
	return ""
}

// itemBody returns the richest text content available on a feed item.
func itemBody(item *gofeed.Item) string {
	if item.Content != "" {
		return strings.TrimSpace(item.Content)
	}
	return strings.TrimSpace(item.Description)
}

// itemAuthor returns the first author name on a feed item, if any.
func itemAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		return strings.TrimSpace(item.Authors[0].Name)
	}
	return ""
}
