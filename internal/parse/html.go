// Package parse turns raw source content into structured article candidates.
// All functions are pure: no network or storage access.
package parse

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"github.com/jonesrussell/naijapulse/internal/domain"
)

// Listing extracts article URLs from a category listing page using the
// source's selectors. Relative links are resolved against pageURL. Cards
// without a usable link are skipped.
func Listing(sel domain.Selectors, pageURL string, raw []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, malformed(pageURL, err)
	}

	cards := doc.Find(sel.ArticleList)
	if cards.Length() == 0 {
		return nil, missingField(pageURL, "article_list")
	}

	base, baseErr := url.Parse(pageURL)
	if baseErr != nil {
		return nil, malformed(pageURL, baseErr)
	}

	urls := make([]string, 0, cards.Length())
	seen := make(map[string]struct{}, cards.Length())

	cards.Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Find(sel.TitleLink).First().Attr("href")
		if !ok || href == "" {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		urls = append(urls, resolved)
	})

	return urls, nil
}

// Article extracts a single candidate from an article page. Title and body
// are required; author, category, and published time are best effort. A page
// without a usable published time falls back to now.
func Article(sel domain.Selectors, articleURL string, raw []byte, now time.Time) (*domain.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, malformed(articleURL, err)
	}

	title := strings.TrimSpace(doc.Find(sel.TitleLink).First().Text())
	if title == "" {
		return nil, missingField(articleURL, "title")
	}

	var paragraphs []string
	doc.Find(sel.Body).Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return nil, missingField(articleURL, "body")
	}

	candidate := &domain.Candidate{
		URL:         articleURL,
		Title:       title,
		Body:        strings.Join(paragraphs, " "),
		Author:      strings.TrimSpace(doc.Find(sel.Author).First().Text()),
		Category:    strings.TrimSpace(doc.Find(sel.Category).First().Text()),
		PublishedAt: publishedTime(doc, sel.Date, now),
	}

	return candidate, nil
}

// publishedTime reads the article's published time from the date selector,
// preferring a datetime attribute over element text.
func publishedTime(doc *goquery.Document, dateSelector string, now time.Time) time.Time {
	if dateSelector == "" {
		return now
	}

	elem := doc.Find(dateSelector).First()

	if raw, ok := elem.Attr("datetime"); ok {
		if parsed, err := dateparse.ParseAny(raw); err == nil {
			return parsed
		}
	}

	if raw := strings.TrimSpace(elem.Text()); raw != "" {
		if parsed, err := dateparse.ParseAny(raw); err == nil {
			return parsed
		}
	}

	return now
}

// resolveURL resolves href against base, returning "" for unusable links.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	resolved.Fragment = ""
	return resolved.String()
}
