package parse_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jonesrussell/naijapulse/internal/domain"
	"github.com/jonesrussell/naijapulse/internal/parse"
)

var testSelectors = domain.Selectors{
	ArticleList: "div.post-listing article.post",
	TitleLink:   "h2.entry-title a",
	Body:        "div.entry-content p",
	Date:        "time.entry-date",
	Author:      "span.author-name",
	Category:    "span.category-name",
}

const listingPage = `
<html><body>
<div class="post-listing">
  <article class="post">
    <h2 class="entry-title"><a href="https://example.com/news/cbn-rates">CBN holds rates</a></h2>
  </article>
  <article class="post">
    <h2 class="entry-title"><a href="/news/ngx-rally">NGX rally continues</a></h2>
  </article>
  <article class="post">
    <h2 class="entry-title"><span>No link here</span></h2>
  </article>
  <article class="post">
    <h2 class="entry-title"><a href="https://example.com/news/cbn-rates">CBN holds rates (dup)</a></h2>
  </article>
</div>
</body></html>`

func TestListing(t *testing.T) {
	t.Parallel()

	urls, err := parse.Listing(testSelectors, "https://example.com/category/banking/", []byte(listingPage))
	if err != nil {
		t.Fatalf("Listing() error = %v", err)
	}

	want := []string{
		"https://example.com/news/cbn-rates",
		"https://example.com/news/ngx-rally",
	}
	if len(urls) != len(want) {
		t.Fatalf("Listing() returned %d urls, want %d: %v", len(urls), len(want), urls)
	}
	for i, u := range want {
		if urls[i] != u {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], u)
		}
	}
}

func TestListing_MissingContainer(t *testing.T) {
	t.Parallel()

	_, err := parse.Listing(testSelectors, "https://example.com/category/banking/", []byte("<html><body><p>nothing</p></body></html>"))
	if err == nil {
		t.Fatal("Listing() on empty page returned nil error")
	}

	var parseErr *parse.Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %T, want *parse.Error", err)
	}
	if parseErr.Kind != parse.KindMissingRequiredField {
		t.Errorf("Kind = %q, want %q", parseErr.Kind, parse.KindMissingRequiredField)
	}
}

const articlePage = `
<html><body>
<article>
  <h2 class="entry-title"><a href="/news/cbn-rates">CBN holds rates at 27.5%</a></h2>
  <time class="entry-date" datetime="2026-08-12T09:30:00Z">August 12, 2026</time>
  <span class="author-name">Ada Obi</span>
  <span class="category-name">Banking</span>
  <div class="entry-content">
    <p>The Central Bank of Nigeria held its benchmark rate.</p>
    <p>Analysts expected the decision.</p>
    <p></p>
  </div>
</article>
</body></html>`

func TestArticle(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 13, 0, 0, 0, 0, time.UTC)

	candidate, err := parse.Article(testSelectors, "https://example.com/news/cbn-rates", []byte(articlePage), now)
	if err != nil {
		t.Fatalf("Article() error = %v", err)
	}

	if candidate.Title != "CBN holds rates at 27.5%" {
		t.Errorf("Title = %q", candidate.Title)
	}
	if candidate.Author != "Ada Obi" {
		t.Errorf("Author = %q", candidate.Author)
	}
	if candidate.Category != "Banking" {
		t.Errorf("Category = %q", candidate.Category)
	}
	wantBody := "The Central Bank of Nigeria held its benchmark rate. Analysts expected the decision."
	if candidate.Body != wantBody {
		t.Errorf("Body = %q, want %q", candidate.Body, wantBody)
	}

	wantTime := time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC)
	if !candidate.PublishedAt.Equal(wantTime) {
		t.Errorf("PublishedAt = %v, want %v", candidate.PublishedAt, wantTime)
	}
}

func TestArticle_MissingTitle(t *testing.T) {
	t.Parallel()

	page := `<html><body><div class="entry-content"><p>body only</p></div></body></html>`

	_, err := parse.Article(testSelectors, "https://example.com/x", []byte(page), time.Now())

	var parseErr *parse.Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %T, want *parse.Error", err)
	}
	if parseErr.Kind != parse.KindMissingRequiredField {
		t.Errorf("Kind = %q, want %q", parseErr.Kind, parse.KindMissingRequiredField)
	}
	if parseErr.Field != "title" {
		t.Errorf("Field = %q, want title", parseErr.Field)
	}
}

func TestArticle_UnparseableDateFallsBack(t *testing.T) {
	t.Parallel()

	page := `
<html><body>
  <h2 class="entry-title"><a href="#">Title</a></h2>
  <time class="entry-date" datetime="not-a-date">sometime</time>
  <div class="entry-content"><p>Body text.</p></div>
</body></html>`

	now := time.Date(2026, 8, 13, 12, 0, 0, 0, time.UTC)

	candidate, err := parse.Article(testSelectors, "https://example.com/x", []byte(page), now)
	if err != nil {
		t.Fatalf("Article() error = %v", err)
	}
	if !candidate.PublishedAt.Equal(now) {
		t.Errorf("PublishedAt = %v, want fallback %v", candidate.PublishedAt, now)
	}
}

func TestCandidate_DerivedFields(t *testing.T) {
	t.Parallel()

	c := domain.Candidate{Body: "one two three four five"}
	if got := c.WordCount(); got != 5 {
		t.Errorf("WordCount() = %d, want 5", got)
	}
	if got := c.ReadingTime(); got != 1 {
		t.Errorf("ReadingTime() = %d, want 1 (minimum)", got)
	}
}
