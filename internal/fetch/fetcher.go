// Package fetch retrieves raw source content over HTTP with per-source rate
// limiting and retry with exponential backoff.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonesrussell/naijapulse/internal/domain"
	"github.com/jonesrussell/naijapulse/internal/logger"
)

// maxResponseBodyBytes limits the size of fetched responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// defaultUserAgent is sent when no user agent is configured.
const defaultUserAgent = "naijapulse/1.0 (+https://github.com/jonesrussell/naijapulse)"

// RateLimiter gates outbound requests per source.
type RateLimiter interface {
	Wait(ctx context.Context, sourceID int64, interval time.Duration) error
}

// Fetcher retrieves raw content for a source, respecting its rate limit and
// retry policy.
type Fetcher struct {
	limiter   RateLimiter
	client    *http.Client
	userAgent string
	log       logger.Interface
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) { f.client = client }
}

// WithUserAgent sets the User-Agent header sent on requests.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// New creates a Fetcher.
func New(limiter RateLimiter, log logger.Interface, opts ...Option) *Fetcher {
	f := &Fetcher{
		limiter:   limiter,
		client:    &http.Client{},
		userAgent: defaultUserAgent,
		log:       log.WithComponent("fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the given URL for a source. Transient failures (timeouts,
// connection errors, 429, 5xx) are retried up to the source's max retries with
// exponential backoff and jitter; other failures return immediately. On
// terminal failure the returned error is a *Error carrying the classification.
func (f *Fetcher) Fetch(ctx context.Context, src *domain.Source, url string) ([]byte, error) {
	cfg := src.Fetch.Normalize()
	backoff := Backoff{Base: cfg.BackoffBase, Max: cfg.BackoffMax}

	var (
		lastErr    error
		lastStatus int
	)

	maxAttempts := *cfg.MaxRetries + 1
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if waitErr := f.limiter.Wait(ctx, src.ID, cfg.RateLimit); waitErr != nil {
			return nil, &Error{Kind: KindTransientExhausted, URL: url, Attempts: attempt, Cause: waitErr}
		}

		body, statusCode, attemptErr := f.attempt(ctx, url, cfg.RequestTimeout)
		if attemptErr == nil && statusCode == http.StatusOK {
			return body, nil
		}

		lastStatus = statusCode

		switch {
		case errors.Is(attemptErr, errBadRequest):
			return nil, &Error{Kind: KindPermanent, URL: url, Attempts: attempt, Cause: attemptErr}
		case attemptErr != nil:
			lastErr = attemptErr
			if !timeoutError(attemptErr) && ctx.Err() != nil {
				// Cancelled from above: stop without burning retries.
				return nil, &Error{Kind: KindTransientExhausted, URL: url, Attempts: attempt, Cause: ctx.Err()}
			}
		case transientStatus(statusCode):
			lastErr = fmt.Errorf("HTTP %d", statusCode)
		default:
			// Non-retryable status (4xx other than 429, or unexpected).
			return nil, &Error{
				Kind:       KindPermanent,
				URL:        url,
				StatusCode: statusCode,
				Attempts:   attempt,
				Cause:      fmt.Errorf("HTTP %d", statusCode),
			}
		}

		if attempt == maxAttempts {
			break
		}

		delay := backoff.Delay(attempt)
		f.log.Debug("retrying fetch",
			"url", url,
			"attempt", attempt,
			"delay", delay,
			"error", lastErr.Error(),
		)

		select {
		case <-ctx.Done():
			return nil, &Error{Kind: KindTransientExhausted, URL: url, Attempts: attempt, Cause: ctx.Err()}
		case <-time.After(delay):
		}
	}

	kind := KindTransientExhausted
	if timeoutError(lastErr) {
		kind = KindTimeout
	}

	return nil, &Error{
		Kind:       kind,
		URL:        url,
		StatusCode: lastStatus,
		Attempts:   maxAttempts,
		Cause:      lastErr,
	}
}

// attempt performs a single HTTP GET with the configured per-attempt timeout.
func (f *Fetcher) attempt(ctx context.Context, url string, timeout time.Duration) ([]byte, int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, reqErr := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, http.NoBody)
	if reqErr != nil {
		return nil, 0, fmt.Errorf("create request: %w: %w", errBadRequest, reqErr)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, doErr := f.client.Do(req)
	if doErr != nil {
		return nil, 0, fmt.Errorf("http fetch: %w", doErr)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxResponseBodyBytes)
	body, readErr := io.ReadAll(limited)
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", readErr)
	}

	return body, resp.StatusCode, nil
}
