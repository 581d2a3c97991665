// Package analyze provides the client for the external sentiment and topic
// classification service. The model itself is a black box behind an HTTP API.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"
)

// Sentiment score bounds.
const (
	scoreMin = -1.0
	scoreMax = 1.0
)

// maxAnalyzeBodyBytes limits the size of text sent to the analyzer.
const maxAnalyzeBodyBytes = 64 * 1024

// defaultTimeout bounds an analyzer request when none is configured.
const defaultTimeout = 10 * time.Second

// Result is the analyzer's verdict on one article body.
type Result struct {
	// Sentiment is in [-1, 1]: negative to positive.
	Sentiment float64 `json:"sentiment"`
	// Label is the coarse sentiment class (e.g. "positive", "neutral", "negative").
	Label string `json:"label"`
	// Topics are the subjects the model assigned.
	Topics []string `json:"topics"`
}

// Analyzer assigns sentiment and topics to article text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Result, error)
}

// Client talks to the analyzer service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an analyzer client for the given service base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// analyzeRequest is the wire format of an analysis request.
type analyzeRequest struct {
	Text string `json:"text"`
}

// Analyze sends the text to the model service. Any transport failure or
// non-OK status is reported as *Error{Kind: model_unavailable}: callers
// persist the article unanalyzed and retry on a later pass.
func (c *Client) Analyze(ctx context.Context, text string) (*Result, error) {
	text = truncate(text, maxAnalyzeBodyBytes)

	payload, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode analyze request: %w", err)
	}

	url := c.baseURL + "/analyze"
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if reqErr != nil {
		return nil, fmt.Errorf("create analyze request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, unavailable(doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, unavailable(fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	var result Result
	if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxAnalyzeBodyBytes)).Decode(&result); decodeErr != nil {
		return nil, unavailable(fmt.Errorf("decode analyze response: %w", decodeErr))
	}

	return clamp(&result), nil
}

// truncate cuts text to at most max bytes without splitting a UTF-8 rune.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// clamp forces the sentiment score into [-1, 1].
func clamp(r *Result) *Result {
	if r.Sentiment < scoreMin {
		r.Sentiment = scoreMin
	}
	if r.Sentiment > scoreMax {
		r.Sentiment = scoreMax
	}
	return r
}
