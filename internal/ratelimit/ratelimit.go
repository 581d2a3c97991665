// Package ratelimit provides a per-source timing gate for outbound requests.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PerSource throttles outbound requests so that at most one request per
// configured interval is made to each source. Callers for different sources
// never block each other; concurrent callers for the same source serialize.
type PerSource struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
}

// New creates an empty per-source limiter.
func New() *PerSource {
	return &PerSource{
		limiters: make(map[int64]*rate.Limiter),
	}
}

// Wait blocks until the interval since the source's last request has elapsed,
// then records the new request slot. The interval passed on the first call for
// a source wins; later intervals update the limiter in place.
// Returns ctx.Err() if the context is cancelled while waiting.
func (p *PerSource) Wait(ctx context.Context, sourceID int64, interval time.Duration) error {
	return p.limiter(sourceID, interval).Wait(ctx)
}

// limiter returns the limiter for a source, creating it on first use.
func (p *PerSource) limiter(sourceID int64, interval time.Duration) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	l, ok := p.limiters[sourceID]
	if !ok {
		l = rate.NewLimiter(limit, 1)
		p.limiters[sourceID] = l
		return l
	}

	if l.Limit() != limit {
		l.SetLimit(limit)
	}
	return l
}
