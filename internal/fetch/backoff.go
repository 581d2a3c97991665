package fetch

import (
	"math/rand"
	"time"
)

// Backoff computes retry delays: exponential growth from Base, jitter of up
// to one Base, capped at Max. Delays are non-decreasing across attempts.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

// maxShift bounds the exponent to keep the left shift from overflowing.
const maxShift = 32

// Delay returns the wait before retry number attempt (1-based).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	shift := attempt - 1
	if shift > maxShift {
		shift = maxShift
	}

	raw := b.Base << shift
	if raw <= 0 || raw > b.Max {
		return b.Max
	}

	jittered := raw + time.Duration(rand.Int63n(int64(b.Base)))
	if jittered > b.Max {
		return b.Max
	}
	return jittered
}
