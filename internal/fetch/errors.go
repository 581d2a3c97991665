package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies terminal fetch failures.
type ErrorKind string

const (
	// KindTransientExhausted means transient failures used up every retry.
	KindTransientExhausted ErrorKind = "transient_exhausted"
	// KindPermanent means the failure is not worth retrying.
	KindPermanent ErrorKind = "permanent"
	// KindTimeout means retries were exhausted and the last attempt timed out.
	KindTimeout ErrorKind = "timeout"
)

// Error represents a classified fetch failure after all retries.
type Error struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Attempts   int
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: HTTP %d for %s after %d attempts", e.Kind, e.StatusCode, e.URL, e.Attempts)
	}
	return fmt.Sprintf("fetch %s: %s for %s after %d attempts", e.Kind, e.Cause, e.URL, e.Attempts)
}

func (e *Error) Unwrap() error { return e.Cause }

// errBadRequest marks request construction failures, which are never retried.
var errBadRequest = errors.New("bad request")

// HTTP status code boundaries for classification.
const (
	statusTooManyRequests = 429
	statusBadRequest      = 400
	statusServerErrorLow  = 500
	statusServerErrorHigh = 599
)

// transientStatus reports whether an HTTP status should be retried.
// 429 and 5xx are transient; other 4xx are permanent.
func transientStatus(statusCode int) bool {
	if statusCode == statusTooManyRequests {
		return true
	}
	return statusCode >= statusServerErrorLow && statusCode <= statusServerErrorHigh
}

// timeoutError reports whether a transport error is a timeout.
func timeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
