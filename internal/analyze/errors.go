package analyze

import "fmt"

// ErrorKind classifies analyzer failures.
type ErrorKind string

const (
	// KindModelUnavailable means the model service could not produce a result.
	// The article stays persisted unanalyzed and is retried on a later pass.
	KindModelUnavailable ErrorKind = "model_unavailable"
)

// Error represents a classified analyzer failure.
type Error struct {
	Kind  ErrorKind
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("analyze %s: %s", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// unavailable wraps a cause as a model-unavailable error.
func unavailable(cause error) *Error {
	return &Error{Kind: KindModelUnavailable, Cause: cause}
}
