package parse

import "fmt"

// ErrorKind classifies extraction failures.
type ErrorKind string

const (
	// KindMalformedMarkup means the raw content could not be parsed at all.
	KindMalformedMarkup ErrorKind = "malformed_markup"
	// KindMissingRequiredField means the expected structure was absent.
	KindMissingRequiredField ErrorKind = "missing_required_field"
)

// Error represents a classified extraction failure. It fails the source's
// batch only, never the whole cycle.
type Error struct {
	Kind  ErrorKind
	Field string
	URL   string
	Cause error
}

func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("parse %s: %s missing for %s", e.Kind, e.Field, e.URL)
	case e.Cause != nil:
		return fmt.Sprintf("parse %s: %s for %s", e.Kind, e.Cause, e.URL)
	default:
		return fmt.Sprintf("parse %s for %s", e.Kind, e.URL)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// malformed builds a malformed-markup error.
func malformed(url string, cause error) *Error {
	return &Error{Kind: KindMalformedMarkup, URL: url, Cause: cause}
}

// missingField builds a missing-required-field error.
func missingField(url, field string) *Error {
	return &Error{Kind: KindMissingRequiredField, URL: url, Field: field}
}
