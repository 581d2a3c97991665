package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
)

// ErrorKind classifies storage failures.
type ErrorKind string

const (
	// KindUnavailable means the database could not be reached or the
	// statement could not complete. Fatal when it hits run-summary persistence.
	KindUnavailable ErrorKind = "unavailable"
	// KindConstraintViolation means an integrity constraint rejected the
	// write. Unique-constraint hits on article insert are expected duplicates
	// and are never surfaced as errors.
	KindConstraintViolation ErrorKind = "constraint_violation"
)

// Error represents a classified storage failure.
type Error struct {
	Kind  ErrorKind
	Op    string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %s: %s", e.Op, e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// PostgreSQL error classes. Class 23 is integrity constraint violation;
// 23505 is the unique-violation code used by the article dedupe backstop.
const (
	pqUniqueViolation = pq.ErrorCode("23505")
	pqIntegrityClass  = pq.ErrorClass("23")
)

// classify wraps a database error into a *Error for the given operation.
func classify(op string, err error) *Error {
	return &Error{Kind: kindOf(err), Op: op, Cause: err}
}

// kindOf maps a raw database error onto the storage error taxonomy.
func kindOf(err error) ErrorKind {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code.Class() == pqIntegrityClass {
			return KindConstraintViolation
		}
		return KindUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return KindUnavailable
	}

	return KindUnavailable
}

// isNoRows reports whether err is the empty-result sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation reports whether err is the unique-constraint rejection.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
