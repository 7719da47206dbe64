package audit

import (
	"errors"
	"fmt"

	"github.com/bataudit/dashboard/internal/platform/upstream"
)

var (
	// ErrQueryFailed matches every failed audit query.
	ErrQueryFailed = errors.New("audit: query failed")
	// ErrDecode matches responses that could not be decoded or validated.
	ErrDecode = upstream.ErrDecode
	// ErrNotFound matches a lookup for an event the service does not know.
	ErrNotFound = errors.New("audit: event not found")
)

// QueryError describes a failed call to the audit service.
type QueryError struct {
	Op  string
	URL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("audit: %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap exposes ErrQueryFailed alongside the underlying cause.
func (e *QueryError) Unwrap() []error {
	return []error{ErrQueryFailed, e.Err}
}
