package entities

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// QuotaExhaustedError is returned before any enumeration when the remote
// service reports no remaining requests.
type QuotaExhaustedError struct {
	Quota QuotaSnapshot
}

func (e *QuotaExhaustedError) Error() string {
	if e.Quota.ResetAt.IsZero() {
		return fmt.Sprintf("request quota exhausted (limit %d)", e.Quota.Limit)
	}
	return fmt.Sprintf(
		"request quota exhausted (limit %d, resets at %s)",
		e.Quota.Limit, e.Quota.ResetAt.Format(time.RFC3339),
	)
}

// ReferenceResolutionError is returned when a branch cannot be resolved to a
// tree, e.g. the branch does not exist or the repository is empty.
type ReferenceResolutionError struct {
	Repository string
	Branch     string
	Err        error
}

func (e *ReferenceResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to resolve branch %q of %s to a tree", e.Branch, e.Repository)
	}
	return fmt.Sprintf("failed to resolve branch %q of %s to a tree: %v", e.Branch, e.Repository, e.Err)
}

func (e *ReferenceResolutionError) Unwrap() error {
	return e.Err
}

// TransientRequestError is a remote failure expected to succeed on retry:
// network errors and throttling. RetryAfter, when set, is the delay the
// remote service asked for.
type TransientRequestError struct {
	Op         string
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

func (e *TransientRequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: transient failure (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: transient failure: %v", e.Op, e.Err)
}

func (e *TransientRequestError) Unwrap() error {
	return e.Err
}

// PermanentRequestError is a remote failure that retrying cannot fix:
// not found, forbidden, malformed response.
type PermanentRequestError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *PermanentRequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: request failed (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *PermanentRequestError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError is returned for an output format other than json,
// string or buffer.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format %q (expected json, string or buffer)", e.Format)
}

// IsTransient reports whether err carries a TransientRequestError.
func IsTransient(err error) bool {
	var transient *TransientRequestError
	return errors.As(err, &transient)
}

// IsNotFound reports whether err is a permanent failure with a 404 status.
func IsNotFound(err error) bool {
	var permanent *PermanentRequestError
	return errors.As(err, &permanent) && permanent.StatusCode == http.StatusNotFound
}

// NewRequestError classifies a failed HTTP exchange by status code: 408, 429
// and 5xx are transient, everything else is permanent. retryAfter is kept
// only on transient errors.
func NewRequestError(op string, statusCode int, retryAfter time.Duration, err error) error {
	if statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError {
		return &TransientRequestError{Op: op, StatusCode: statusCode, RetryAfter: retryAfter, Err: err}
	}
	return &PermanentRequestError{Op: op, StatusCode: statusCode, Err: err}
}
