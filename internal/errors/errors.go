// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateMessage indicates a message id was already processed
	// within the dedup window.
	ErrDuplicateMessage = errors.New("duplicate message")

	// ErrMalformedCatalog indicates the remote catalog payload could not be
	// decoded into a list of well-formed product records.
	ErrMalformedCatalog = errors.New("malformed catalog")

	// ErrInvalidPayload indicates a postback payload could not be decoded.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrSuppressed indicates the conversation is waiting for a human admin
	// and bot output is suppressed.
	ErrSuppressed = errors.New("bot output suppressed")

	// ErrRateLimitExceeded indicates a sender exceeded their rate limit.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")
)

// GraphError represents Meta Graph API call failures with context.
type GraphError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *GraphError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("graph api error (endpoint=%s, status=%d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("graph api error (endpoint=%s): %v", e.Endpoint, e.Err)
}

func (e *GraphError) Unwrap() error {
	return e.Err
}

// NewGraphError creates a new Graph API error.
func NewGraphError(endpoint string, statusCode int, err error) *GraphError {
	return &GraphError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Err:        err,
	}
}
