// Package errors provides error types for the ragchat backend client.
package errors

import (
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for common cases
var (
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
	ErrNoBody      = errors.New("response has no readable body")
)

// APIError represents a backend request failure
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("backend error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("backend error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// StreamError represents a connection drop while reading a streamed reply.
// Partial holds the text received before the stream died.
type StreamError struct {
	Partial string
	Err     error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream interrupted after %d bytes: %v", len(e.Partial), e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// GetHTTPStatus extracts the HTTP status code from an error chain.
// Returns 0 when the error carries no status.
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNetworkError reports whether the error is a transport-level failure
// rather than a backend-reported one.
func IsNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// IsStreamError reports whether the error is a mid-stream connection drop.
func IsStreamError(err error) bool {
	var streamErr *StreamError
	return errors.As(err, &streamErr)
}
