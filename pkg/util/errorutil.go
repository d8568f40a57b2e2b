package util

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports required fields that are missing for the
// requested operation. It is always raised before any network call.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required parameters: " + strings.Join(e.Missing, ", ")
}

// NewValidationError constructs a ValidationError for the given field names.
func NewValidationError(missing ...string) error {
	return &ValidationError{Missing: missing}
}

// APIError carries a remote status >= 400 together with the message the
// remote service supplied. It is fatal to the invocation; nothing retries it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed: %s (status %d)", e.Message, e.StatusCode)
}

// NewAPIError constructs an APIError.
func NewAPIError(statusCode int, message string) error {
	return &APIError{StatusCode: statusCode, Message: message}
}

// MalformedResponseError signals a response body that could not be parsed
// as JSON.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse JSON response: %v", e.Err)
	}
	return "failed to parse JSON response"
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// NewMalformedResponseError wraps a JSON decode failure.
func NewMalformedResponseError(err error) error {
	return &MalformedResponseError{Err: err}
}

// StatusCode extracts the remote status from an error chain, or 0 when the
// failure happened before a response was received.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
