package client

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	fallbackMessage       = "Request failed"
	invalidPayloadMessage = "Invalid response payload"
)

// APIError is returned for every failed call: non-2xx responses, malformed
// success bodies, and transport failures (StatusCode 0).
type APIError struct {
	StatusCode int
	Message    string
	// Payload is the parsed response body, if any.
	Payload any
	Err     error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.StatusCode)
	}
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("api request failed (%d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports a 401 response.
func (e *APIError) IsUnauthorized() bool { return e != nil && e.StatusCode == http.StatusUnauthorized }

// IsForbidden reports a 403 response. Callers usually degrade to a reduced
// dataset instead of failing.
func (e *APIError) IsForbidden() bool { return e != nil && e.StatusCode == http.StatusForbidden }

// IsClientError reports a 4xx response.
func (e *APIError) IsClientError() bool {
	return e != nil && e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError
}

// IsServerError reports a 5xx response.
func (e *APIError) IsServerError() bool {
	return e != nil && e.StatusCode >= http.StatusInternalServerError
}

// IsNetworkError reports a failure before any HTTP response was received.
func (e *APIError) IsNetworkError() bool { return e != nil && e.StatusCode == 0 }

// AsAPIError returns err as *APIError. Errors of any other type are wrapped
// with status 500.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{StatusCode: http.StatusInternalServerError, Message: err.Error(), Err: err}
}

// IsForbidden reports whether err is a 403 APIError.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsForbidden()
}

func requestFailed(cause error) *APIError {
	return &APIError{Message: fmt.Sprintf("%s: %v", fallbackMessage, cause), Err: cause}
}
