// Package errors provides custom error types for the bookchat query client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrInvalidResponse = errors.New("invalid response format")
	ErrMissingField    = errors.New("response field missing")
	ErrClientClosed    = errors.New("client is closed")
	ErrEmptyQuery      = errors.New("query cannot be empty")
)

// NetworkError represents a transport failure before any HTTP status was received
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Err: err}
}

// NewNetworkErrorWithEndpoint creates a new NetworkError carrying the endpoint
func NewNetworkErrorWithEndpoint(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// APIError represents a non-2xx reply from the query endpoint
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates a new APIError that keeps part of the reply body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	err := NewAPIError(statusCode, endpoint, message)
	err.Body = body
	return err
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %q: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// NewMissingFieldError creates a ParseError for an absent JSON field
func NewMissingFieldError(path string) *ParseError {
	return &ParseError{
		Message: "field not present in response",
		Path:    path,
		Err:     ErrMissingField,
	}
}

// IsNetworkError reports whether err is, or wraps, a NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTimeoutError reports whether err is, or wraps, a TimeoutError
func IsTimeoutError(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsParseError reports whether err is, or wraps, a ParseError
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsAPIError reports whether err is, or wraps, an APIError
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody returns the reply body kept by an APIError, or ""
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}
