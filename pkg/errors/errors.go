// Package errors defines the error types returned by the wallgrab source
// clients. All errors are structs so callers can use errors.As to inspect
// status codes, retry hints, or the parameter that failed validation.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// AuthError indicates missing or rejected credentials. StatusCode is zero
// when the problem was detected before any request was sent (for example an
// NSFW search without an API key).
type AuthError struct {
	// StatusCode is the HTTP status code (if from an HTTP response)
	StatusCode int
	// Message contains the detailed error message
	Message string
	// Body contains the raw response body (if available)
	Body string
	// Err contains the underlying error if available
	Err error
}

func (e *AuthError) Error() string {
	var sb strings.Builder
	sb.WriteString("auth error")
	if e.StatusCode > 0 {
		fmt.Fprintf(&sb, ": status code %d", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&sb, ": %s", e.Message)
	}
	if e.Body != "" {
		fmt.Fprintf(&sb, ", body: %q", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ", err: %v", e.Err)
	}
	return sb.String()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NotFoundError indicates the requested resource does not exist (HTTP 404).
type NotFoundError struct {
	// Resource identifies what was requested, typically the request URL.
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Resource)
}

// RateLimitError indicates the rate limit was exceeded and the configured
// retry budget (if any) is exhausted. RetryAfter is the server's suggested
// wait; zero means the Retry-After header was absent or unparseable.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "rate limit exceeded"
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", msg, e.RetryAfter)
	}
	return msg
}

// ValidationError indicates a malformed request parameter. It is always
// returned before any network call is made.
type ValidationError struct {
	// Field is the name of the parameter that failed validation
	Field string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid parameter")
	if e.Field != "" {
		fmt.Fprintf(&sb, " %q", e.Field)
	}
	if e.Message != "" {
		fmt.Fprintf(&sb, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// APIError represents an upstream error response not covered by a more
// specific type (any status >= 400 other than 401, 404 and 429).
type APIError struct {
	// StatusCode is the HTTP status code
	StatusCode int
	// Message contains the detailed error message
	Message string
	// Body contains the raw response body (if available)
	Body string
}

func (e *APIError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "API request failed with status %d", e.StatusCode)
	if e.Message != "" {
		fmt.Fprintf(&sb, ": %s", e.Message)
	}
	if e.Body != "" {
		fmt.Fprintf(&sb, ", body: %q", e.Body)
	}
	return sb.String()
}
