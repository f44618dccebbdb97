package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Error represents an HTTP or transport error with observability-friendly fields.
type Error struct {
	Method string
	URL    string

	// StatusCode is the HTTP status code. It is 0 when the request failed before receiving a response.
	StatusCode int

	// RequestID is extracted from the configured RequestID header (see RequestIDConfig).
	RequestID string

	// RetryAfter is parsed from Retry-After when present.
	RetryAfter time.Duration

	// RawBody is a truncated copy of the response body (only for status >= 400).
	// The conversion service puts its human readable reason here.
	RawBody []byte

	// Attempts is how many times the request was sent.
	Attempts int

	// Cause is the underlying error: a transport failure, a context error or the status text.
	Cause error

	// Retryable indicates whether the error is likely safe to retry (policy dependent).
	Retryable bool
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if m := strings.TrimSpace(e.Method); m != "" {
		b.WriteString(strings.ToUpper(m) + " ")
	}
	if u := strings.TrimSpace(e.URL); u != "" {
		b.WriteString(u + ": ")
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "http %d", e.StatusCode)
	} else {
		b.WriteString("request failed")
	}
	if e.Attempts > 1 {
		fmt.Fprintf(&b, " after %d attempts", e.Attempts)
	}
	if e.RequestID != "" {
		b.WriteString(" request_id=" + e.RequestID)
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Message returns the trimmed response body, falling back to the status text
// when the body is empty.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	if m := strings.TrimSpace(string(e.RawBody)); m != "" {
		return m
	}
	if e.StatusCode != 0 {
		return http.StatusText(e.StatusCode)
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return ""
}

func AsError(err error) (*Error, bool) {
	var he *Error
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

func IsRetryable(err error) bool {
	he, ok := AsError(err)
	return ok && he.Retryable
}
