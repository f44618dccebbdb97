package httpx

import "github.com/google/uuid"

const DefaultRequestIDHeader = "X-Request-ID"

type RequestIDFunc func() string

type RequestIDConfig struct {
	// Header is the header name to carry the request id, e.g. "X-Request-ID".
	// If empty, request id injection is disabled.
	Header string

	// New generates a request id when the header is missing.
	// If nil, DefaultRequestID is used.
	New RequestIDFunc
}

func DefaultRequestIDConfig() RequestIDConfig {
	return RequestIDConfig{
		Header: DefaultRequestIDHeader,
		New:    DefaultRequestID,
	}
}

// DefaultRequestID returns a random (v4) UUID.
func DefaultRequestID() string {
	return uuid.NewString()
}
