package selectpdf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lgc202/selectpdf-go/httpx"
)

type ErrorKind string

const (
	// ErrKindValidation is returned before any network call when an argument is rejected locally.
	ErrKindValidation ErrorKind = "validation"
	ErrKindTransport  ErrorKind = "transport"
	ErrKindIO         ErrorKind = "io"
	// ErrKindAPI means the service answered with a status other than 200 or 202.
	ErrKindAPI      ErrorKind = "api"
	ErrKindTimeout  ErrorKind = "timeout"
	ErrKindCanceled ErrorKind = "canceled"
)

// Error is the single error type returned by every client in this module.
type Error struct {
	Kind ErrorKind
	Op   string

	StatusCode int
	JobID      string
	Message    string

	// Raw is a truncated copy of the response body for ErrKindAPI.
	Raw []byte

	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("selectpdf")
	if e.Op != "" {
		b.WriteString(" ")
		b.WriteString(e.Op)
	}
	b.WriteString(": ")
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "(%d) %s", e.StatusCode, msg)
	} else {
		b.WriteString(msg)
	}
	if e.JobID != "" {
		b.WriteString(" job_id=")
		b.WriteString(e.JobID)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func isKind(err error, k ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == k
}

func IsValidation(err error) bool { return isKind(err, ErrKindValidation) }
func IsAPI(err error) bool        { return isKind(err, ErrKindAPI) }
func IsTimeout(err error) bool    { return isKind(err, ErrKindTimeout) }
func IsTransport(err error) bool  { return isKind(err, ErrKindTransport) }
func IsCanceled(err error) bool   { return isKind(err, ErrKindCanceled) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if e, ok := AsError(err); ok {
		return e.StatusCode
	}
	return 0
}

func validationError(op, format string, args ...any) *Error {
	return &Error{Kind: ErrKindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

func ioError(op string, err error) *Error {
	return &Error{Kind: ErrKindIO, Op: op, Cause: err}
}

// mapError classifies errors coming out of the transport.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}
	if he, ok := httpx.AsError(err); ok && he.StatusCode != 0 {
		return &Error{
			Kind:       ErrKindAPI,
			Op:         op,
			StatusCode: he.StatusCode,
			Message:    he.Message(),
			Raw:        he.RawBody,
			Cause:      err,
		}
	}
	switch {
	case errors.Is(err, context.Canceled):
		return &Error{Kind: ErrKindCanceled, Op: op, Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: ErrKindTimeout, Op: op, Cause: err}
	}
	return &Error{Kind: ErrKindTransport, Op: op, Cause: err}
}
