package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// RateLimiter throttles outgoing requests; *rate.Limiter satisfies it.
// Wait blocks until a token is available or ctx is done.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// BeforeHook runs before every attempt; an error aborts the request.
type BeforeHook func(req *http.Request, attempt int) error

// AfterHook runs after every attempt, including failed ones.
type AfterHook func(req *http.Request, resp *http.Response, err error, dur time.Duration, attempt int)

type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to an http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Logging records each round trip at debug level. Bodies are not logged.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			attrs := []any{
				"method", req.Method,
				"url", req.URL.Redacted(),
				"request_id", req.Header.Get(DefaultRequestIDHeader),
				"duration", time.Since(start),
			}
			if err != nil {
				logger.DebugContext(req.Context(), "http round trip failed", append(attrs, "err", err)...)
				return resp, err
			}
			logger.DebugContext(req.Context(), "http round trip", append(attrs, "status", resp.StatusCode)...)
			return resp, nil
		})
	}
}

// chain applies mws so that mws[0] is the outermost.
func chain(rt http.RoundTripper, mws []Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		rt = mws[i](rt)
	}
	return rt
}
