package httpx

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// RetryConfig decides which failed attempts are replayed and how long to
// wait in between. Conversions are billed per call, so POST requests are
// replayed only when marked with WithIdempotent.
type RetryConfig struct {
	// MaxAttempts counts the first attempt; 1 or less disables retries.
	MaxAttempts int

	// MaxElapsed caps the time spent across attempts and sleeps. Zero means
	// only the context and Config.Timeout bound the call.
	MaxElapsed time.Duration

	// Methods replayable without an idempotency mark. Empty means GET, HEAD
	// and OPTIONS.
	Methods map[string]bool

	// StatusCodes that trigger a retry. Empty means 408, 429, 500, 502, 503
	// and 504.
	StatusCodes map[int]bool

	// Backoff defaults to DefaultBackoff().
	Backoff Backoff

	// RespectRetryAfter uses Retry-After on 429 and 503 instead of Backoff,
	// capped by MaxRetryAfter when that is set.
	RespectRetryAfter bool
	MaxRetryAfter     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		Methods:           defaultRetryMethods(),
		StatusCodes:       defaultRetryStatusCodes(),
		Backoff:           DefaultBackoff(),
		RespectRetryAfter: true,
		MaxRetryAfter:     30 * time.Second,
	}
}

func defaultRetryMethods() map[string]bool {
	return map[string]bool{
		http.MethodGet:     true,
		http.MethodHead:    true,
		http.MethodOptions: true,
	}
}

func defaultRetryStatusCodes() map[int]bool {
	return map[int]bool{
		http.StatusRequestTimeout:      true,
		http.StatusTooManyRequests:     true,
		http.StatusInternalServerError: true,
		http.StatusBadGateway:          true,
		http.StatusServiceUnavailable:  true,
		http.StatusGatewayTimeout:      true,
	}
}

// Backoff returns the sleep before retry number n (n starts at 1).
type Backoff interface {
	Next(n int) time.Duration
}

// BackoffFunc adapts a function to Backoff.
type BackoffFunc func(n int) time.Duration

func (f BackoffFunc) Next(n int) time.Duration { return f(n) }

// ExponentialBackoff doubles Base per retry up to Max and spreads each sleep
// by +/- Jitter (0..1).
type ExponentialBackoff struct {
	Base   time.Duration
	Max    time.Duration
	Jitter float64
}

func DefaultBackoff() Backoff {
	return ExponentialBackoff{Base: 250 * time.Millisecond, Max: 4 * time.Second, Jitter: 0.2}
}

func (b ExponentialBackoff) Next(n int) time.Duration {
	base, ceil := b.Base, b.Max
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	if ceil < base {
		ceil = base
	}

	d := ceil
	if shift := n - 1; shift < 30 {
		if s := base << max(shift, 0); s > 0 && s < ceil {
			d = s
		}
	}

	j := min(max(b.Jitter, 0), 1)
	if j == 0 {
		return d
	}
	return time.Duration(float64(d) * (1 + (rand.Float64()*2-1)*j))
}

// canRetryRequest reports whether req may be sent again.
func (c RetryConfig) canRetryRequest(req *http.Request) bool {
	if c.MaxAttempts <= 1 || req == nil {
		return false
	}
	if isIdempotent(req.Context()) {
		return true
	}
	methods := c.Methods
	if len(methods) == 0 {
		methods = defaultRetryMethods()
	}
	return methods[strings.ToUpper(strings.TrimSpace(req.Method))]
}

func (c RetryConfig) canRetryStatus(code int) bool {
	codes := c.StatusCodes
	if len(codes) == 0 {
		codes = defaultRetryStatusCodes()
	}
	return codes[code]
}

// delay is the sleep before retry n after resp.
func (c RetryConfig) delay(resp *http.Response, n int) time.Duration {
	d := c.Backoff.Next(n)
	if !c.RespectRetryAfter || resp == nil {
		return d
	}
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return d
	}
	if ra, ok := parseRetryAfter(resp, time.Now()); ok {
		d = ra
		if c.MaxRetryAfter > 0 && d > c.MaxRetryAfter {
			d = c.MaxRetryAfter
		}
	}
	return d
}

// retryableErr reports transport failures worth another attempt: timeouts,
// resets and connections dropped before the response completed.
func retryableErr(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func parseRetryAfter(resp *http.Response, now time.Time) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(t.Sub(now), 0), true
	}
	return 0, false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
