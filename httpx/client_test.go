package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestResolveURL_BaseURLWithPathPrefix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	c, err := New(WithBaseURL(srv.URL + "/api2"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, p := range []string{"/convert/", "convert/"} {
		req, err := c.NewRequest(context.Background(), http.MethodPost, p)
		if err != nil {
			t.Fatalf("NewRequest(%q): %v", p, err)
		}
		resp, err := c.Do(req)
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		_ = resp.Body.Close()

		if gotPath != "/api2/convert/" {
			t.Fatalf("path %q resolved to %q", p, gotPath)
		}
	}
}

func TestResolveURL_RelativeWithoutBase(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.NewRequest(context.Background(), http.MethodPost, "/convert/"); err == nil {
		t.Fatalf("expected error for relative path without BaseURL")
	}
}

func TestNewRequest_HeadersAndBody(t *testing.T) {
	var (
		gotCT, gotClient, gotRID string
		gotBody                  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		gotClient = r.Header.Get("selectpdf-api-client")
		gotRID = r.Header.Get("X-Request-ID")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c, err := New(
		WithBaseURL(srv.URL),
		WithDefaultHeader("selectpdf-api-client", "go-test"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, err := c.NewRequest(context.Background(), http.MethodPost, "/convert/",
		WithBodyBytes([]byte("key=k&url=https%3A%2F%2Fexample.com"), "application/x-www-form-urlencoded"),
	)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := c.DoStatus(req)
	if err != nil {
		t.Fatalf("DoStatus: %v", err)
	}
	_ = resp.Body.Close()

	if gotCT != "application/x-www-form-urlencoded" {
		t.Fatalf("content type = %q", gotCT)
	}
	if gotClient != "go-test" {
		t.Fatalf("default header = %q", gotClient)
	}
	if gotRID == "" {
		t.Fatalf("expected generated request id")
	}
	if gotBody != "key=k&url=https%3A%2F%2Fexample.com" {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestDoStatus_RetriesOn5xx(t *testing.T) {
	var n int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := atomic.AddInt32(&n, 1)
		if c < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("nope"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	c, err := New(WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req, err := c.NewRequest(context.Background(), http.MethodGet, "/")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := c.DoStatus(req)
	if err != nil {
		t.Fatalf("DoStatus: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	if got := atomic.LoadInt32(&n); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestDoStatus_NoRetryForPOSTByDefault(t *testing.T) {
	var n int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&n, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("nope"))
	}))
	t.Cleanup(srv.Close)

	c, err := New(WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req, err := c.NewRequest(context.Background(), http.MethodPost, "/",
		WithBodyBytes([]byte(`key=k`), "application/x-www-form-urlencoded"),
	)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	_, err = c.DoStatus(req)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := atomic.LoadInt32(&n); got != 1 {
		t.Fatalf("expected 1 attempt, got %d", got)
	}
}

func TestDoStatus_IdempotentPOSTIsReplayed(t *testing.T) {
	var n int32
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if atomic.AddInt32(&n, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)

	c, err := New(
		WithBaseURL(srv.URL),
		WithRetry(RetryConfig{MaxAttempts: 2, Backoff: ExponentialBackoff{Base: time.Millisecond, Max: time.Millisecond}}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, err := c.NewRequest(context.Background(), http.MethodPost, "/asyncjob/",
		WithBodyBytes([]byte("job_id=j1"), "application/x-www-form-urlencoded"),
		WithIdempotent(),
	)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := c.DoStatus(req)
	if err != nil {
		t.Fatalf("DoStatus: %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(bodies) != 2 || bodies[0] != bodies[1] {
		t.Fatalf("body was not replayed: %q", bodies)
	}
}

func TestDoStatus_ErrorBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	t.Cleanup(srv.Close)

	c, err := New(
		WithBaseURL(srv.URL),
		WithMaxErrorBodyBytes(10),
		WithRetry(RetryConfig{MaxAttempts: 1}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req, err := c.NewRequest(context.Background(), http.MethodGet, "/")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := c.DoStatus(req)
	if err == nil {
		t.Fatalf("expected error")
	}
	he, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *httpx.Error, got %T", err)
	}
	if len(he.RawBody) != 10 {
		t.Fatalf("expected RawBody len=10, got %d", len(he.RawBody))
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if len(b) != 10 {
		t.Fatalf("expected resp.Body len=10, got %d", len(b))
	}
}

func TestError_Message(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want string
	}{
		{"body", &Error{StatusCode: 401, RawBody: []byte(" invalid license key \n")}, "invalid license key"},
		{"status text", &Error{StatusCode: 499}, ""},
		{"empty body", &Error{StatusCode: 500}, "Internal Server Error"},
		{"transport", &Error{Cause: errors.New("dial tcp: refused")}, "dial tcp: refused"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Message(); got != tc.want {
				t.Fatalf("Message() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRequestTimeoutOption(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	c, err := New(
		WithBaseURL(srv.URL),
		WithTimeout(2*time.Second),
		WithRetry(RetryConfig{MaxAttempts: 1}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, err := c.NewRequest(context.Background(), http.MethodGet, "/",
		WithRequestTimeout(50*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	_, err = c.DoStatus(req)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestHooksAndRateLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	var waits, befores, afters int32
	c, err := New(WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.WithRateLimiter(limiterFunc(func(context.Context) error {
		atomic.AddInt32(&waits, 1)
		return nil
	})).WithHooks(
		[]BeforeHook{func(*http.Request, int) error { atomic.AddInt32(&befores, 1); return nil }},
		[]AfterHook{func(*http.Request, *http.Response, error, time.Duration, int) { atomic.AddInt32(&afters, 1) }},
	)

	req, err := c.NewRequest(context.Background(), http.MethodPost, "/usage/")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := c.DoStatus(req)
	if err != nil {
		t.Fatalf("DoStatus: %v", err)
	}
	_ = resp.Body.Close()

	if waits != 1 || befores != 1 || afters != 1 {
		t.Fatalf("waits=%d befores=%d afters=%d", waits, befores, afters)
	}
}

type limiterFunc func(context.Context) error

func (f limiterFunc) Wait(ctx context.Context) error { return f(ctx) }
