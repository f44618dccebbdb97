package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestExponentialBackoff_Next(t *testing.T) {
	b := ExponentialBackoff{Base: 100 * time.Millisecond, Max: time.Second}
	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
	}
	for i, w := range want {
		if got := b.Next(i + 1); got != w {
			t.Errorf("Next(%d) = %v, want %v", i+1, got, w)
		}
	}
	if got := b.Next(200); got != time.Second {
		t.Errorf("Next(200) = %v, want cap", got)
	}
}

func TestExponentialBackoff_Jitter(t *testing.T) {
	b := ExponentialBackoff{Base: time.Second, Max: time.Second, Jitter: 0.5}
	for range 50 {
		d := b.Next(1)
		if d < 500*time.Millisecond || d > 1500*time.Millisecond {
			t.Fatalf("Next = %v outside +/-50%%", d)
		}
	}
}

func TestRetryConfig_Delay(t *testing.T) {
	cfg := RetryConfig{
		Backoff:           BackoffFunc(func(int) time.Duration { return time.Second }),
		RespectRetryAfter: true,
		MaxRetryAfter:     5 * time.Second,
	}
	resp := func(code int, ra string) *http.Response {
		h := make(http.Header)
		if ra != "" {
			h.Set("Retry-After", ra)
		}
		return &http.Response{StatusCode: code, Header: h}
	}

	tests := []struct {
		name string
		resp *http.Response
		want time.Duration
	}{
		{"no response", nil, time.Second},
		{"503 with seconds", resp(http.StatusServiceUnavailable, "2"), 2 * time.Second},
		{"429 capped", resp(http.StatusTooManyRequests, "120"), 5 * time.Second},
		{"500 ignores header", resp(http.StatusInternalServerError, "2"), time.Second},
		{"503 bad header", resp(http.StatusServiceUnavailable, "soon"), time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.delay(tt.resp, 1); got != tt.want {
				t.Errorf("delay = %v, want %v", got, tt.want)
			}
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestRetryableErr(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{errors.New("tls: bad certificate"), false},
		{fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{io.ErrUnexpectedEOF, true},
		{timeoutErr{}, true},
	}
	for _, tt := range tests {
		if got := retryableErr(tt.err); got != tt.want {
			t.Errorf("retryableErr(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestDoStatus_ErrorRecordsAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	}))
	t.Cleanup(srv.Close)

	c, err := New(
		WithBaseURL(srv.URL),
		WithRetry(RetryConfig{MaxAttempts: 3, Backoff: BackoffFunc(func(int) time.Duration { return 0 })}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, err := c.NewRequest(context.Background(), http.MethodPost, "/usage/", WithIdempotent())
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}

	_, err = c.DoStatus(req)
	he, ok := AsError(err)
	if !ok {
		t.Fatalf("err = %T %v", err, err)
	}
	if he.Attempts != 3 || he.StatusCode != http.StatusBadGateway || he.Message() != "upstream down" {
		t.Fatalf("error = %+v", he)
	}
	if !IsRetryable(err) {
		t.Fatal("502 on an idempotent request should be reported retryable")
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestDo_BodyReadableAfterReturn(t *testing.T) {
	payload := strings.Repeat("%PDF-", 200_000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)

	c, err := New(WithBaseURL(srv.URL), WithTimeout(time.Minute))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, err := c.NewRequest(context.Background(), http.MethodPost, "/convert/")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := c.DoStatus(req)
	if err != nil {
		t.Fatalf("DoStatus: %v", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(b) != len(payload) {
		t.Fatalf("read %d bytes, want %d", len(b), len(payload))
	}
}
