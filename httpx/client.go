package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	httpClient *http.Client

	baseURL *url.URL

	timeout        time.Duration
	defaultHeaders http.Header
	userAgent      string

	retry      RetryConfig
	maxErrBody int64

	requestID RequestIDConfig

	rateLimiter RateLimiter
	before      []BeforeHook
	after       []AfterHook
}

// New constructs a Client from DefaultConfig() plus the provided options.
func New(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, o := range opts {
		if o != nil {
			o.apply(&cfg)
		}
	}
	return NewWithConfig(cfg)
}

func NewWithConfig(cfg Config) (*Client, error) {
	var bu *url.URL
	if strings.TrimSpace(cfg.BaseURL) != "" {
		u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
		if err != nil {
			return nil, err
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, &url.Error{Op: "parse", URL: cfg.BaseURL, Err: errors.New("base url must be absolute")}
		}
		// Normalize so relative paths resolve as expected (treat BaseURL path as a prefix).
		if u.Path != "" && !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		bu = u
	}

	rt := cfg.Transport
	if rt == nil {
		rt = DefaultTransport()
	}

	hc := &http.Client{
		Transport: rt,
	}

	maxErrBody := cfg.MaxErrorBodyBytes
	if maxErrBody == 0 {
		maxErrBody = DefaultMaxErrorBodyBytes
	}

	// Clone headers to avoid caller mutation.
	hdr := make(http.Header)
	for k, vv := range cfg.DefaultHeaders {
		for _, v := range vv {
			hdr.Add(k, v)
		}
	}

	c := &Client{
		httpClient:     hc,
		baseURL:        bu,
		timeout:        cfg.Timeout,
		defaultHeaders: hdr,
		userAgent:      cfg.UserAgent,
		retry:          cfg.Retry,
		maxErrBody:     maxErrBody,
		requestID:      cfg.RequestID,
	}
	if c.requestID.New == nil && c.requestID.Header != "" {
		c.requestID.New = DefaultRequestID
	}
	if c.retry.Backoff == nil {
		c.retry.Backoff = DefaultBackoff()
	}
	return c, nil
}

// WithMiddleware wraps the underlying RoundTripper with middleware.
// Call this during initialization (before the client is used concurrently).
func (c *Client) WithMiddleware(mws ...Middleware) *Client {
	if len(mws) == 0 {
		return c
	}
	rt := c.httpClient.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	c.httpClient.Transport = chain(rt, mws)
	return c
}

// WithRateLimiter installs a client-wide rate limiter.
func (c *Client) WithRateLimiter(rl RateLimiter) *Client {
	c.rateLimiter = rl
	return c
}

// WithHooks adds hooks (executed for every attempt).
func (c *Client) WithHooks(before []BeforeHook, after []AfterHook) *Client {
	c.before = append(c.before, before...)
	c.after = append(c.after, after...)
	return c
}

func (c *Client) resolveURL(path string) (*url.URL, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("empty url/path")
	}
	u, err := url.Parse(p)
	if err != nil {
		return nil, err
	}
	if u.IsAbs() {
		return u, nil
	}
	if c.baseURL == nil {
		return nil, errors.New("relative path requires BaseURL")
	}
	// BaseURL carries the API prefix (https://host/api2/), so "/convert/" and
	// "convert/" resolve to the same endpoint.
	if strings.HasPrefix(u.Path, "/") {
		u2 := *u
		u2.Path = strings.TrimPrefix(u2.Path, "/")
		u = &u2
	}
	return c.baseURL.ResolveReference(u), nil
}

// BaseURL returns the normalized base URL, or nil when none was configured.
func (c *Client) BaseURL() *url.URL {
	if c.baseURL == nil {
		return nil
	}
	u := *c.baseURL
	return &u
}

// CloseIdleConnections closes idle keep-alive connections held by the transport.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// bound limits ctx by the client timeout and the per-request timeout;
// an earlier parent deadline still wins.
func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	var d time.Duration
	for _, t := range []time.Duration{c.timeout, requestTimeout(ctx)} {
		if t > 0 && (d == 0 || t < d) {
			d = t
		}
	}
	if d == 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Do sends req, retrying per the RetryConfig. Any status comes back as a
// response; only transport failures are errors.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.do(req, false)
}

// DoStatus is Do with statuses >= 400 returned as *Error, whose RawBody holds
// up to MaxErrorBodyBytes of the body. Anything below 400, 202 Accepted
// included, is returned as is.
func (c *Client) DoStatus(req *http.Request) (*http.Response, error) {
	return c.do(req, true)
}

// outcome is the last attempt seen by the retry loop.
type outcome struct {
	resp     *http.Response
	err      error
	attempts int
	// expired is set when MaxElapsed ran out before another attempt.
	expired bool
}

// do releases the timeout context only once the caller closes the body,
// since conversion output is streamed after Do returns.
func (c *Client) do(req *http.Request, statusAsError bool) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("httpx: nil request")
	}
	ctx, cancel := c.bound(req.Context())
	resp, err := c.send(ctx, req.Clone(ctx), statusAsError)
	if err != nil || resp == nil || resp.Body == nil {
		cancel()
		return resp, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func (c *Client) send(ctx context.Context, req *http.Request, statusAsError bool) (*http.Response, error) {
	maxAttempts := max(c.retry.MaxAttempts, 1)
	start := time.Now()
	var last outcome

	for n := 1; n <= maxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.retry.MaxElapsed > 0 && time.Since(start) > c.retry.MaxElapsed {
			last.expired = true
			break
		}
		if err := rewind(req, n); err != nil {
			return nil, err
		}
		if err := c.admit(ctx, req, n); err != nil {
			return nil, err
		}

		resp, err := c.roundTrip(req, n)
		last = outcome{resp: resp, err: err, attempts: n}
		if err == nil && (resp.StatusCode < 400 || (!statusAsError && !c.retry.canRetryStatus(resp.StatusCode))) {
			return resp, nil
		}
		if n == maxAttempts || !c.shouldRetry(req, resp, err) {
			break
		}

		if resp != nil && resp.Body != nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
		}
		if err := sleep(ctx, c.retry.delay(resp, n)); err != nil {
			return nil, err
		}
	}
	return c.finish(req, last, statusAsError)
}

// rewind restores the body before a retry.
func rewind(req *http.Request, n int) error {
	if n == 1 || req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	if req.GetBody == nil {
		return errors.New("httpx: request body is not replayable")
	}
	b, err := req.GetBody()
	if err != nil {
		return err
	}
	req.Body = b
	return nil
}

// admit waits for the rate limiter and runs the before hooks.
func (c *Client) admit(ctx context.Context, req *http.Request, n int) error {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}
	}
	for _, h := range c.before {
		if h == nil {
			continue
		}
		if err := h(req, n); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) roundTrip(req *http.Request, n int) (*http.Response, error) {
	t0 := time.Now()
	resp, err := c.httpClient.Do(req)
	dur := time.Since(t0)
	for _, h := range c.after {
		if h != nil {
			h(req, resp, err, dur, n)
		}
	}
	return resp, err
}

func (c *Client) shouldRetry(req *http.Request, resp *http.Response, err error) bool {
	if !c.retry.canRetryRequest(req) {
		return false
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return false
	}
	if err != nil {
		return retryableErr(err)
	}
	return resp != nil && c.retry.canRetryStatus(resp.StatusCode)
}

// finish turns the last attempt into the caller's result.
func (c *Client) finish(req *http.Request, last outcome, statusAsError bool) (*http.Response, error) {
	if !statusAsError {
		if last.expired && last.resp == nil && last.err == nil {
			return nil, context.DeadlineExceeded
		}
		return last.resp, last.err
	}

	if last.err == nil && last.resp != nil {
		retryable := c.retry.canRetryRequest(req) && c.retry.canRetryStatus(last.resp.StatusCode)
		return c.statusError(req, last.resp, retryable, last.attempts)
	}

	// http.Client may return a response together with an error.
	if last.resp != nil && last.resp.Body != nil {
		_ = last.resp.Body.Close()
	}
	cause := last.err
	if cause == nil {
		cause = context.DeadlineExceeded
	}
	return nil, &Error{
		Method:    req.Method,
		URL:       req.URL.String(),
		RequestID: strings.TrimSpace(req.Header.Get(c.requestID.Header)),
		Attempts:  last.attempts,
		Cause:     cause,
		Retryable: !last.expired && c.retry.canRetryRequest(req) && retryableErr(last.err),
	}
}

// statusError reads a bounded copy of the body into *Error and swaps resp.Body
// for an in-memory copy so the connection is released.
func (c *Client) statusError(req *http.Request, resp *http.Response, retryable bool, attempts int) (*http.Response, error) {
	var raw []byte
	if resp.Body != nil {
		if c.maxErrBody != 0 {
			raw, _ = io.ReadAll(io.LimitReader(resp.Body, c.maxErrBody))
		}
		_ = resp.Body.Close()
	}
	resp.Body = io.NopCloser(bytes.NewReader(raw))

	rid := ""
	if h := c.requestID.Header; h != "" {
		rid = strings.TrimSpace(resp.Header.Get(h))
		if rid == "" {
			rid = strings.TrimSpace(req.Header.Get(h))
		}
	}
	ra, _ := parseRetryAfter(resp, time.Now())

	return resp, &Error{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		RequestID:  rid,
		RetryAfter: ra,
		RawBody:    raw,
		Attempts:   attempts,
		Retryable:  retryable,
		Cause:      errors.New(http.StatusText(resp.StatusCode)),
	}
}
