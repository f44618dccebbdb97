package selectpdf

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lgc202/selectpdf-go/httpx"
	"github.com/lgc202/selectpdf-go/version"
)

const (
	DefaultBaseURL = "https://selectpdf.com/api2/"

	PathConvert     = "convert/"
	PathAsyncJob    = "asyncjob/"
	PathWebElements = "webelements/"
	PathUsage       = "usage/"
	PathPdfMerge    = "pdfmerge/"
	PathPdfToText   = "pdftotext/"

	HeaderClient = "selectpdf-api-client"
	HeaderPages  = "selectpdf-api-pages"
	HeaderJobID  = "selectpdf-api-jobid"
)

// Client is the shared transport used by every feature client. It is safe
// for concurrent use once constructed; per-call state lives in Request.
type Client struct {
	apiKey string

	cfg        httpx.Config
	http       *httpx.Client
	limiter    httpx.RateLimiter
	metrics    *httpx.Metrics
	middleware []httpx.Middleware

	logger *slog.Logger
	poll   PollPolicy
	clock  Clock

	defaults []RequestOption
}

type Option func(*Client) error

// New builds a Client for apiKey. Options are applied in order.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, validationError("new", "api key is required")
	}

	cfg := httpx.DefaultConfig()
	cfg.BaseURL = DefaultBaseURL
	cfg.DefaultHeaders.Set(HeaderClient, ClientID())

	c := &Client{
		apiKey: apiKey,
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		poll:   DefaultPollPolicy(),
		clock:  RealClock(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	hc, err := httpx.NewWithConfig(c.cfg)
	if err != nil {
		return nil, &Error{Kind: ErrKindValidation, Op: "new", Message: "invalid base url", Cause: err}
	}
	hc.WithMiddleware(c.middleware...)
	if c.limiter != nil {
		hc.WithRateLimiter(c.limiter)
	}
	if c.metrics != nil {
		hc.WithHooks(nil, []httpx.AfterHook{c.metrics.AfterHook()})
	}
	c.http = hc
	return c, nil
}

// ClientID is the value of the client identification header.
func ClientID() string {
	return "go-" + version.Get().Semver()
}

func (c *Client) APIKey() string { return c.apiKey }

func (c *Client) Logger() *slog.Logger { return c.logger }

func (c *Client) PollPolicy() PollPolicy { return c.poll }

// Poller returns a poller configured with the client's policy, clock and logger.
func (c *Client) Poller() *Poller {
	return &Poller{Policy: c.poll, Clock: c.clock, Logger: c.logger}
}

// NewRequest returns a Request seeded with the API key and the client's default options.
func (c *Client) NewRequest(opts ...RequestOption) (*Request, error) {
	r := NewRequest()
	r.Set("key", c.apiKey)
	if err := r.Apply(c.defaults...); err != nil {
		return nil, err
	}
	if err := r.Apply(opts...); err != nil {
		return nil, err
	}
	return r, nil
}

// Post sends req to path and interprets the response.
//
// On 200 the body is copied to sink, or buffered into Envelope.Body when sink
// is nil. On 202 the envelope carries only the job id. Any other status is an
// ErrKindAPI error whose message is the response body or the status text.
func (c *Client) Post(ctx context.Context, path string, req *Request, sink io.Writer) (*Envelope, error) {
	op := strings.TrimSuffix(path, "/")
	if req == nil {
		return nil, validationError(op, "nil request")
	}
	if _, ok := req.Get("key"); !ok {
		req.Set("key", c.apiKey)
	}

	body, contentType, err := req.Encode()
	if err != nil {
		return nil, ioError(op, err)
	}

	ropts := []httpx.RequestOption{
		httpx.WithBodyBytes(body, contentType),
		httpx.WithHeaders(req.Header()),
	}
	if req.idempotent {
		ropts = append(ropts, httpx.WithIdempotent())
	}
	hreq, err := c.http.NewRequest(ctx, http.MethodPost, path, ropts...)
	if err != nil {
		return nil, mapError(op, err)
	}

	c.logger.DebugContext(ctx, "selectpdf request",
		"path", path, "content_type", mediaType(contentType), "bytes", len(body))

	resp, err := c.http.DoStatus(hreq)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer resp.Body.Close()

	env := &Envelope{StatusCode: resp.StatusCode}
	switch resp.StatusCode {
	case http.StatusOK:
		env.Pages = parsePages(resp.Header.Get(HeaderPages))
		env.JobID = strings.TrimSpace(resp.Header.Get(HeaderJobID))
		if sink != nil {
			w := &sinkWriter{w: sink}
			if _, err := io.Copy(w, resp.Body); err != nil {
				if w.err != nil {
					return nil, &Error{Kind: ErrKindIO, Op: op, Message: "write response body", Cause: w.err}
				}
				return nil, mapError(op, err)
			}
		} else {
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, resp.Body); err != nil {
				return nil, mapError(op, err)
			}
			env.Body = buf.Bytes()
		}
	case http.StatusAccepted:
		env.JobID = strings.TrimSpace(resp.Header.Get(HeaderJobID))
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, httpx.DefaultMaxErrorBodyBytes))
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &Error{Kind: ErrKindAPI, Op: op, StatusCode: resp.StatusCode, Message: msg, Raw: raw}
	}

	c.logger.DebugContext(ctx, "selectpdf response",
		"path", path, "status", env.StatusCode, "pages", env.Pages, "job_id", env.JobID)
	return env, nil
}

// sinkWriter remembers its own write failure so a failed copy can be told
// apart from a failed read of the response body.
type sinkWriter struct {
	w   io.Writer
	err error
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		s.err = err
	}
	return n, err
}

// Execute runs req synchronously (async=False). A 202 answer is an error here.
func (c *Client) Execute(ctx context.Context, path string, req *Request, sink io.Writer) (*Envelope, error) {
	req.Set("async", "False")
	env, err := c.Post(ctx, path, req, sink)
	if err != nil {
		return nil, err
	}
	if env.Accepted() {
		return nil, &Error{
			Kind:       ErrKindAPI,
			Op:         strings.TrimSuffix(path, "/"),
			StatusCode: env.StatusCode,
			JobID:      env.JobID,
			Message:    http.StatusText(env.StatusCode),
		}
	}
	return env, nil
}

// ExecuteAsync submits req with async=True and, if the service accepted it
// as a job, polls the job endpoint until it finishes or the poll budget runs out.
func (c *Client) ExecuteAsync(ctx context.Context, path string, req *Request, sink io.Writer) (*Envelope, error) {
	op := strings.TrimSuffix(path, "/")
	req.Set("async", "True")
	env, err := c.Post(ctx, path, req, sink)
	if err != nil {
		return nil, err
	}
	if !env.Accepted() {
		// Finished within the submit call.
		return env, nil
	}
	if env.JobID == "" {
		return nil, &Error{Kind: ErrKindAPI, Op: op, StatusCode: env.StatusCode, Message: "error launching the asynchronous call"}
	}
	c.logger.DebugContext(ctx, "selectpdf async job submitted", "path", path, "job_id", env.JobID)
	return c.Poller().Wait(ctx, env.JobID, c.CheckJob, sink)
}

// CheckJob performs a single status request for jobID. The envelope is
// Accepted while the job is still running.
func (c *Client) CheckJob(ctx context.Context, jobID string, sink io.Writer) (*Envelope, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, validationError("asyncjob", "job id is required")
	}
	req := NewRequest().
		Set("key", c.apiKey).
		Set("job_id", jobID).
		MarkIdempotent()
	env, err := c.Post(ctx, PathAsyncJob, req, sink)
	if err != nil {
		if e, ok := AsError(err); ok && e.JobID == "" {
			e.JobID = jobID
		}
		return nil, err
	}
	if env.JobID == "" {
		env.JobID = jobID
	}
	return env, nil
}

func parsePages(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func mediaType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		return ct[:i]
	}
	return ct
}
