package selectpdf

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/lgc202/selectpdf-go/httpx"
)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		c.cfg.BaseURL = baseURL
		return nil
	}
}

// WithHTTPClient reuses the transport (and timeout, when set) of hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("selectpdf: nil http client")
		}
		if hc.Transport != nil {
			c.cfg.Transport = hc.Transport
		}
		if hc.Timeout > 0 {
			c.cfg.Timeout = hc.Timeout
		}
		return nil
	}
}

func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) error {
		c.cfg.Transport = rt
		return nil
	}
}

// WithTimeout bounds a single HTTP call, retries included. Polling is bounded
// separately by PollPolicy.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.cfg.Timeout = d
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

func WithRetry(cfg httpx.RetryConfig) Option {
	return func(c *Client) error {
		c.cfg.Retry = cfg
		return nil
	}
}

// WithRateLimit throttles outgoing requests, poll requests included.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) error {
		if rps <= 0 {
			return errors.New("selectpdf: rate limit must be positive")
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// WithMetrics registers request counters and latency histograms with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) error {
		m, err := httpx.NewMetrics(reg, "selectpdf")
		if err != nil {
			return err
		}
		c.metrics = m
		return nil
	}
}

func WithMiddleware(mws ...httpx.Middleware) Option {
	return func(c *Client) error {
		c.middleware = append(c.middleware, mws...)
		return nil
	}
}

func WithPollPolicy(p PollPolicy) Option {
	return func(c *Client) error {
		if err := p.validate(); err != nil {
			return err
		}
		c.poll = p
		return nil
	}
}

func WithClock(clock Clock) Option {
	return func(c *Client) error {
		if clock == nil {
			return errors.New("selectpdf: nil clock")
		}
		c.clock = clock
		return nil
	}
}

func WithDefaultHeader(key, value string) Option {
	return func(c *Client) error {
		c.cfg.DefaultHeaders.Set(key, value)
		return nil
	}
}

// WithDefaultRequest applies opts to every request built by the client,
// before the per-call options.
func WithDefaultRequest(opts ...RequestOption) Option {
	return func(c *Client) error {
		c.defaults = append(c.defaults, opts...)
		return nil
	}
}
