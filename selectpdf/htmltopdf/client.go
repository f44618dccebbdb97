package htmltopdf

import (
	"context"
	"io"

	"github.com/lgc202/selectpdf-go/selectpdf"
	"github.com/lgc202/selectpdf-go/selectpdf/webelements"
)

// Client converts web pages and html strings to PDF. It holds no per-call
// state and can be shared between goroutines.
type Client struct {
	c *selectpdf.Client
}

func New(c *selectpdf.Client) *Client { return &Client{c: c} }

// WithBaseURL resolves relative images, stylesheets and scripts of an html
// string conversion. It is ignored for url conversions.
func WithBaseURL(u string) Option { return validURL("base_url", u) }

// ConvertURL converts a publicly reachable web page.
func (h *Client) ConvertURL(ctx context.Context, url string, opts ...Option) (*selectpdf.Result, error) {
	req, err := h.urlRequest(url, opts)
	if err != nil {
		return nil, err
	}
	return selectpdf.Buffered(ctx, h.run(req, false))
}

func (h *Client) ConvertURLToWriter(ctx context.Context, url string, w io.Writer, opts ...Option) (selectpdf.Info, error) {
	req, err := h.urlRequest(url, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToWriter(ctx, w, h.run(req, false))
}

// ConvertURLToFile writes the PDF to path. A partially written file is removed on failure.
func (h *Client) ConvertURLToFile(ctx context.Context, url, path string, opts ...Option) (selectpdf.Info, error) {
	req, err := h.urlRequest(url, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToFile(ctx, path, h.run(req, false))
}

// ConvertURLAsync submits the conversion as a job and waits for it. Prefer it
// for pages that take longer to render than an HTTP call can stay open.
func (h *Client) ConvertURLAsync(ctx context.Context, url string, opts ...Option) (*selectpdf.Result, error) {
	req, err := h.urlRequest(url, opts)
	if err != nil {
		return nil, err
	}
	return selectpdf.Buffered(ctx, h.run(req, true))
}

func (h *Client) ConvertURLAsyncToWriter(ctx context.Context, url string, w io.Writer, opts ...Option) (selectpdf.Info, error) {
	req, err := h.urlRequest(url, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToWriter(ctx, w, h.run(req, true))
}

func (h *Client) ConvertURLAsyncToFile(ctx context.Context, url, path string, opts ...Option) (selectpdf.Info, error) {
	req, err := h.urlRequest(url, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToFile(ctx, path, h.run(req, true))
}

// ConvertHTML converts an html string. Pass WithBaseURL when it references relative assets.
func (h *Client) ConvertHTML(ctx context.Context, html string, opts ...Option) (*selectpdf.Result, error) {
	req, err := h.htmlRequest(html, opts)
	if err != nil {
		return nil, err
	}
	return selectpdf.Buffered(ctx, h.run(req, false))
}

func (h *Client) ConvertHTMLToWriter(ctx context.Context, html string, w io.Writer, opts ...Option) (selectpdf.Info, error) {
	req, err := h.htmlRequest(html, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToWriter(ctx, w, h.run(req, false))
}

func (h *Client) ConvertHTMLToFile(ctx context.Context, html, path string, opts ...Option) (selectpdf.Info, error) {
	req, err := h.htmlRequest(html, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToFile(ctx, path, h.run(req, false))
}

func (h *Client) ConvertHTMLAsync(ctx context.Context, html string, opts ...Option) (*selectpdf.Result, error) {
	req, err := h.htmlRequest(html, opts)
	if err != nil {
		return nil, err
	}
	return selectpdf.Buffered(ctx, h.run(req, true))
}

func (h *Client) ConvertHTMLAsyncToWriter(ctx context.Context, html string, w io.Writer, opts ...Option) (selectpdf.Info, error) {
	req, err := h.htmlRequest(html, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToWriter(ctx, w, h.run(req, true))
}

func (h *Client) ConvertHTMLAsyncToFile(ctx context.Context, html, path string, opts ...Option) (selectpdf.Info, error) {
	req, err := h.htmlRequest(html, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToFile(ctx, path, h.run(req, true))
}

// WebElements returns the element positions recorded for a conversion made
// with WithPdfWebElementsSelectors. jobID is the JobID of that conversion's result.
func (h *Client) WebElements(ctx context.Context, jobID string) (*webelements.Result, error) {
	return webelements.New(h.c).Get(ctx, jobID)
}

func (h *Client) urlRequest(url string, opts []Option) (*selectpdf.Request, error) {
	if err := selectpdf.ValidateURL(op, url); err != nil {
		return nil, err
	}
	req, err := h.c.NewRequest(opts...)
	if err != nil {
		return nil, err
	}
	req.Set("url", url).Delete("html").Delete("base_url")
	return req, nil
}

func (h *Client) htmlRequest(html string, opts []Option) (*selectpdf.Request, error) {
	if err := selectpdf.ValidateNotBlank(op, "html", html); err != nil {
		return nil, err
	}
	req, err := h.c.NewRequest(opts...)
	if err != nil {
		return nil, err
	}
	req.Set("html", html).Delete("url")
	return req, nil
}

func (h *Client) run(req *selectpdf.Request, async bool) selectpdf.Run {
	return func(ctx context.Context, sink io.Writer) (*selectpdf.Envelope, error) {
		if async {
			return h.c.ExecuteAsync(ctx, selectpdf.PathConvert, req, sink)
		}
		return h.c.Execute(ctx, selectpdf.PathConvert, req, sink)
	}
}
