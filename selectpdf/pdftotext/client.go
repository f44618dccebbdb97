// Package pdftotext extracts text from PDF documents and searches them.
package pdftotext

import (
	"context"
	"encoding/json"
	"io"

	"github.com/lgc202/selectpdf-go/selectpdf"
)

type Client struct {
	c *selectpdf.Client
}

func New(c *selectpdf.Client) *Client { return &Client{c: c} }

// Text extracts the text of src.
func (p *Client) Text(ctx context.Context, src Source, opts ...Option) (*selectpdf.Result, error) {
	req, err := p.textRequest(src, opts)
	if err != nil {
		return nil, err
	}
	return selectpdf.Buffered(ctx, p.run(req, false))
}

func (p *Client) TextToWriter(ctx context.Context, src Source, w io.Writer, opts ...Option) (selectpdf.Info, error) {
	req, err := p.textRequest(src, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToWriter(ctx, w, p.run(req, false))
}

// TextToFile writes the extracted text to path, removing it again on failure.
func (p *Client) TextToFile(ctx context.Context, src Source, path string, opts ...Option) (selectpdf.Info, error) {
	req, err := p.textRequest(src, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToFile(ctx, path, p.run(req, false))
}

func (p *Client) TextAsync(ctx context.Context, src Source, opts ...Option) (*selectpdf.Result, error) {
	req, err := p.textRequest(src, opts)
	if err != nil {
		return nil, err
	}
	return selectpdf.Buffered(ctx, p.run(req, true))
}

func (p *Client) TextAsyncToWriter(ctx context.Context, src Source, w io.Writer, opts ...Option) (selectpdf.Info, error) {
	req, err := p.textRequest(src, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToWriter(ctx, w, p.run(req, true))
}

func (p *Client) TextAsyncToFile(ctx context.Context, src Source, path string, opts ...Option) (selectpdf.Info, error) {
	req, err := p.textRequest(src, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToFile(ctx, path, p.run(req, true))
}

// Match is one occurrence of the searched text.
type Match struct {
	TextNumber int     `json:"textNumber"`
	Page       int     `json:"page"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// SearchResult keeps the raw JSON returned by the service.
type SearchResult struct {
	Raw json.RawMessage
	// Pages is the number of pages searched.
	Pages int
}

// Matches decodes Raw.
func (r *SearchResult) Matches() ([]Match, error) {
	var out []Match
	if len(r.Raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.Raw, &out); err != nil {
		return nil, &selectpdf.Error{Kind: selectpdf.ErrKindAPI, Op: op, Message: "could not get search results", Raw: r.Raw, Cause: err}
	}
	return out, nil
}

// Search looks for text in src. Use WithCaseSensitive and WithWholeWordsOnly
// to narrow matching; both default to false.
func (p *Client) Search(ctx context.Context, src Source, text string, opts ...Option) (*SearchResult, error) {
	return p.search(ctx, src, text, false, opts)
}

func (p *Client) SearchAsync(ctx context.Context, src Source, text string, opts ...Option) (*SearchResult, error) {
	return p.search(ctx, src, text, true, opts)
}

func (p *Client) search(ctx context.Context, src Source, text string, async bool, opts []Option) (*SearchResult, error) {
	if err := selectpdf.ValidateNotBlank(op, "search text", text); err != nil {
		return nil, err
	}
	req, err := p.request(src, "Search", append([]Option{
		WithCaseSensitive(false),
		WithWholeWordsOnly(false),
	}, opts...))
	if err != nil {
		return nil, err
	}
	req.Set("search_text", text)
	req.Header().Set("Accept", "text/json")

	res, err := selectpdf.Buffered(ctx, p.run(req, async))
	if err != nil {
		return nil, err
	}
	return &SearchResult{Raw: res.Bytes(), Pages: res.Pages}, nil
}

func (p *Client) textRequest(src Source, opts []Option) (*selectpdf.Request, error) {
	return p.request(src, "Convert", opts)
}

func (p *Client) request(src Source, action string, opts []Option) (*selectpdf.Request, error) {
	req, err := p.c.NewRequest(opts...)
	if err != nil {
		return nil, err
	}
	if err := src.apply(req); err != nil {
		return nil, err
	}
	req.Set("action", action).ForceMultipart()
	return req, nil
}

func (p *Client) run(req *selectpdf.Request, async bool) selectpdf.Run {
	return func(ctx context.Context, sink io.Writer) (*selectpdf.Envelope, error) {
		if async {
			return p.c.ExecuteAsync(ctx, selectpdf.PathPdfToText, req, sink)
		}
		return p.c.Execute(ctx, selectpdf.PathPdfToText, req, sink)
	}
}
