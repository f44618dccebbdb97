// Package pdfmerge merges several PDF documents into one.
package pdfmerge

import (
	"context"
	"fmt"
	"io"

	"github.com/lgc202/selectpdf-go/selectpdf"
)

const op = "pdfmerge"

type Option = selectpdf.RequestOption

// Options for the merged document.
var (
	WithDocTitle              = selectpdf.WithDocTitle
	WithDocSubject            = selectpdf.WithDocSubject
	WithDocKeywords           = selectpdf.WithDocKeywords
	WithDocAuthor             = selectpdf.WithDocAuthor
	WithDocAddCreationDate    = selectpdf.WithDocAddCreationDate
	WithViewerPageLayout      = selectpdf.WithViewerPageLayout
	WithViewerPageMode        = selectpdf.WithViewerPageMode
	WithViewerCenterWindow    = selectpdf.WithViewerCenterWindow
	WithViewerDisplayDocTitle = selectpdf.WithViewerDisplayDocTitle
	WithViewerFitWindow       = selectpdf.WithViewerFitWindow
	WithViewerHideMenuBar     = selectpdf.WithViewerHideMenuBar
	WithViewerHideToolbar     = selectpdf.WithViewerHideToolbar
	WithViewerHideWindowUI    = selectpdf.WithViewerHideWindowUI
	WithUserPassword          = selectpdf.WithUserPassword
	WithOwnerPassword         = selectpdf.WithOwnerPassword
	WithTimeout               = selectpdf.WithServiceTimeout
	WithCustomParameter       = selectpdf.WithParam
)

type Client struct {
	c *selectpdf.Client
}

func New(c *selectpdf.Client) *Client { return &Client{c: c} }

func (m *Client) Merge(ctx context.Context, inputs []Input, opts ...Option) (*selectpdf.Result, error) {
	req, err := m.request(inputs, opts)
	if err != nil {
		return nil, err
	}
	return selectpdf.Buffered(ctx, m.run(req, false))
}

func (m *Client) MergeToWriter(ctx context.Context, inputs []Input, w io.Writer, opts ...Option) (selectpdf.Info, error) {
	req, err := m.request(inputs, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToWriter(ctx, w, m.run(req, false))
}

// MergeToFile writes the merged PDF to path, removing it again on failure.
func (m *Client) MergeToFile(ctx context.Context, inputs []Input, path string, opts ...Option) (selectpdf.Info, error) {
	req, err := m.request(inputs, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToFile(ctx, path, m.run(req, false))
}

func (m *Client) MergeAsync(ctx context.Context, inputs []Input, opts ...Option) (*selectpdf.Result, error) {
	req, err := m.request(inputs, opts)
	if err != nil {
		return nil, err
	}
	return selectpdf.Buffered(ctx, m.run(req, true))
}

func (m *Client) MergeAsyncToWriter(ctx context.Context, inputs []Input, w io.Writer, opts ...Option) (selectpdf.Info, error) {
	req, err := m.request(inputs, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToWriter(ctx, w, m.run(req, true))
}

func (m *Client) MergeAsyncToFile(ctx context.Context, inputs []Input, path string, opts ...Option) (selectpdf.Info, error) {
	req, err := m.request(inputs, opts)
	if err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToFile(ctx, path, m.run(req, true))
}

func (m *Client) request(inputs []Input, opts []Option) (*selectpdf.Request, error) {
	if len(inputs) == 0 {
		return nil, invalid("at least one input is required")
	}
	req, err := m.c.NewRequest(opts...)
	if err != nil {
		return nil, err
	}
	for i, in := range inputs {
		if err := in.apply(req, i+1); err != nil {
			return nil, err
		}
	}
	req.SetInt("files_no", len(inputs)).ForceMultipart()
	return req, nil
}

func (m *Client) run(req *selectpdf.Request, async bool) selectpdf.Run {
	return func(ctx context.Context, sink io.Writer) (*selectpdf.Envelope, error) {
		if async {
			return m.c.ExecuteAsync(ctx, selectpdf.PathPdfMerge, req, sink)
		}
		return m.c.Execute(ctx, selectpdf.PathPdfMerge, req, sink)
	}
}

func invalid(format string, args ...any) error {
	return &selectpdf.Error{Kind: selectpdf.ErrKindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}
