// Package webelements fetches the positions of the page elements recorded
// during an HTML conversion that set pdf_web_elements_selectors.
package webelements

import (
	"context"
	"encoding/json"

	"github.com/lgc202/selectpdf-go/selectpdf"
)

type Client struct {
	c *selectpdf.Client
}

func New(c *selectpdf.Client) *Client { return &Client{c: c} }

// Element is the location of one matched element in the output PDF.
type Element struct {
	Selector  string  `json:"selector"`
	PageIndex int     `json:"pageIndex"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Result keeps the raw JSON returned by the service.
type Result struct {
	Raw json.RawMessage
}

// Elements decodes Raw as a list of elements.
func (r *Result) Elements() ([]Element, error) {
	var out []Element
	if len(r.Raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.Raw, &out); err != nil {
		return nil, &selectpdf.Error{Kind: selectpdf.ErrKindAPI, Op: "webelements", Message: "decode web elements", Raw: r.Raw, Cause: err}
	}
	return out, nil
}

// Get returns the elements recorded for jobID, the job id reported with the conversion result.
func (w *Client) Get(ctx context.Context, jobID string) (*Result, error) {
	if err := selectpdf.ValidateNotBlank("webelements", "job id", jobID); err != nil {
		return nil, err
	}
	req, err := w.c.NewRequest(selectpdf.WithParam("job_id", jobID))
	if err != nil {
		return nil, err
	}
	req.Header().Set("Accept", "text/json")
	req.MarkIdempotent()

	env, err := w.c.Post(ctx, selectpdf.PathWebElements, req, nil)
	if err != nil {
		return nil, err
	}
	return &Result{Raw: env.Body}, nil
}
