// Package usage reports the conversions left on the account.
package usage

import (
	"context"
	"encoding/json"

	"github.com/lgc202/selectpdf-go/selectpdf"
)

type Client struct {
	c *selectpdf.Client
}

func New(c *selectpdf.Client) *Client { return &Client{c: c} }

// Report is the decoded usage document. Raw keeps the full payload,
// history included, for fields this type does not model.
type Report struct {
	Available int `json:"available"`

	Raw json.RawMessage `json:"-"`
}

// Decode unmarshals the raw payload into v.
func (r *Report) Decode(v any) error { return json.Unmarshal(r.Raw, v) }

// Get fetches the usage report; withHistory adds the per-month history.
func (u *Client) Get(ctx context.Context, withHistory bool) (*Report, error) {
	req, err := u.c.NewRequest()
	if err != nil {
		return nil, err
	}
	if withHistory {
		req.Set("get_history", "True")
	}
	req.Header().Set("Accept", "text/json")
	req.MarkIdempotent()

	env, err := u.c.Post(ctx, selectpdf.PathUsage, req, nil)
	if err != nil {
		return nil, err
	}

	rep := &Report{Raw: env.Body}
	if err := json.Unmarshal(env.Body, rep); err != nil {
		return nil, &selectpdf.Error{Kind: selectpdf.ErrKindAPI, Op: "usage", StatusCode: env.StatusCode, Message: "decode usage report", Raw: env.Body, Cause: err}
	}
	return rep, nil
}
