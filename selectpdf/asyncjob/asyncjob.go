// Package asyncjob checks and collects jobs submitted with async=True.
// The feature clients use it implicitly through their *Async methods; use it
// directly to resume a job whose id was stored elsewhere.
package asyncjob

import (
	"context"
	"io"
	"net/http"

	"github.com/lgc202/selectpdf-go/selectpdf"
)

type Client struct {
	c *selectpdf.Client
}

func New(c *selectpdf.Client) *Client { return &Client{c: c} }

// Status is the outcome of a single check.
type Status struct {
	JobID    string
	Finished bool
	Pages    int
	// Result holds the output once Finished; nil while the job runs.
	Result *selectpdf.Result
}

// Check issues one status request. A job still running reports Finished=false;
// a job that failed on the service side is returned as an error.
func (a *Client) Check(ctx context.Context, jobID string) (*Status, error) {
	env, err := a.c.CheckJob(ctx, jobID, nil)
	if err != nil {
		return nil, err
	}
	st := &Status{JobID: jobID, Finished: env.StatusCode != http.StatusAccepted}
	if st.Finished {
		st.Pages = env.Pages
		st.Result = selectpdf.NewResult(env)
	}
	return st, nil
}

// Wait polls jobID with the client's poll policy and returns the finished output.
func (a *Client) Wait(ctx context.Context, jobID string) (*selectpdf.Result, error) {
	return selectpdf.Buffered(ctx, a.wait(jobID))
}

func (a *Client) WaitToWriter(ctx context.Context, jobID string, w io.Writer) (selectpdf.Info, error) {
	return selectpdf.ToWriter(ctx, w, a.wait(jobID))
}

func (a *Client) WaitToFile(ctx context.Context, jobID, path string) (selectpdf.Info, error) {
	if err := selectpdf.ValidateNotBlank("asyncjob", "job id", jobID); err != nil {
		return selectpdf.Info{}, err
	}
	return selectpdf.ToFile(ctx, path, a.wait(jobID))
}

func (a *Client) wait(jobID string) selectpdf.Run {
	return func(ctx context.Context, sink io.Writer) (*selectpdf.Envelope, error) {
		return a.c.Poller().Wait(ctx, jobID, a.c.CheckJob, sink)
	}
}
