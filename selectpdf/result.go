package selectpdf

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"
)

// Result holds a finished document (PDF bytes or extracted text) with the
// metadata the service reported for it.
type Result struct {
	data []byte

	// Pages is the page count reported by the service, 0 when not reported.
	Pages int
	// JobID is set when the result came from an asynchronous job.
	JobID string
}

// NewResult wraps a buffered envelope.
func NewResult(env *Envelope) *Result {
	if env == nil {
		return &Result{}
	}
	return &Result{data: env.Body, Pages: env.Pages, JobID: env.JobID}
}

func (r *Result) Bytes() []byte { return r.data }

// Text returns the content as a string; meaningful for text extraction and search results.
func (r *Result) Text() string { return string(r.data) }

func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.data)
}

func (r *Result) Reader() *bytes.Reader {
	return bytes.NewReader(r.data)
}

// WriteTo implements io.WriterTo.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

func (r *Result) WriteToFile(path string, perm os.FileMode) error {
	return os.WriteFile(path, r.data, perm)
}

func (r *Result) Len() int { return len(r.data) }

// Info is returned by the streaming variants, where the content has already
// been written to the caller's writer or file.
type Info struct {
	Pages int
	JobID string
}

func infoOf(env *Envelope) Info {
	if env == nil {
		return Info{}
	}
	return Info{Pages: env.Pages, JobID: env.JobID}
}
