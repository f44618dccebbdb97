package selectpdf

import "net/http"

// Envelope is the decoded result of one HTTP call.
type Envelope struct {
	StatusCode int
	// Pages is taken from the selectpdf-api-pages header; 0 when absent.
	Pages int
	// JobID is taken from the selectpdf-api-jobid header.
	JobID string
	// Body is nil when the response was streamed to a sink or the job was accepted.
	Body []byte
}

// Accepted reports whether the service queued the request as an asynchronous job.
func (e *Envelope) Accepted() bool {
	return e != nil && e.StatusCode == http.StatusAccepted
}
