package selectpdf

import (
	"maps"
	"net/http"
	"slices"
	"strconv"
)

// Request is the parameter store for a single API call: named string
// parameters plus file and in-memory attachments. Keys are unique and the
// last write wins. A Request is built fresh for every call and must not be
// shared between goroutines.
type Request struct {
	params map[string]string
	files  map[string]string
	binary map[string][]byte
	header http.Header

	multipart  bool
	idempotent bool
}

func NewRequest() *Request {
	return &Request{
		params: make(map[string]string),
		files:  make(map[string]string),
		binary: make(map[string][]byte),
		header: make(http.Header),
	}
}

// RequestOption mutates a Request. Options may reject their input, in which
// case the call fails before anything is sent.
type RequestOption func(*Request) error

// Apply runs opts in order and stops at the first error.
func (r *Request) Apply(opts ...RequestOption) error {
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(r); err != nil {
			return err
		}
	}
	return nil
}

func (r *Request) Set(key, value string) *Request {
	r.params[key] = value
	return r
}

func (r *Request) SetBool(key string, v bool) *Request {
	return r.Set(key, strconv.FormatBool(v))
}

func (r *Request) SetInt(key string, v int) *Request {
	return r.Set(key, strconv.Itoa(v))
}

func (r *Request) SetFloat(key string, v float64) *Request {
	return r.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
}

func (r *Request) Get(key string) (string, bool) {
	v, ok := r.params[key]
	return v, ok
}

func (r *Request) Delete(key string) *Request {
	delete(r.params, key)
	return r
}

// SetFile attaches the local file at path under field. The file is opened
// only while the body is encoded.
func (r *Request) SetFile(field, path string) *Request {
	r.files[field] = path
	return r
}

func (r *Request) File(field string) (string, bool) {
	p, ok := r.files[field]
	return p, ok
}

func (r *Request) DeleteFile(field string) *Request {
	delete(r.files, field)
	return r
}

// SetBinary attaches data under field. The field name doubles as the filename.
func (r *Request) SetBinary(field string, data []byte) *Request {
	r.binary[field] = data
	return r
}

func (r *Request) DeleteBinary(field string) *Request {
	delete(r.binary, field)
	return r
}

// Header returns the extra HTTP headers sent with this request.
func (r *Request) Header() http.Header { return r.header }

// ForceMultipart makes Encode produce multipart/form-data even without attachments.
func (r *Request) ForceMultipart() *Request {
	r.multipart = true
	return r
}

// MarkIdempotent allows the transport to replay the request on transient failures.
func (r *Request) MarkIdempotent() *Request {
	r.idempotent = true
	return r
}

// Params returns a copy of the string parameters.
func (r *Request) Params() map[string]string { return maps.Clone(r.params) }

// Files returns a copy of the file attachments (field -> path).
func (r *Request) Files() map[string]string { return maps.Clone(r.files) }

func (r *Request) hasAttachments() bool {
	return len(r.files) > 0 || len(r.binary) > 0
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// WithParam sets a raw parameter. Use it for service parameters that have no typed option.
func WithParam(key, value string) RequestOption {
	return func(r *Request) error {
		r.Set(key, value)
		return nil
	}
}

func WithHeader(key, value string) RequestOption {
	return func(r *Request) error {
		r.header.Set(key, value)
		return nil
	}
}
