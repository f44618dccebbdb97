// Package selectpdftest provides an in-process fake of the conversion service
// and a manual clock for testing code built on the selectpdf clients.
package selectpdftest

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lgc202/selectpdf-go/selectpdf"
)

// Reply is one canned response.
type Reply struct {
	Status int
	Body   string
	Pages  int
	JobID  string
}

// Call is a recorded request.
type Call struct {
	Path        string
	Header      http.Header
	ContentType string
	Params      url.Values
	// Files maps multipart field name to content; Filenames to the declared filename.
	Files     map[string][]byte
	Filenames map[string]string
}

// Multipart reports whether the call was sent as multipart/form-data.
func (c Call) Multipart() bool { return c.ContentType == "multipart/form-data" }

// Server answers each path with its queued replies in order, repeating the
// last one once the queue is drained. Unknown paths get 404.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string][]Reply
	calls  []Call
}

func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{routes: make(map[string][]Reply)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// On queues replies for an endpoint path such as selectpdf.PathConvert.
func (s *Server) On(path string, replies ...Reply) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes["/api2/"+strings.TrimPrefix(path, "/")] = append(s.routes["/api2/"+strings.TrimPrefix(path, "/")], replies...)
	return s
}

func (s *Server) BaseURL() string { return s.URL + "/api2/" }

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the calls made to an endpoint path.
func (s *Server) CallsTo(path string) []Call {
	want := "/api2/" + strings.TrimPrefix(path, "/")
	var out []Call
	for _, c := range s.Calls() {
		if c.Path == want {
			out = append(out, c)
		}
	}
	return out
}

// NewClient returns a client pointed at the fake with a manual clock and no poll delay.
func (s *Server) NewClient(t testing.TB, opts ...selectpdf.Option) *selectpdf.Client {
	t.Helper()
	base := []selectpdf.Option{
		selectpdf.WithBaseURL(s.BaseURL()),
		selectpdf.WithClock(&Clock{}),
		selectpdf.WithPollPolicy(selectpdf.PollPolicy{Interval: 0, MaxAttempts: 5}),
	}
	c, err := selectpdf.New("test-key", append(base, opts...)...)
	if err != nil {
		t.Fatalf("selectpdf.New: %v", err)
	}
	return c
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	call := Call{
		Path:      r.URL.Path,
		Header:    r.Header.Clone(),
		Files:     make(map[string][]byte),
		Filenames: make(map[string]string),
	}
	call.ContentType, _, _ = mime.ParseMediaType(r.Header.Get("Content-Type"))
	if call.Multipart() {
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			call.Params = url.Values(r.MultipartForm.Value)
			for field, fhs := range r.MultipartForm.File {
				for _, fh := range fhs {
					f, err := fh.Open()
					if err != nil {
						continue
					}
					b, _ := io.ReadAll(f)
					_ = f.Close()
					call.Files[field] = b
					call.Filenames[field] = fh.Filename
				}
			}
		}
	} else if err := r.ParseForm(); err == nil {
		call.Params = r.PostForm
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	var rep Reply
	q, ok := s.routes[r.URL.Path]
	switch {
	case !ok || len(q) == 0:
		rep = Reply{Status: http.StatusNotFound, Body: "unknown endpoint"}
	case len(q) == 1:
		rep = q[0]
	default:
		rep = q[0]
		s.routes[r.URL.Path] = q[1:]
	}
	s.mu.Unlock()

	if rep.Status == 0 {
		rep.Status = http.StatusOK
	}
	if rep.Pages > 0 {
		w.Header().Set(selectpdf.HeaderPages, strconv.Itoa(rep.Pages))
	}
	if rep.JobID != "" {
		w.Header().Set(selectpdf.HeaderJobID, rep.JobID)
	}
	w.WriteHeader(rep.Status)
	_, _ = io.WriteString(w, rep.Body)
}

// Clock records sleeps and returns immediately.
type Clock struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (c *Clock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	return nil
}

func (c *Clock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}
