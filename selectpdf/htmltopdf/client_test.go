package htmltopdf_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lgc202/selectpdf-go/selectpdf"
	"github.com/lgc202/selectpdf-go/selectpdf/htmltopdf"
	"github.com/lgc202/selectpdf-go/selectpdf/selectpdftest"
)

func TestConvertURL(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathConvert, selectpdftest.Reply{Body: "%PDF-1.7", Pages: 2, JobID: "conv-1"})
	h := htmltopdf.New(srv.NewClient(t))

	res, err := h.ConvertURL(context.Background(), "https://selectpdf.com",
		htmltopdf.WithPageSize(htmltopdf.PageSizeA4),
		htmltopdf.WithPageOrientation(htmltopdf.Landscape),
		htmltopdf.WithMargins(10),
		htmltopdf.WithRenderingEngine(htmltopdf.EngineBlink),
		htmltopdf.WithSecureProtocol(htmltopdf.ProtocolTLS10),
		htmltopdf.WithBackgroundColor("#AABBCC"),
		htmltopdf.WithShowPageNumbers(true),
		htmltopdf.WithPageNumbersAlignment(htmltopdf.AlignRight),
		htmltopdf.WithDocTitle("Report"),
	)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.7", string(res.Bytes()))
	require.Equal(t, 2, res.Pages)
	require.Equal(t, "conv-1", res.JobID)

	calls := srv.CallsTo(selectpdf.PathConvert)
	require.Len(t, calls, 1)
	p := calls[0].Params
	require.False(t, calls[0].Multipart())
	require.Equal(t, "https://selectpdf.com", p.Get("url"))
	require.Equal(t, "False", p.Get("async"))
	require.Equal(t, "A4", p.Get("page_size"))
	require.Equal(t, "Landscape", p.Get("page_orientation"))
	for _, k := range []string{"margin_top", "margin_right", "margin_bottom", "margin_left"} {
		require.Equal(t, "10", p.Get(k), k)
	}
	require.Equal(t, "Blink", p.Get("engine"))
	require.Equal(t, "1", p.Get("protocol"))
	require.Equal(t, "#AABBCC", p.Get("background_color"))
	require.Equal(t, "true", p.Get("page_numbers"))
	require.Equal(t, "3", p.Get("page_numbers_alignment"))
	require.Equal(t, "Report", p.Get("doc_title"))
	require.Empty(t, p["html"])
}

func TestConvertURL_ValidationBeforeNetwork(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathConvert, selectpdftest.Reply{Body: "%PDF"})
	h := htmltopdf.New(srv.NewClient(t))

	cases := []struct {
		name string
		url  string
		opts []htmltopdf.Option
	}{
		{"ftp scheme", "ftp://example.com", nil},
		{"localhost", "http://localhost/page", nil},
		{"short color", "https://example.com", []htmltopdf.Option{htmltopdf.WithBackgroundColor("12345")}},
		{"page numbers color", "https://example.com", []htmltopdf.Option{htmltopdf.WithPageNumbersColor("red")}},
		{"local header", "https://example.com", []htmltopdf.Option{htmltopdf.WithHeaderURL("http://localhost/header.html")}},
		{"footer base url", "https://example.com", []htmltopdf.Option{htmltopdf.WithFooterBaseURL("file:///tmp")}},
		{"page size", "https://example.com", []htmltopdf.Option{htmltopdf.WithPageSize("B5")}},
		{"negative margin", "https://example.com", []htmltopdf.Option{htmltopdf.WithMarginTop(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.ConvertURL(context.Background(), tc.url, tc.opts...)
			require.True(t, selectpdf.IsValidation(err), "got %v", err)
		})
	}
	require.Empty(t, srv.Calls())
}

func TestConvertHTMLAsync(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathConvert, selectpdftest.Reply{Status: http.StatusAccepted, JobID: "html-job"}).
		On(selectpdf.PathAsyncJob,
			selectpdftest.Reply{Status: http.StatusAccepted},
			selectpdftest.Reply{Body: "%PDF-html", Pages: 1})
	h := htmltopdf.New(srv.NewClient(t))

	var buf bytes.Buffer
	info, err := h.ConvertHTMLAsyncToWriter(context.Background(), "<h1>hi</h1>", &buf,
		htmltopdf.WithBaseURL("https://example.com/assets/"))
	require.NoError(t, err)
	require.Equal(t, "%PDF-html", buf.String())
	require.Equal(t, 1, info.Pages)
	require.Equal(t, "html-job", info.JobID)

	p := srv.CallsTo(selectpdf.PathConvert)[0].Params
	require.Equal(t, "<h1>hi</h1>", p.Get("html"))
	require.Equal(t, "https://example.com/assets/", p.Get("base_url"))
	require.Equal(t, "True", p.Get("async"))
	require.Empty(t, p["url"])
	require.Len(t, srv.CallsTo(selectpdf.PathAsyncJob), 2)
}

func TestConvertHTML_Blank(t *testing.T) {
	srv := selectpdftest.NewServer(t)
	h := htmltopdf.New(srv.NewClient(t))
	_, err := h.ConvertHTML(context.Background(), "   ")
	require.True(t, selectpdf.IsValidation(err))
}

func TestConvertURLToFile_CleansUpOnError(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathConvert, selectpdftest.Reply{Status: http.StatusBadRequest, Body: "Page not found"})
	h := htmltopdf.New(srv.NewClient(t))
	out := filepath.Join(t.TempDir(), "page.pdf")

	_, err := h.ConvertURLToFile(context.Background(), "https://example.com/missing", out)
	require.True(t, selectpdf.IsAPI(err))
	require.Contains(t, err.Error(), "(400) Page not found")
	_, statErr := os.Stat(out)
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestConvertURLToWriter_StalledBodyIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(selectpdf.HeaderPages, "1")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("%PDF-1.7\n"))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	c, err := selectpdf.New("k",
		selectpdf.WithBaseURL(srv.URL+"/api2/"),
		selectpdf.WithTimeout(100*time.Millisecond),
	)
	require.NoError(t, err)
	h := htmltopdf.New(c)

	_, err = h.ConvertURL(context.Background(), "https://example.com")
	require.True(t, selectpdf.IsTimeout(err), "buffered: %v", err)

	var buf bytes.Buffer
	_, err = h.ConvertURLToWriter(context.Background(), "https://example.com", &buf)
	require.True(t, selectpdf.IsTimeout(err), "writer: %v", err)

	out := filepath.Join(t.TempDir(), "stalled.pdf")
	_, err = h.ConvertURLToFile(context.Background(), "https://example.com", out)
	require.True(t, selectpdf.IsTimeout(err), "file: %v", err)
	_, statErr := os.Stat(out)
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

var errDiskFull = errors.New("disk full")

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestConvertURLToWriter_WriteFailureIsIO(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathConvert, selectpdftest.Reply{Body: "%PDF-1.7"})
	h := htmltopdf.New(srv.NewClient(t))

	_, err := h.ConvertURLToWriter(context.Background(), "https://example.com", brokenWriter{})
	e, ok := selectpdf.AsError(err)
	require.True(t, ok, "got %v", err)
	require.Equal(t, selectpdf.ErrKindIO, e.Kind)
	require.ErrorIs(t, err, errDiskFull)
}

func TestWithCookies(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathConvert, selectpdftest.Reply{Body: "%PDF"})
	h := htmltopdf.New(srv.NewClient(t))

	_, err := h.ConvertURL(context.Background(), "https://example.com",
		htmltopdf.WithCookies(map[string]string{"session": "a b", "lang": "en"}))
	require.NoError(t, err)

	got, err := url.ParseQuery(srv.CallsTo(selectpdf.PathConvert)[0].Params.Get("cookies_string"))
	require.NoError(t, err)
	require.Equal(t, url.Values{"session": {"a b"}, "lang": {"en"}}, got)
}

func TestWebElements(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathWebElements, selectpdftest.Reply{Body: `[{"selector":"h1","pageIndex":0,"x":10,"y":20,"width":100,"height":30}]`})
	h := htmltopdf.New(srv.NewClient(t))

	res, err := h.WebElements(context.Background(), "conv-1")
	require.NoError(t, err)
	els, err := res.Elements()
	require.NoError(t, err)
	require.Len(t, els, 1)
	require.Equal(t, "h1", els[0].Selector)
	require.Equal(t, 100.0, els[0].Width)

	call := srv.CallsTo(selectpdf.PathWebElements)[0]
	require.Equal(t, "conv-1", call.Params.Get("job_id"))
	require.Equal(t, "text/json", call.Header.Get("Accept"))
}
