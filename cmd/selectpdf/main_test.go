package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lgc202/selectpdf-go/selectpdf"
	"github.com/lgc202/selectpdf-go/selectpdf/selectpdftest"
	"github.com/lgc202/selectpdf-go/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SELECTPDF_API_KEY", "")
	t.Setenv("SELECTPDF_POLL_INTERVAL", "0s")

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func against(srv *selectpdftest.Server, args ...string) []string {
	return append([]string{"--api-key", "k", "--base-url", srv.BaseURL()}, args...)
}

func TestVersion_NeedsNoKey(t *testing.T) {
	out, err := execute(t, "version", "-o", "short")
	require.NoError(t, err)
	require.Equal(t, version.Get().Semver()+"\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "gitVersion:")
	require.Contains(t, out, selectpdf.ClientID())

	_, err = execute(t, "version", "-o", "yaml")
	require.Error(t, err)
}

func TestMissingAPIKey(t *testing.T) {
	_, err := execute(t, "usage")
	require.ErrorContains(t, err, "invalid config")
}

func TestConfigFile(t *testing.T) {
	srv := selectpdftest.NewServer(t).On(selectpdf.PathUsage, selectpdftest.Reply{Body: `{"available":7}`})
	path := filepath.Join(t.TempDir(), "selectpdf.yaml")
	body := "api_key: from-file\nbase_url: " + srv.BaseURL() + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := execute(t, "--config", path, "usage")
	require.NoError(t, err)
	require.Contains(t, out, "7")
	require.Equal(t, "from-file", srv.CallsTo(selectpdf.PathUsage)[0].Params.Get("key"))
}

func TestUsage(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathUsage, selectpdftest.Reply{Body: `{"available":42,"history":[]}`})

	out, err := execute(t, against(srv, "usage", "--history")...)
	require.NoError(t, err)
	require.Contains(t, out, "available:")
	require.Contains(t, out, "42")
	require.Contains(t, out, "history: []")

	call := srv.CallsTo(selectpdf.PathUsage)[0]
	require.Equal(t, "k", call.Params.Get("key"))
	require.Equal(t, "True", call.Params.Get("get_history"))
}

func TestUsage_BadKeyHint(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathUsage, selectpdftest.Reply{Status: http.StatusUnauthorized, Body: "License key not valid."})

	_, err := execute(t, against(srv, "usage")...)
	require.ErrorContains(t, err, "License key not valid.")
	require.ErrorContains(t, err, "SELECTPDF_API_KEY")
}

func TestConvert_HTML(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathConvert, selectpdftest.Reply{Body: "%PDF-1.4 fake", Pages: 2})
	out := filepath.Join(t.TempDir(), "out.pdf")

	stdout, err := execute(t, against(srv, "convert",
		"--html", "<p>hi</p>", "-o", out,
		"--page-size", "A4", "--title", "Report", "--page-numbers", "--cookie", "session=abc")...)
	require.NoError(t, err)
	require.Contains(t, stdout, "2 pages")

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4 fake", string(got))

	p := srv.CallsTo(selectpdf.PathConvert)[0].Params
	require.Equal(t, "<p>hi</p>", p.Get("html"))
	require.Equal(t, "A4", p.Get("page_size"))
	require.Equal(t, "Report", p.Get("doc_title"))
	require.Equal(t, "true", p.Get("page_numbers"))
	require.Equal(t, "False", p.Get("async"))
	require.Empty(t, p.Get("url"))
}

func TestConvert_URLAsync(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathConvert, selectpdftest.Reply{Status: http.StatusAccepted, JobID: "job-1"}).
		On(selectpdf.PathAsyncJob,
			selectpdftest.Reply{Status: http.StatusAccepted},
			selectpdftest.Reply{Body: "pdf", Pages: 1})
	out := filepath.Join(t.TempDir(), "out.pdf")

	stdout, err := execute(t, against(srv, "convert", "--url", "https://example.com", "--async", "-o", out)...)
	require.NoError(t, err)
	require.Contains(t, stdout, "job-1")
	require.Len(t, srv.CallsTo(selectpdf.PathAsyncJob), 2)
	require.Equal(t, "True", srv.CallsTo(selectpdf.PathConvert)[0].Params.Get("async"))
}

func TestConvert_FlagErrors(t *testing.T) {
	srv := selectpdftest.NewServer(t)
	out := filepath.Join(t.TempDir(), "out.pdf")

	_, err := execute(t, against(srv, "convert", "-o", out)...)
	require.Error(t, err)

	_, err = execute(t, against(srv, "convert", "--url", "https://a", "--html", "x", "-o", out)...)
	require.Error(t, err)

	_, err = execute(t, against(srv, "convert", "--url", "http://localhost/x", "-o", out)...)
	require.True(t, selectpdf.IsValidation(err))
	require.Empty(t, srv.Calls())
	require.NoFileExists(t, out)
}

func TestText_Batch(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathPdfToText, selectpdftest.Reply{Body: "hello", Pages: 1})
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "text")

	var files []string
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		path := filepath.Join(in, name)
		require.NoError(t, os.WriteFile(path, []byte("%PDF-"+name), 0o600))
		files = append(files, path)
	}

	args := append([]string{"--parallel", "2", "text", "--out-dir", outDir, "--layout", "reading"}, files...)
	stdout, err := execute(t, against(srv, args...)...)
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(stdout, "1 pages"))

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		got, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)
		require.Equal(t, "hello", string(got))
	}

	calls := srv.CallsTo(selectpdf.PathPdfToText)
	require.Len(t, calls, 3)
	for _, c := range calls {
		require.Equal(t, "1", c.Params.Get("text_layout"))
		require.Len(t, c.Files, 1)
	}
}

func TestText_BatchSameBaseName(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathPdfToText, selectpdftest.Reply{Body: "hello", Pages: 1})
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "text")

	var files []string
	for _, dir := range []string{"x", "y"} {
		require.NoError(t, os.MkdirAll(filepath.Join(in, dir), 0o755))
		path := filepath.Join(in, dir, "report.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-"+dir), 0o600))
		files = append(files, path)
	}

	args := append([]string{"text", "--out-dir", outDir}, files...)
	stdout, err := execute(t, against(srv, args...)...)
	require.NoError(t, err)
	require.Contains(t, stdout, filepath.Join(outDir, "report.txt")+": 1 pages")
	require.Contains(t, stdout, filepath.Join(outDir, "report-2.txt")+": 1 pages")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Len(t, srv.CallsTo(selectpdf.PathPdfToText), 2)
}

func TestText_SingleToStdout(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathPdfToText, selectpdftest.Reply{Body: "page text"})

	stdout, err := execute(t, against(srv, "text", "--url", "https://example.com/doc.pdf")...)
	require.NoError(t, err)
	require.Equal(t, "page text", stdout)
	require.Equal(t, "https://example.com/doc.pdf", srv.CallsTo(selectpdf.PathPdfToText)[0].Params.Get("url"))
}

func TestText_PreflightRejects(t *testing.T) {
	srv := selectpdftest.NewServer(t)
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o600))

	_, err := execute(t, against(srv, "text", "--preflight", path)...)
	require.Error(t, err)
	require.Empty(t, srv.Calls())
}

func TestText_InputErrors(t *testing.T) {
	srv := selectpdftest.NewServer(t)

	_, err := execute(t, against(srv, "text")...)
	require.ErrorContains(t, err, "no input")

	_, err = execute(t, against(srv, "text", "a.pdf", "b.pdf")...)
	require.ErrorContains(t, err, "--out-dir")

	_, err = execute(t, against(srv, "text", "--layout", "columns", "a.pdf")...)
	require.ErrorContains(t, err, "unknown layout")
}

func TestSearch(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathPdfToText, selectpdftest.Reply{
			Body:  `[{"textNumber":1,"page":2,"x":10,"y":20,"width":30,"height":5}]`,
			Pages: 3,
		})
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	stdout, err := execute(t, against(srv, "search", "invoice", path, "--whole-words")...)
	require.NoError(t, err)
	require.Contains(t, stdout, "1 matches in 3 pages")

	p := srv.CallsTo(selectpdf.PathPdfToText)[0].Params
	require.Equal(t, "Search", p.Get("action"))
	require.Equal(t, "invoice", p.Get("search_text"))
	require.Equal(t, "true", p.Get("whole_words_only"))
	require.Equal(t, "false", p.Get("case_sensitive"))
}

func TestMerge(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathPdfMerge, selectpdftest.Reply{Body: "merged", Pages: 5})
	dir := t.TempDir()
	local := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(local, []byte("%PDF-a"), 0o600))
	out := filepath.Join(dir, "out.pdf")

	stdout, err := execute(t, against(srv, "merge", "-o", out,
		"--password", local+"=secret", local, "https://example.com/b.pdf")...)
	require.NoError(t, err)
	require.Contains(t, stdout, "5 pages from 2 inputs")

	call := srv.CallsTo(selectpdf.PathPdfMerge)[0]
	require.Equal(t, "2", call.Params.Get("files_no"))
	require.Equal(t, "secret", call.Params.Get("password_1"))
	require.Equal(t, "https://example.com/b.pdf", call.Params.Get("url_2"))
	require.Equal(t, []byte("%PDF-a"), call.Files["file_1"])
}

func TestElements(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathWebElements, selectpdftest.Reply{
			Body: `[{"selector":"#total","pageIndex":0,"x":1,"y":2,"width":3,"height":4}]`,
		})

	stdout, err := execute(t, against(srv, "elements", "job-9")...)
	require.NoError(t, err)
	require.Contains(t, stdout, "#total")
	require.Equal(t, "job-9", srv.CallsTo(selectpdf.PathWebElements)[0].Params.Get("job_id"))
}

func TestJob(t *testing.T) {
	srv := selectpdftest.NewServer(t).
		On(selectpdf.PathAsyncJob,
			selectpdftest.Reply{Status: http.StatusAccepted},
			selectpdftest.Reply{Body: "pdf", Pages: 4})
	out := filepath.Join(t.TempDir(), "job.pdf")

	stdout, err := execute(t, against(srv, "job", "j-1")...)
	require.NoError(t, err)
	require.Contains(t, stdout, "running")

	stdout, err = execute(t, against(srv, "job", "j-1", "-o", out)...)
	require.NoError(t, err)
	require.Contains(t, stdout, "finished, 4 pages")

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "pdf", string(got))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"/tmp/in/report.pdf", "out/report.txt"},
		{"https://example.com/files/doc.pdf?x=1", "out/doc.txt"},
		{"url", "out/url.txt"},
		{"/", "out/document.txt"},
	}
	for _, tt := range tests {
		require.Equal(t, filepath.FromSlash(tt.want), outputPath("out", tt.name, ".txt"), tt.name)
	}
}

func TestBatchOutputs(t *testing.T) {
	files := []string{"x/report.pdf", "x/report-2.pdf", "y/report.pdf", "z/summary.pdf"}
	want := []string{"out/report.txt", "out/report-2.txt", "out/report-3.txt", "out/summary.txt"}
	got := batchOutputs("out", files, ".txt")
	for i := range want {
		require.Equal(t, filepath.FromSlash(want[i]), got[i], files[i])
	}
}
