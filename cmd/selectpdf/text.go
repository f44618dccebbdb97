package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lgc202/selectpdf-go/preflight"
	"github.com/lgc202/selectpdf-go/selectpdf"
	"github.com/lgc202/selectpdf-go/selectpdf/pdftotext"
)

type textFlags struct {
	url       string
	outDir    string
	async     bool
	startPage int
	endPage   int
	password  string
	layout    string
	html      bool
	preflight bool
	maxPages  int
}

func newTextCmd(a *app) *cobra.Command {
	var f textFlags

	cmd := &cobra.Command{
		Use:   "text [FILE.pdf ...]",
		Short: "Extract text from PDF files or a PDF URL",
		Long: `Extract text from one or more PDFs.

A single input is written to stdout unless --out-dir is given. Several files
are converted concurrently (--parallel) into --out-dir, one .txt or .html per
input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.text(cmd, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.url, "url", "", "PDF URL to extract from instead of local files")
	fl.StringVar(&f.outDir, "out-dir", "", "directory for extracted files")
	fl.BoolVar(&f.async, "async", false, "submit as an asynchronous job and poll for the result")
	fl.IntVar(&f.startPage, "start-page", 0, "first page, 1-based")
	fl.IntVar(&f.endPage, "end-page", 0, "last page, 0 for the end of the document")
	fl.StringVar(&f.password, "password", "", "user password of the PDF")
	fl.StringVar(&f.layout, "layout", "original", "original or reading")
	fl.BoolVar(&f.html, "html", false, "produce HTML instead of plain text")
	fl.BoolVar(&f.preflight, "preflight", false, "open local files with pdfcpu before uploading")
	fl.IntVar(&f.maxPages, "max-pages", 0, "with --preflight, reject files with more pages")
	return cmd
}

func (f textFlags) options() ([]pdftotext.Option, error) {
	var opts []pdftotext.Option
	if f.startPage > 0 {
		opts = append(opts, pdftotext.WithStartPage(f.startPage))
	}
	if f.endPage > 0 {
		opts = append(opts, pdftotext.WithEndPage(f.endPage))
	}
	if f.password != "" {
		opts = append(opts, pdftotext.WithUserPassword(f.password))
	}
	switch strings.ToLower(f.layout) {
	case "original":
	case "reading":
		opts = append(opts, pdftotext.WithTextLayout(pdftotext.LayoutReading))
	default:
		return nil, fmt.Errorf("unknown layout %q", f.layout)
	}
	if f.html {
		opts = append(opts, pdftotext.WithOutputFormat(pdftotext.FormatHTML))
	}
	return opts, nil
}

func (f textFlags) ext() string {
	if f.html {
		return ".html"
	}
	return ".txt"
}

func (a *app) text(cmd *cobra.Command, f textFlags, files []string) error {
	opts, err := f.options()
	if err != nil {
		return err
	}

	switch {
	case f.url != "" && len(files) > 0:
		return fmt.Errorf("use either --url or files, not both")
	case f.url != "":
		return a.textOne(cmd, f, pdftotext.URL(f.url), "url", opts)
	case len(files) == 0:
		return fmt.Errorf("no input: pass PDF files or --url")
	case len(files) == 1 && f.outDir == "":
		if err := a.preflight(f, files[0]); err != nil {
			return err
		}
		return a.textOne(cmd, f, pdftotext.File(files[0]), files[0], opts)
	}

	if f.outDir == "" {
		return fmt.Errorf("--out-dir is required for more than one file")
	}
	return a.textBatch(cmd, f, files, opts)
}

func (a *app) textOne(cmd *cobra.Command, f textFlags, src pdftotext.Source, name string, opts []pdftotext.Option) error {
	p := pdftotext.New(a.client)
	if f.outDir != "" {
		out := outputPath(f.outDir, name, f.ext())
		info, err := textToFile(cmd.Context(), p, f.async, src, out, opts)
		if err != nil {
			return describe(err)
		}
		fmt.Fprintf(a.stdout, "%s: %d pages\n", out, info.Pages)
		return nil
	}

	var err error
	if f.async {
		_, err = p.TextAsyncToWriter(cmd.Context(), src, a.stdout, opts...)
	} else {
		_, err = p.TextToWriter(cmd.Context(), src, a.stdout, opts...)
	}
	return describe(err)
}

func textToFile(ctx context.Context, p *pdftotext.Client, async bool, src pdftotext.Source, out string, opts []pdftotext.Option) (selectpdf.Info, error) {
	if async {
		return p.TextAsyncToFile(ctx, src, out, opts...)
	}
	return p.TextToFile(ctx, src, out, opts...)
}

// textBatch converts files concurrently. The first failure cancels the
// conversions still in flight.
func (a *app) textBatch(cmd *cobra.Command, f textFlags, files []string, opts []pdftotext.Option) error {
	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return err
	}

	p := pdftotext.New(a.client)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(a.settings.Parallelism)

	outs := batchOutputs(f.outDir, files, f.ext())

	var mu sync.Mutex
	for i, file := range files {
		out := outs[i]
		g.Go(func() error {
			if err := a.preflight(f, file); err != nil {
				return err
			}
			info, err := textToFile(ctx, p, f.async, pdftotext.File(file), out, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", file, describe(err))
			}

			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(a.stdout, "%s: %d pages\n", out, info.Pages)
			return nil
		})
	}
	return g.Wait()
}

func (a *app) preflight(f textFlags, path string) error {
	if !f.preflight {
		return nil
	}
	rep, err := preflight.InspectFile(path, preflight.Options{
		UserPassword: f.password,
		MaxPages:     f.maxPages,
	})
	if err != nil {
		return err
	}
	a.logger.Debug("preflight", "file", path, "pages", rep.Pages, "encrypted", rep.Encrypted, "bytes", rep.Size)
	return nil
}

// outputPath maps an input name to dir/<base><ext>.
func outputPath(dir, name, ext string) string {
	base := filepath.Base(name)
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "document"
	}
	return filepath.Join(dir, base+ext)
}

// batchOutputs gives every input its own output path. Inputs sharing a base
// name get a numeric suffix: report.txt, report-2.txt.
func batchOutputs(dir string, files []string, ext string) []string {
	outs := make([]string, len(files))
	taken := make(map[string]bool, len(files))
	for i, file := range files {
		out := outputPath(dir, file, ext)
		stem := strings.TrimSuffix(out, ext)
		for n := 2; taken[out]; n++ {
			out = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		taken[out] = true
		outs[i] = out
	}
	return outs
}
