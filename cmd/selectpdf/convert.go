package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lgc202/selectpdf-go/selectpdf"
	"github.com/lgc202/selectpdf-go/selectpdf/htmltopdf"
)

type convertFlags struct {
	url      string
	html     string
	htmlFile string
	baseURL  string
	out      string
	async    bool

	pageSize    string
	orientation string
	margins     int
	engine      string
	title       string
	headerHTML  string
	footerHTML  string
	pageNumbers bool
	cookies     map[string]string
	elements    string
	delay       int
}

func newConvertCmd(a *app) *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert (--url URL | --html HTML | --html-file FILE) -o out.pdf",
		Short: "Convert a web page or an HTML string to PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.convert(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.url, "url", "", "public URL to convert")
	fl.StringVar(&f.html, "html", "", "raw HTML to convert")
	fl.StringVar(&f.htmlFile, "html-file", "", "read the HTML to convert from a file")
	fl.StringVar(&f.baseURL, "base-url-html", "", "base URL for relative links in --html")
	fl.StringVarP(&f.out, "output", "o", "", "output PDF path")
	fl.BoolVar(&f.async, "async", false, "submit as an asynchronous job and poll for the result")
	fl.StringVar(&f.pageSize, "page-size", "", "A1..A5, Letter, HalfLetter, Ledger, Legal")
	fl.StringVar(&f.orientation, "orientation", "", "Portrait or Landscape")
	fl.IntVar(&f.margins, "margins", -1, "all four margins in points")
	fl.StringVar(&f.engine, "engine", "", "WebKit, Restricted or Blink")
	fl.StringVar(&f.title, "title", "", "PDF document title")
	fl.StringVar(&f.headerHTML, "header-html", "", "HTML shown in the page header")
	fl.StringVar(&f.footerHTML, "footer-html", "", "HTML shown in the page footer")
	fl.BoolVar(&f.pageNumbers, "page-numbers", false, "print page numbers in the footer")
	fl.StringToStringVar(&f.cookies, "cookie", nil, "cookie sent with the page request, name=value")
	fl.StringVar(&f.elements, "web-elements", "", "CSS selectors whose positions are recorded (see elements)")
	fl.IntVar(&f.delay, "delay", 0, "seconds to wait after the page loads")
	cmd.MarkFlagsMutuallyExclusive("url", "html", "html-file")
	cmd.MarkFlagsOneRequired("url", "html", "html-file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (f convertFlags) options() []htmltopdf.Option {
	var opts []htmltopdf.Option
	if f.pageSize != "" {
		opts = append(opts, htmltopdf.WithPageSize(htmltopdf.PageSize(f.pageSize)))
	}
	if f.orientation != "" {
		opts = append(opts, htmltopdf.WithPageOrientation(htmltopdf.PageOrientation(f.orientation)))
	}
	if f.margins >= 0 {
		opts = append(opts, htmltopdf.WithMargins(f.margins))
	}
	if f.engine != "" {
		opts = append(opts, htmltopdf.WithRenderingEngine(htmltopdf.RenderingEngine(f.engine)))
	}
	if f.title != "" {
		opts = append(opts, htmltopdf.WithDocTitle(f.title))
	}
	if f.headerHTML != "" {
		opts = append(opts, htmltopdf.WithShowHeader(true), htmltopdf.WithHeaderHTML(f.headerHTML))
	}
	if f.footerHTML != "" || f.pageNumbers {
		opts = append(opts, htmltopdf.WithShowFooter(true))
	}
	if f.footerHTML != "" {
		opts = append(opts, htmltopdf.WithFooterHTML(f.footerHTML))
	}
	if f.pageNumbers {
		opts = append(opts, htmltopdf.WithShowPageNumbers(true))
	}
	if len(f.cookies) > 0 {
		opts = append(opts, htmltopdf.WithCookies(f.cookies))
	}
	if f.elements != "" {
		opts = append(opts, htmltopdf.WithPdfWebElementsSelectors(f.elements))
	}
	if f.delay > 0 {
		opts = append(opts, htmltopdf.WithMinLoadTime(f.delay))
	}
	if f.baseURL != "" {
		opts = append(opts, htmltopdf.WithBaseURL(f.baseURL))
	}
	return opts
}

func (a *app) convert(cmd *cobra.Command, f convertFlags) error {
	ctx := cmd.Context()
	h := htmltopdf.New(a.client)
	opts := f.options()

	html := f.html
	if f.htmlFile != "" {
		b, err := os.ReadFile(f.htmlFile)
		if err != nil {
			return err
		}
		html = string(b)
	}

	var (
		info selectpdf.Info
		err  error
	)
	switch {
	case f.url != "" && f.async:
		info, err = h.ConvertURLAsyncToFile(ctx, f.url, f.out, opts...)
	case f.url != "":
		info, err = h.ConvertURLToFile(ctx, f.url, f.out, opts...)
	case f.async:
		info, err = h.ConvertHTMLAsyncToFile(ctx, html, f.out, opts...)
	default:
		info, err = h.ConvertHTMLToFile(ctx, html, f.out, opts...)
	}
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(a.stdout, "%s: %d pages\n", f.out, info.Pages)
	if info.JobID != "" {
		fmt.Fprintf(a.stdout, "job id: %s\n", info.JobID)
	}
	return nil
}

// describe adds a hint for the failures a shell user can act on.
func describe(err error) error {
	var e *selectpdf.Error
	if !errors.As(err, &e) {
		return err
	}
	switch {
	case e.Kind == selectpdf.ErrKindAPI && e.StatusCode == 401:
		return fmt.Errorf("%w (check --api-key or SELECTPDF_API_KEY)", err)
	case e.Kind == selectpdf.ErrKindTimeout && e.JobID != "":
		return fmt.Errorf("%w (resume with: selectpdf job %s --wait)", err, e.JobID)
	}
	return err
}
