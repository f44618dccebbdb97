package pdftotext

import (
	"fmt"
	"strconv"

	"github.com/lgc202/selectpdf-go/selectpdf"
)

type Option = selectpdf.RequestOption

// TextLayout controls how extracted text is arranged.
type TextLayout int

const (
	// LayoutOriginal keeps the physical layout of the page.
	LayoutOriginal TextLayout = iota
	// LayoutReading orders text in reading order.
	LayoutReading
)

type OutputFormat int

const (
	FormatText OutputFormat = iota
	FormatHTML
)

const op = "pdftotext"

// WithStartPage sets the first page to process, starting at 1.
func WithStartPage(page int) Option {
	return func(r *selectpdf.Request) error {
		if page < 1 {
			return invalid("start page must be at least 1, got %d", page)
		}
		r.SetInt("start_page", page)
		return nil
	}
}

// WithEndPage sets the last page to process. 0 means the last page of the document.
func WithEndPage(page int) Option {
	return func(r *selectpdf.Request) error {
		if page < 0 {
			return invalid("end page must not be negative, got %d", page)
		}
		r.SetInt("end_page", page)
		return nil
	}
}

// WithUserPassword opens a password protected PDF.
func WithUserPassword(pw string) Option { return selectpdf.WithUserPassword(pw) }

func WithTextLayout(l TextLayout) Option {
	return func(r *selectpdf.Request) error {
		if l != LayoutOriginal && l != LayoutReading {
			return invalid("unknown text layout %d", int(l))
		}
		r.Set("text_layout", strconv.Itoa(int(l)))
		return nil
	}
}

func WithOutputFormat(f OutputFormat) Option {
	return func(r *selectpdf.Request) error {
		if f != FormatText && f != FormatHTML {
			return invalid("unknown output format %d", int(f))
		}
		r.Set("output_format", strconv.Itoa(int(f)))
		return nil
	}
}

// WithTimeout sets the server-side time budget in seconds.
func WithTimeout(seconds int) Option { return selectpdf.WithServiceTimeout(seconds) }

// Search options.

func WithCaseSensitive(v bool) Option { return selectpdf.WithBool("case_sensitive", v) }

func WithWholeWordsOnly(v bool) Option { return selectpdf.WithBool("whole_words_only", v) }

func invalid(format string, args ...any) error {
	return &selectpdf.Error{Kind: selectpdf.ErrKindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}
