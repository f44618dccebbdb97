// Package preflight inspects local PDF files before they are uploaded, so a
// broken or oversized document fails fast instead of costing a conversion.
package preflight

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var ErrTooManyPages = errors.New("preflight: too many pages")

// Report describes a PDF as read locally.
type Report struct {
	Pages     int
	Encrypted bool
	Size      int64
}

// Options bounds what is accepted.
type Options struct {
	// UserPassword opens encrypted documents.
	UserPassword string
	// MaxPages rejects documents with more pages; 0 disables the check.
	MaxPages int
	// Strict switches pdfcpu from relaxed to strict validation.
	Strict bool
}

// InspectFile reads the PDF at path.
func InspectFile(path string, opts Options) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	rep, err := inspect(f, opts)
	if err != nil {
		return nil, fmt.Errorf("preflight %s: %w", path, err)
	}
	rep.Size = fi.Size()
	return rep, nil
}

// InspectBytes reads an in-memory PDF.
func InspectBytes(data []byte, opts Options) (*Report, error) {
	rep, err := inspect(bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("preflight: %w", err)
	}
	rep.Size = int64(len(data))
	return rep, nil
}

func inspect(rs io.ReadSeeker, opts Options) (*Report, error) {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = opts.UserPassword
	conf.ValidationMode = model.ValidationRelaxed
	if opts.Strict {
		conf.ValidationMode = model.ValidationStrict
	}

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, err
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, err
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, err
	}

	rep := &Report{
		Pages:     ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
	}
	if opts.MaxPages > 0 && rep.Pages > opts.MaxPages {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyPages, rep.Pages, opts.MaxPages)
	}
	return rep, nil
}
