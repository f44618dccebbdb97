package pdftotext

import (
	"github.com/lgc202/selectpdf-go/selectpdf"
)

// Source is the PDF to process: a local file, an in-memory document or a public URL.
type Source struct {
	path string
	data []byte
	url  string
}

func File(path string) Source { return Source{path: path} }

func Bytes(data []byte) Source { return Source{data: data} }

func URL(u string) Source { return Source{url: u} }

func (s Source) String() string {
	switch {
	case s.path != "":
		return s.path
	case s.url != "":
		return s.url
	case s.data != nil:
		return "<bytes>"
	}
	return "<empty>"
}

// apply puts the source on req. Exactly one of inputPdf and url ends up set.
func (s Source) apply(req *selectpdf.Request) error {
	req.Delete("url").DeleteFile("inputPdf").DeleteBinary("inputPdf")
	switch {
	case s.path != "":
		req.SetFile("inputPdf", s.path)
	case s.data != nil:
		if len(s.data) == 0 {
			return invalid("input pdf is empty")
		}
		req.SetBinary("inputPdf", s.data)
	case s.url != "":
		if err := selectpdf.ValidateURL(op, s.url); err != nil {
			return err
		}
		req.Set("url", s.url)
	default:
		return invalid("no input pdf")
	}
	return nil
}
