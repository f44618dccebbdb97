package pdfmerge

import (
	"strconv"

	"github.com/lgc202/selectpdf-go/selectpdf"
)

// Input is one document to merge. Inputs are merged in the order given.
type Input struct {
	path     string
	url      string
	data     []byte
	password string
}

// File merges a local PDF.
func File(path string) Input { return Input{path: path} }

// URL merges a PDF the service downloads itself.
func URL(u string) Input { return Input{url: u} }

// Bytes merges an in-memory PDF.
func Bytes(data []byte) Input { return Input{data: data} }

// WithPassword returns a copy of in that opens the document with pw.
func (in Input) WithPassword(pw string) Input {
	in.password = pw
	return in
}

func (in Input) String() string {
	switch {
	case in.path != "":
		return in.path
	case in.url != "":
		return in.url
	case in.data != nil:
		return "<bytes>"
	}
	return "<empty>"
}

// apply puts in on req as slot n (1-based).
func (in Input) apply(req *selectpdf.Request, n int) error {
	switch {
	case in.path != "":
		setFileSlot(req, n, in.path)
	case in.url != "":
		if err := selectpdf.ValidateHTTPURL(op, in.url); err != nil {
			return err
		}
		setURLSlot(req, n, in.url)
	case len(in.data) > 0:
		setBinarySlot(req, n, in.data)
	default:
		return invalid("input %d is empty", n)
	}
	setPasswordSlot(req, n, in.password)
	return nil
}

// A slot carries exactly one of file_N (path or bytes) and url_N.

func setFileSlot(req *selectpdf.Request, n int, path string) {
	k := strconv.Itoa(n)
	req.Delete("url_"+k).DeleteBinary("file_"+k).SetFile("file_"+k, path)
}

func setBinarySlot(req *selectpdf.Request, n int, data []byte) {
	k := strconv.Itoa(n)
	req.Delete("url_"+k).DeleteFile("file_"+k).SetBinary("file_"+k, data)
}

func setURLSlot(req *selectpdf.Request, n int, u string) {
	k := strconv.Itoa(n)
	req.DeleteFile("file_"+k).DeleteBinary("file_"+k).Set("url_"+k, u)
}

func setPasswordSlot(req *selectpdf.Request, n int, pw string) {
	k := "password_" + strconv.Itoa(n)
	if pw == "" {
		req.Delete(k)
		return
	}
	req.Set(k, pw)
}
