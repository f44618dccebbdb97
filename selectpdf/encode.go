package selectpdf

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const formURLEncoded = "application/x-www-form-urlencoded"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode serializes r into a request body. Without attachments the body is
// url-encoded; otherwise (or when multipart is forced) it is multipart/form-data
// with a fresh random boundary. Parts are emitted in key order.
func (r *Request) Encode() ([]byte, string, error) {
	if !r.multipart && !r.hasAttachments() {
		v := make(url.Values, len(r.params))
		for k, val := range r.params {
			v.Set(k, val)
		}
		return []byte(v.Encode()), formURLEncoded, nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, k := range sortedKeys(r.params) {
		if err := w.WriteField(k, r.params[k]); err != nil {
			return nil, "", err
		}
	}
	for _, k := range sortedKeys(r.files) {
		if err := writeFilePart(w, k, r.files[k]); err != nil {
			return nil, "", err
		}
	}
	for _, k := range sortedKeys(r.binary) {
		part, err := createOctetPart(w, k, k)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(r.binary[k]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open attachment %q: %w", field, err)
	}
	defer f.Close()

	part, err := createOctetPart(w, field, filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read attachment %q: %w", field, err)
	}
	return nil
}

// createOctetPart is multipart.Writer.CreateFormFile with an explicit
// application/octet-stream content type.
func createOctetPart(w *multipart.Writer, field, filename string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", "application/octet-stream")
	return w.CreatePart(h)
}
