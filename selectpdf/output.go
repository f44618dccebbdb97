package selectpdf

import (
	"context"
	"errors"
	"io"
	"os"
)

// Run is one terminal call: it sends the request and writes the content to sink.
type Run func(ctx context.Context, sink io.Writer) (*Envelope, error)

// ToWriter runs fn streaming into w.
func ToWriter(ctx context.Context, w io.Writer, fn Run) (Info, error) {
	if w == nil {
		return Info{}, validationError("output", "nil writer")
	}
	env, err := fn(ctx, w)
	if err != nil {
		return Info{}, err
	}
	return infoOf(env), nil
}

// ToFile runs fn streaming into a newly created file at path. The file is
// closed on every path and removed when anything fails.
func ToFile(ctx context.Context, path string, fn Run) (info Info, err error) {
	if path == "" {
		return Info{}, validationError("output", "output file path is required")
	}
	f, err := os.Create(path)
	if err != nil {
		return Info{}, ioError("output", err)
	}
	defer func() {
		cerr := f.Close()
		if err == nil && cerr != nil {
			err = ioError("output", cerr)
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				err = errors.Join(err, rerr)
			}
		}
	}()

	env, err := fn(ctx, f)
	if err != nil {
		return Info{}, err
	}
	return infoOf(env), nil
}

// Buffered runs fn without a sink and wraps the buffered body.
func Buffered(ctx context.Context, fn Run) (*Result, error) {
	env, err := fn(ctx, nil)
	if err != nil {
		return nil, err
	}
	return NewResult(env), nil
}
