package sbp

import (
	"context"
	"errors"
	"io"
)

// Source supplies bytes for record assembly.
//
// ReadRecord fills p completely and returns len(p), nil. When input ends first
// it returns the number of bytes copied into p together with io.EOF. Failures
// of the underlying input are returned as *SourceError; cancellation returns
// ctx.Err().
type Source interface {
	ReadRecord(ctx context.Context, p []byte) (int, error)
}

type readerSource struct {
	r io.Reader
}

// NewReaderSource returns a pull Source that asks r for exactly one record's
// worth of bytes per call.
func NewReaderSource(r io.Reader) Source {
	return &readerSource{r: r}
}

func (s *readerSource) ReadRecord(ctx context.Context, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := io.ReadFull(s.r, p)
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return n, io.EOF
	default:
		return n, &SourceError{Err: err}
	}
}
