package sbp

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// RecordReader yields the header record and then each point record of an SBP
// stream, in input order.
type RecordReader struct {
	src Source
	buf [HeaderSize]byte

	headerDone bool
	points     int
	err        error
}

func NewRecordReader(src Source) *RecordReader {
	return &RecordReader{src: src}
}

// Next returns the next complete record. The first call returns the header.
// At a clean end of input after a whole point record it returns io.EOF.
//
// Record.Data aliases an internal buffer and is only valid until the next
// call. Errors are sticky: once Next fails it keeps returning the same error.
func (r *RecordReader) Next(ctx context.Context) (Record, error) {
	if r.err != nil {
		return Record{}, r.err
	}
	rec, err := r.next(ctx)
	if err != nil {
		r.err = err
		return Record{}, err
	}
	return rec, nil
}

// Points reports how many point records have been returned so far.
func (r *RecordReader) Points() int { return r.points }

func (r *RecordReader) next(ctx context.Context) (Record, error) {
	if !r.headerDone {
		p := r.buf[:HeaderSize]
		n, err := r.src.ReadRecord(ctx, p)
		if err != nil && !errors.Is(err, io.EOF) {
			return Record{}, err
		}
		if n != HeaderSize {
			return Record{}, fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedHeader, n, HeaderSize)
		}
		if err := validateHeader(p); err != nil {
			return Record{}, err
		}
		r.headerDone = true
		return Record{Kind: HeaderRecord, Data: p}, nil
	}

	p := r.buf[:PointSize]
	n, err := r.src.ReadRecord(ctx, p)
	if err != nil && !errors.Is(err, io.EOF) {
		return Record{}, err
	}
	if n == 0 && err != nil {
		return Record{}, io.EOF
	}
	if n != PointSize {
		return Record{}, fmt.Errorf("%w: record %d has %d of %d bytes", ErrTruncatedRecord, r.points, n, PointSize)
	}
	r.points++
	return Record{Kind: PointRecord, Data: p}, nil
}

// validateHeader is the hook for header content checks. The header layout is
// not decoded, so any full-length header is accepted.
func validateHeader(h []byte) error {
	if len(h) != HeaderSize {
		return ErrInvalidHeader
	}
	return nil
}
