package sbp

import (
	"context"
	"errors"
)

var (
	// ErrTruncatedHeader means fewer than HeaderSize bytes were available for the header.
	ErrTruncatedHeader = errors.New("sbp: incorrect size for header")
	// ErrTruncatedRecord means input ended part way through a point record.
	ErrTruncatedRecord = errors.New("sbp: truncated point record")
	// ErrInvalidHeader is reserved for header content checks. Headers are
	// currently only length-checked, so it is never returned.
	ErrInvalidHeader = errors.New("sbp: invalid header")
)

// SourceError wraps a failure reported by the underlying byte source.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return "sbp: source: " + e.Err.Error()
}

func (e *SourceError) Unwrap() error { return e.Err }

// Error kinds reported by ErrorKind.
const (
	KindTruncatedHeader = "truncated_header"
	KindTruncatedRecord = "truncated_record"
	KindInvalidHeader   = "invalid_header"
	KindSource          = "source"
	KindCanceled        = "canceled"
)

// ErrorKind classifies a conversion error for display. It returns "" for nil
// and for errors that did not come from decoding.
func ErrorKind(err error) string {
	var se *SourceError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTruncatedHeader):
		return KindTruncatedHeader
	case errors.Is(err, ErrTruncatedRecord):
		return KindTruncatedRecord
	case errors.Is(err, ErrInvalidHeader):
		return KindInvalidHeader
	case errors.As(err, &se):
		return KindSource
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return ""
	}
}
