package sbp

import (
	"context"
	"errors"
	"io"
)

// DefaultChunkSize matches a typical file stream high-water mark.
const DefaultChunkSize = 64 * 1024

// MaxChunkSize caps the read size of ChunksFromReader.
const MaxChunkSize = 64 << 20

// Chunk is one delivery from a push source. A non-nil Err ends the stream with
// a source error. The receiver may keep Data until it has consumed it, so the
// sender must not reuse the slice.
type Chunk struct {
	Data []byte
	Err  error
}

type chunkSource struct {
	chunks <-chan Chunk
	// pending is the unconsumed tail of the current delivery. It is a view
	// into the sender's slice, never a copy.
	pending []byte
	closed  bool
}

// NewChunkSource returns a Source over deliveries of arbitrary size. A closed
// channel marks the end of input.
//
// A delivery may hold many records and a partial one; bytes left over after a
// record completes are kept and used to start the next record. Nothing beyond
// the record being filled is ever copied, so memory stays bounded even when a
// single delivery is huge.
func NewChunkSource(chunks <-chan Chunk) Source {
	return &chunkSource{chunks: chunks}
}

func (s *chunkSource) ReadRecord(ctx context.Context, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n := 0
	for n < len(p) {
		if len(s.pending) == 0 {
			if s.closed {
				return n, io.EOF
			}
			select {
			case <-ctx.Done():
				return n, ctx.Err()
			case c, ok := <-s.chunks:
				if !ok {
					s.closed = true
					return n, io.EOF
				}
				if c.Err != nil {
					return n, &SourceError{Err: c.Err}
				}
				s.pending = c.Data
			}
			continue
		}
		k := copy(p[n:], s.pending)
		s.pending = s.pending[k:]
		n += k
	}
	return n, nil
}

// ChunksFromReader turns r into a push source: a goroutine reads r in chunks
// of up to size bytes and delivers them in order. size is clamped to
// (0, MaxChunkSize]. The channel is closed at end of input, after a read error
// has been delivered, or once ctx is done.
//
// One read buffer is reused; each delivery is a copy sized to what the read
// returned. The goroutine blocks until each chunk is received, so the consumer
// sets the pace. Cancel ctx when abandoning the channel early.
func ChunksFromReader(ctx context.Context, r io.Reader, size int) <-chan Chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if size > MaxChunkSize {
		size = MaxChunkSize
	}
	out := make(chan Chunk)
	go func() {
		defer close(out)
		buf := make([]byte, size)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				select {
				case out <- Chunk{Data: data}:
				case <-ctx.Done():
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				select {
				case out <- Chunk{Err: err}:
				case <-ctx.Done():
				}
				return
			}
		}
	}()
	return out
}

// SplitChunks delivers data as consecutive chunks of the given sizes, cycling
// through sizes until data is exhausted. Zero or negative sizes produce empty
// deliveries. It is meant for replaying in-memory input through the push
// path.
func SplitChunks(ctx context.Context, data []byte, sizes ...int) <-chan Chunk {
	out := make(chan Chunk)
	go func() {
		defer close(out)
		positive := false
		for _, sz := range sizes {
			if sz > 0 {
				positive = true
			}
		}
		if !positive {
			sizes = []int{len(data)}
		}
		for i := 0; len(data) > 0; i++ {
			sz := sizes[i%len(sizes)]
			if sz < 0 {
				sz = 0
			}
			if sz > len(data) {
				sz = len(data)
			}
			select {
			case out <- Chunk{Data: data[:sz]}:
			case <-ctx.Done():
				return
			}
			data = data[sz:]
		}
	}()
	return out
}
